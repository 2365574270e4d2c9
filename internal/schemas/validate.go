// Package schemas validates inbound request bodies against JSON Schemas
// embedded at compile time. Malformed bodies are rejected before any handler
// logic runs.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.json
var schemaFiles embed.FS

// cache stores compiled schemas to avoid reparsing per request
var (
	cache   = make(map[string]*gojsonschema.Schema)
	cacheMu sync.RWMutex
)

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError represents a schema validation failure with field paths
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("request validation failed: ")
	for i, err := range ve.Errors {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return sb.String()
}

// Validate validates a JSON document against the named embedded schema
// (e.g. "chat_request.json").
func Validate(schemaName string, document []byte) error {
	schema, err := loadSchema(schemaName)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: "body is not valid JSON"}}}
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

// loadSchema compiles and caches an embedded schema file.
func loadSchema(name string) (*gojsonschema.Schema, error) {
	cacheMu.RLock()
	schema, ok := cache[name]
	cacheMu.RUnlock()
	if ok {
		return schema, nil
	}

	data, err := schemaFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("unknown schema %q: %w", name, err)
	}

	schema, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %q: %w", name, err)
	}

	cacheMu.Lock()
	cache[name] = schema
	cacheMu.Unlock()
	return schema, nil
}
