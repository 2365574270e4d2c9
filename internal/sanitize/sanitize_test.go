package sanitize

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain text unchanged", "what skills do I need", "what skills do I need"},
		{"Trims whitespace", "  hello  ", "hello"},
		{"Empty input", "", ""},
		{"Whitespace only", "   \t\n  ", ""},
		{"Collapses inner whitespace", "a   b\t\tc", "a b c"},
		{"Newlines become spaces", "line one\nline two", "line one line two"},
		{"Control characters dropped", "he\x00llo\x1b[31m", "hello[31m"},
		{"Angle brackets neutralized", "<script>alert(1)</script>", "(script)alert(1)(/script)"},
		{"Braces neutralized", "{{.Injection}}", "((.Injection))"},
		{"Backticks neutralized", "run `rm -rf`", "run 'rm -rf'"},
		{"Unicode preserved", "développeur sénior", "développeur sénior"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Clean(tt.input))
		})
	}
}

// Clean must never emit control or markup characters, whatever the input.
func TestClean_NeverEmitsUnsafeRunes(t *testing.T) {
	inputs := []string{
		"normal question",
		"\x00\x01\x02\x03\x04",
		"<b>{`$\\}</b>",
		"mixed \x7f text <tag> `code` {tmpl}",
		string([]byte{0xff, 0xfe, 0x41}),
		"\u202e right-to-left",
	}

	for _, input := range inputs {
		out := Clean(input)
		for _, r := range out {
			assert.False(t, unicode.IsControl(r), "control rune %q leaked from input %q", r, input)
		}
		assert.NotContains(t, out, "<")
		assert.NotContains(t, out, ">")
		assert.NotContains(t, out, "{")
		assert.NotContains(t, out, "}")
		assert.NotContains(t, out, "`")
	}
}

func TestCleanQuery(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain query unchanged", "data scientist jobs", "data scientist jobs"},
		{"Empty input", "", ""},
		{"Strips query syntax", `"data" AND (scientist) -junior`, "data AND scientist junior"},
		{"Slashes become spaces", "ml/ai engineer", "ml ai engineer"},
		{"Wildcards removed", "eng*neer?", "engneer"},
		{"Boolean operators stripped", "go && rust || zig", "go rust zig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanQuery(tt.input))
		})
	}
}

func TestCleanURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Valid https URL", "https://www.linkedin.com/in/someone", "https://www.linkedin.com/in/someone"},
		{"Valid http URL", "http://example.com/x", "http://example.com/x"},
		{"Trims whitespace", "  https://example.com  ", "https://example.com"},
		{"Empty input", "", ""},
		{"Relative URL rejected", "/in/someone", ""},
		{"Missing scheme rejected", "www.linkedin.com/in/someone", ""},
		{"Non-http scheme rejected", "ftp://example.com", ""},
		{"Javascript scheme rejected", "javascript:alert(1)", ""},
		{"Embedded whitespace rejected", "https://exa mple.com", ""},
		{"Embedded control rejected", "https://example.com/\x00evil", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanURL(tt.input))
		})
	}
}
