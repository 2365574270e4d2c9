// Package sanitize normalizes free-text inputs before they are interpolated
// into prompts or outbound service requests.
package sanitize

import (
	"net/url"
	"strings"
	"unicode"
)

// markupReplacer neutralizes characters that carry meaning inside prompts or
// HTML-ish contexts.
var markupReplacer = strings.NewReplacer(
	"<", "(",
	">", ")",
	"{", "(",
	"}", ")",
	"`", "'",
	"$", "",
	"\\", "",
)

// queryReplacer removes characters that break the search service's query
// syntax.
var queryReplacer = strings.NewReplacer(
	"\"", "",
	"'", "",
	"/", " ",
	"*", "",
	"?", "",
	":", " ",
	"[", "",
	"]", "",
	"(", "",
	")", "",
	"^", "",
	"~", "",
	"!", "",
	"&", " ",
	"|", " ",
	"+", " ",
	"-", " ",
)

// Clean returns the input with control characters removed, markup-significant
// characters neutralized, and whitespace collapsed. Blank input yields "".
// Clean is pure and has no failure modes.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(' ')
		case unicode.IsControl(r):
			// dropped
		default:
			b.WriteRune(r)
		}
	}

	s = markupReplacer.Replace(b.String())
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// CleanQuery cleans a string destined for the search index, additionally
// stripping query-syntax-significant characters.
func CleanQuery(s string) string {
	s = Clean(s)
	if s == "" {
		return ""
	}
	s = queryReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// CleanURL cleans a string expected to be an absolute http(s) URL.
// Returns "" when the input does not parse as one.
func CleanURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, r := range s {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return ""
		}
	}

	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return u.String()
}
