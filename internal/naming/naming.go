// Package naming derives code-safe identifiers for generated clients.
package naming

import (
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Capitalize upper-cases the first letter of every word, leaving the rest untouched.
// Example: "getMovie" -> "GetMovie"
func Capitalize(s string) string {
	// A Caser is stateful, so one per call.
	return cases.Title(language.Und, cases.NoLower).String(s)
}

// Words splits s on separators and on lower-to-upper case boundaries.
// Example: "getHTTPResponse_code" -> ["get", "HTTP", "Response", "code"]
func Words(s string) []string {
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(current) > 0 && unicode.IsUpper(r) {
			prev := current[len(current)-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		current = append(current, r)
	}
	flush()

	return words
}

// PascalCase joins the words of s with each word capitalized and the rest lower-cased.
// Example: "get-movie_by id" -> "GetMovieById"
func PascalCase(s string) string {
	var b strings.Builder
	for _, w := range Words(s) {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// CamelCase is PascalCase with the first letter lower-cased.
// Example: "GetMovies" -> "getMovies"
func CamelCase(s string) string {
	pascal := PascalCase(s)
	if pascal == "" {
		return ""
	}
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// TypeName returns the exported type prefix used for an identifier.
// Example: "get_movies" -> "GetMovies"
func TypeName(id string) string {
	return Capitalize(CamelCase(id))
}

// RequestTypeName names the request type of an operation
func RequestTypeName(id string) string {
	return TypeName(id) + "Request"
}

// ResponsesTypeName names the union of responses of an operation
func ResponsesTypeName(id string) string {
	return TypeName(id) + "Responses"
}

// ResponseTypeName names the body type of one declared response.
// Example: ("getMovie", "404") -> "GetMovieResponseNotFound"
func ResponseTypeName(id, status string) string {
	return TypeName(id) + "Response" + StatusName(status)
}

// StatusName names a status code after its reason phrase. Words keep
// their casing, so acronyms stay upper-case.
// Example: "200" -> "OK", "404" -> "NotFound", "default" -> "Default"
func StatusName(status string) string {
	code, err := strconv.Atoi(status)
	if err != nil {
		return joinCapitalized(status)
	}
	if text := http.StatusText(code); text != "" {
		return joinCapitalized(text)
	}
	return status
}

func joinCapitalized(s string) string {
	var b strings.Builder
	for _, w := range Words(s) {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// IsIdentifier reports whether s can be used verbatim as a JavaScript identifier
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r < unicode.MaxASCII && unicode.IsLetter(r):
		case i > 0 && r < unicode.MaxASCII && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return !reserved[s]
}

// SafeIdentifier strips characters that are not valid in identifiers
func SafeIdentifier(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$') {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		return "operation"
	}
	if unicode.IsDigit(rune(out[0])) || reserved[out] {
		return "_" + out
	}
	return out
}

var reserved = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "export": true, "extends": true, "finally": true, "for": true,
	"function": true, "if": true, "import": true, "in": true, "instanceof": true,
	"new": true, "return": true, "super": true, "switch": true, "this": true,
	"throw": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true, "yield": true, "let": true, "static": true,
	"enum": true, "await": true, "null": true, "true": true, "false": true,
}
