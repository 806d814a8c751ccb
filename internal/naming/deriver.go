package naming

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/moamenhredeen/oas/internal/models"
)

// IDSet is an immutable set of identifiers that remembers insertion order.
// The zero value is empty and ready to use.
type IDSet struct {
	head *idNode
	size int
}

type idNode struct {
	id   string
	next *idNode
}

// With returns a set that also contains id. The receiver is not modified.
func (s IDSet) With(id string) IDSet {
	return IDSet{head: &idNode{id: id, next: s.head}, size: s.size + 1}
}

// Has reports whether id is in the set
func (s IDSet) Has(id string) bool {
	for n := s.head; n != nil; n = n.next {
		if n.id == id {
			return true
		}
	}
	return false
}

// Len returns the number of identifiers in the set
func (s IDSet) Len() int {
	return s.size
}

// Slice returns the identifiers in insertion order
func (s IDSet) Slice() []string {
	out := make([]string, s.size)
	i := s.size - 1
	for n := s.head; n != nil; n = n.next {
		out[i] = n.id
		i--
	}
	return out
}

// Unique returns base if it is free, otherwise the first free numbered variant
// Example: with "getMovies" taken, "getMovies" -> "getMovies1"
func (s IDSet) Unique(base string) string {
	if !s.Has(base) {
		return base
	}
	for n := 1; ; n++ {
		candidate := base + strconv.Itoa(n)
		if !s.Has(candidate) {
			return candidate
		}
	}
}

// Deriver produces a unique, code-safe identifier for an operation given the
// identifiers already produced in the same run. Implementations must not keep
// state between calls; everything they need is in taken.
type Deriver interface {
	Derive(path string, method models.Method, op models.Operation, taken IDSet) string
}

// DeriverFunc adapts a function to the Deriver interface
type DeriverFunc func(path string, method models.Method, op models.Operation, taken IDSet) string

// Derive implements Deriver.
func (f DeriverFunc) Derive(path string, method models.Method, op models.Operation, taken IDSet) string {
	return f(path, method, op, taken)
}

// DefaultDeriver uses the declared operationId when present and falls back to
// method plus path segments otherwise.
type DefaultDeriver struct{}

var pathToken = regexp.MustCompile(`\{([^}]+)\}`)

// Derive implements Deriver.
func (DefaultDeriver) Derive(path string, method models.Method, op models.Operation, taken IDSet) string {
	var base string
	switch {
	case IsIdentifier(op.DeclaredID):
		base = op.DeclaredID
	case op.DeclaredID != "":
		base = CamelCase(op.DeclaredID)
	default:
		base = fromPath(path, method)
	}
	return uniqueTypeName(taken, SafeIdentifier(base))
}

// uniqueTypeName is IDSet.Unique, also skipping candidates whose type name
// is already produced by a taken identifier ("get_movies" and "getMovies").
func uniqueTypeName(taken IDSet, base string) string {
	typeNames := make(map[string]bool, taken.Len())
	for _, id := range taken.Slice() {
		typeNames[TypeName(id)] = true
	}
	candidate := base
	for n := 1; taken.Has(candidate) || typeNames[TypeName(candidate)]; n++ {
		candidate = base + strconv.Itoa(n)
	}
	return candidate
}

// fromPath builds "getMoviesId" out of "GET /movies/{id}"
func fromPath(path string, method models.Method) string {
	withParams := pathToken.ReplaceAllStringFunc(path, func(token string) string {
		return Capitalize(strings.Trim(token, "{}"))
	})

	var b strings.Builder
	b.WriteString(string(method))
	for _, segment := range strings.FieldsFunc(withParams, func(r rune) bool {
		return r == '/' || r == '-' || r == '.' || r == '_'
	}) {
		b.WriteString(Capitalize(segment))
	}
	return b.String()
}
