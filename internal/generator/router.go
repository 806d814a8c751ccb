package generator

import (
	"regexp"

	"github.com/moamenhredeen/oas/internal/models"
)

var pathToken = regexp.MustCompile(`\{([^}]+)\}`)

// Routing lists where request values go. Cookie parameters are not routed.
type Routing struct {
	Path   []string
	Query  []string
	Header []string
}

// Route partitions the parameters of op. Query and header names keep their
// declaration order; path names come from the {name} tokens of the template.
func Route(op models.Operation) Routing {
	var r Routing
	for _, p := range op.Parameters {
		switch p.In {
		case models.LocationQuery:
			r.Query = append(r.Query, p.Name)
		case models.LocationHeader:
			r.Header = append(r.Header, p.Name)
		}
	}
	r.Path = PathParams(op.Path)
	return r
}

// PathParams returns the names of the {name} tokens in a path template
func PathParams(path string) []string {
	var names []string
	for _, m := range pathToken.FindAllStringSubmatch(path, -1) {
		names = append(names, m[1])
	}
	return names
}

// ExpandPath replaces every {name} token with the result of value(name)
func ExpandPath(path string, value func(name string) string) string {
	return pathToken.ReplaceAllStringFunc(path, func(token string) string {
		return value(token[1 : len(token)-1])
	})
}
