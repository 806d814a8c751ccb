package cmd

import (
	"testing"

	"github.com/moamenhredeen/oas/internal/generator"
	"github.com/moamenhredeen/oas/internal/models"
	"github.com/moamenhredeen/oas/internal/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePairs(t *testing.T) {
	values, err := parsePairs([]string{"id=7", "tag=a", "tag=b", "q=x=y", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"id":    {"7"},
		"tag":   {"a", "b"},
		"q":     {"x=y"},
		"empty": {""},
	}, values)

	_, err = parsePairs([]string{"novalue"})
	assert.Error(t, err)
	_, err = parsePairs([]string{"=x"})
	assert.Error(t, err)
}

func TestFlatPairs(t *testing.T) {
	assert.Nil(t, flatPairs(nil))
	assert.Equal(t, map[string]string{"X-Token": "b"}, flatPairs(map[string][]string{"X-Token": {"a", "b"}}))
}

func TestCallRequestFlattened(t *testing.T) {
	route := generator.Routing{Path: []string{"id"}, Query: []string{"tag"}}

	req, err := callRequest(route, false, map[string][]string{"id": {"7"}, "tag": {"a", "b"}}, map[string]any{"title": "Alien"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "7", "tag": []string{"a", "b"}, "title": "Alien"}, req)

	req, err = callRequest(route, false, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, req)

	_, err = callRequest(route, false, nil, []any{1.0})
	assert.Error(t, err)
}

func TestCallRequestFull(t *testing.T) {
	route := generator.Routing{Path: []string{"id"}, Query: []string{"fields"}, Header: []string{"X-Trace"}}

	req, err := callRequest(route, true, map[string][]string{
		"id":      {"7"},
		"fields":  {"title"},
		"X-Trace": {"abc"},
	}, "raw")
	require.NoError(t, err)
	assert.Equal(t, runtime.FullRequest{
		Path:    map[string]any{"id": "7"},
		Query:   map[string]any{"fields": "title"},
		Headers: map[string]any{"X-Trace": "abc"},
		Body:    "raw",
	}, req)

	_, err = callRequest(route, true, map[string][]string{"other": {"1"}}, nil)
	assert.Error(t, err)
}

func TestFilterOperations(t *testing.T) {
	ops := []models.Operation{
		{OperationID: "getMovie", Path: "/movies/{id}", Tags: []string{"movies"}},
		{OperationID: "health", Path: "/health"},
		{OperationID: "uploadPoster", Path: "/posters", Tags: []string{"posters", "movies"}},
	}

	ids := func(ops []models.Operation) []string {
		var out []string
		for _, op := range ops {
			out = append(out, op.OperationID)
		}
		return out
	}

	assert.Equal(t, []string{"getMovie", "health", "uploadPoster"}, ids(filterOperations(ops, "", nil)))
	assert.Equal(t, []string{"getMovie"}, ids(filterOperations(ops, "movies", nil)))
	assert.Equal(t, []string{"health"}, ids(filterOperations(ops, "health", nil)))
	assert.Equal(t, []string{"getMovie", "uploadPoster"}, ids(filterOperations(ops, "", []string{"movies"})))
	assert.Empty(t, filterOperations(ops, "health", []string{"movies"}))
}

func TestRouteSummary(t *testing.T) {
	assert.Equal(t, "", routeSummary(generator.Routing{}))
	assert.Equal(t, "path=id query=a,b header=X-Trace", routeSummary(generator.Routing{
		Path:   []string{"id"},
		Query:  []string{"a", "b"},
		Header: []string{"X-Trace"},
	}))
}
