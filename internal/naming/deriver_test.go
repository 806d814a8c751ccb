package naming

import (
	"testing"

	"github.com/moamenhredeen/oas/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDSet(t *testing.T) {
	var empty IDSet
	assert.Equal(t, 0, empty.Len())
	assert.False(t, empty.Has("a"))

	one := empty.With("a")
	two := one.With("b")

	assert.False(t, empty.Has("a"), "With must not modify the receiver")
	assert.True(t, one.Has("a"))
	assert.False(t, one.Has("b"))
	assert.Equal(t, []string{"a", "b"}, two.Slice())
	assert.Equal(t, 2, two.Len())
}

func TestIDSetUnique(t *testing.T) {
	taken := IDSet{}.With("getMovies").With("getMovies1")

	assert.Equal(t, "getMovie", taken.Unique("getMovie"))
	assert.Equal(t, "getMovies2", taken.Unique("getMovies"))
}

func TestDefaultDeriver(t *testing.T) {
	d := DefaultDeriver{}

	tests := []struct {
		name   string
		path   string
		method models.Method
		op     models.Operation
		want   string
	}{
		{"declared", "/movies/{id}", models.MethodGet, models.Operation{DeclaredID: "getMovie"}, "getMovie"},
		{"declared not an identifier", "/movies", models.MethodGet, models.Operation{DeclaredID: "list-movies"}, "listMovies"},
		{"inferred", "/movies/{id}", models.MethodGet, models.Operation{}, "getMoviesId"},
		{"inferred nested", "/organizations/{orgId}/members", models.MethodPost, models.Operation{}, "postOrganizationsOrgIdMembers"},
		{"inferred root", "/", models.MethodGet, models.Operation{}, "get"},
		{"inferred dashes", "/sales-report", models.MethodDelete, models.Operation{}, "deleteSalesReport"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Derive(tt.path, tt.method, tt.op, IDSet{}))
		})
	}
}

func TestDefaultDeriverCollisions(t *testing.T) {
	d := DefaultDeriver{}
	taken := IDSet{}

	first := d.Derive("/movies", models.MethodGet, models.Operation{}, taken)
	taken = taken.With(first)
	second := d.Derive("/movies", models.MethodGet, models.Operation{DeclaredID: "getMovies"}, taken)
	taken = taken.With(second)
	third := d.Derive("/movies/", models.MethodGet, models.Operation{}, taken)

	require.Equal(t, "getMovies", first)
	assert.Equal(t, "getMovies1", second)
	assert.Equal(t, "getMovies2", third)
}

func TestDefaultDeriverTypeNameCollisions(t *testing.T) {
	d := DefaultDeriver{}
	taken := IDSet{}.With("get_movies")

	id := d.Derive("/movies", models.MethodGet, models.Operation{DeclaredID: "getMovies"}, taken)
	assert.Equal(t, "getMovies1", id)
	assert.NotEqual(t, TypeName("get_movies"), TypeName(id))
}

func TestDeriverFunc(t *testing.T) {
	var d Deriver = DeriverFunc(func(path string, method models.Method, _ models.Operation, taken IDSet) string {
		return taken.Unique(string(method) + "Op")
	})
	assert.Equal(t, "getOp1", d.Derive("/", models.MethodGet, models.Operation{}, IDSet{}.With("getOp")))
}
