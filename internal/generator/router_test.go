package generator

import (
	"testing"

	"github.com/moamenhredeen/oas/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRoute(t *testing.T) {
	op := models.Operation{
		Path: "/users/{userId}/posts/{postId}",
		Parameters: []models.Parameter{
			{Name: "postId", In: models.LocationPath},
			{Name: "page", In: models.LocationQuery},
			{Name: "x-tenant", In: models.LocationHeader},
			{Name: "session", In: models.LocationCookie},
			{Name: "size", In: models.LocationQuery},
		},
	}

	r := Route(op)
	assert.Equal(t, []string{"userId", "postId"}, r.Path)
	assert.Equal(t, []string{"page", "size"}, r.Query)
	assert.Equal(t, []string{"x-tenant"}, r.Header)
}

func TestRouteWithoutParameters(t *testing.T) {
	r := Route(models.Operation{Path: "/health"})
	assert.Empty(t, r.Path)
	assert.Empty(t, r.Query)
	assert.Empty(t, r.Header)
}

func TestExpandPath(t *testing.T) {
	got := ExpandPath("/movies/{id}/cast/{name}", func(name string) string {
		return "<" + name + ">"
	})
	assert.Equal(t, "/movies/<id>/cast/<name>", got)
	assert.Equal(t, "/plain", ExpandPath("/plain", func(string) string { return "x" }))
}
