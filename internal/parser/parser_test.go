package parser

import (
	"testing"

	"github.com/moamenhredeen/oas/internal/models"
	"github.com/moamenhredeen/oas/internal/naming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile(t *testing.T) {
	p, err := ParseFile("../../testdata/pet-store.json")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Swagger Petstore", p.Title())
}

func TestParseFileNotFound(t *testing.T) {
	_, err := ParseFile("nonexistent.json")
	assert.Error(t, err)
}

func TestParseBytesInvalid(t *testing.T) {
	_, err := ParseBytes([]byte("hello: world\n"))
	assert.Error(t, err)
}

func TestGetServerURLs(t *testing.T) {
	p, err := ParseFile("../../testdata/pet-store.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://petstore.swagger.io/v1"}, p.GetServerURLs())

	bare, err := ParseBytes([]byte("openapi: 3.0.0\ninfo: {title: t, version: '1'}\npaths: {}\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost"}, bare.GetServerURLs())

	blank, err := ParseBytes([]byte("openapi: 3.0.0\ninfo: {title: t, version: '1'}\nservers:\n  - url: ''\npaths: {}\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost"}, blank.GetServerURLs())
}

func TestOperationsDocumentOrder(t *testing.T) {
	p, err := ParseFile("../../testdata/movies.yaml")
	require.NoError(t, err)

	ops := p.Operations(nil)

	var got []string
	for _, op := range ops {
		got = append(got, string(op.Method)+" "+op.Path+" "+op.OperationID)
	}
	assert.Equal(t, []string{
		"get /movies/{id} getMovie",
		"delete /movies/{id} deleteMovie",
		"put /movies/{id} updateMovie",
		"get /movies getMovies",
		"post /movies createMovie",
		"get /health health",
		"post /posters uploadPoster",
	}, got)
}

func TestOperationsDetails(t *testing.T) {
	p, err := ParseFile("../../testdata/movies.yaml")
	require.NoError(t, err)
	ops := p.Operations(naming.DefaultDeriver{})

	getMovie, err := Lookup(ops, "getMovie")
	require.NoError(t, err)

	// path-level parameter comes first, then the operation's own
	require.Len(t, getMovie.Parameters, 3)
	assert.Equal(t, "id", getMovie.Parameters[0].Name)
	assert.Equal(t, models.LocationPath, getMovie.Parameters[0].In)
	assert.True(t, getMovie.Parameters[0].Required)
	assert.Equal(t, "fields", getMovie.Parameters[1].Name)
	assert.Equal(t, models.LocationQuery, getMovie.Parameters[1].In)
	assert.Equal(t, models.LocationHeader, getMovie.Parameters[2].In)

	require.Len(t, getMovie.Responses, 2)
	assert.Equal(t, "200", getMovie.Responses[0].StatusCode)
	assert.Equal(t, "application/json", getMovie.Responses[0].ContentType)
	assert.NotNil(t, getMovie.Responses[0].Schema)
	assert.Nil(t, getMovie.RequestBody)

	deleteMovie, err := Lookup(ops, "deleteMovie")
	require.NoError(t, err)
	resp, ok := deleteMovie.Response("204")
	require.True(t, ok)
	assert.False(t, resp.HasBody())

	upload, err := Lookup(ops, "uploadPoster")
	require.NoError(t, err)
	require.NotNil(t, upload.RequestBody)
	assert.Equal(t, "multipart/form-data", upload.RequestBody.ContentType)
	assert.True(t, upload.RequestBody.IsForm())

	_, err = Lookup(ops, "missing")
	assert.Error(t, err)
}

func TestOperationsDefaultResponse(t *testing.T) {
	p, err := ParseFile("../../testdata/pet-store.json")
	require.NoError(t, err)

	ops := p.Operations(nil)
	require.Len(t, ops, 3)

	listPets := ops[0]
	assert.Equal(t, "listPets", listPets.OperationID)
	assert.Equal(t, []string{"pets"}, listPets.Tags)
	require.Len(t, listPets.Responses, 2)
	assert.Equal(t, "default", listPets.Responses[1].StatusCode)
	assert.Equal(t, []int{200}, listPets.StatusCodes())
}

func TestOperationParameterOverride(t *testing.T) {
	doc := `openapi: 3.0.0
info: {title: t, version: '1'}
paths:
  /items/{id}:
    parameters:
      - {name: id, in: path, required: true, description: shared, schema: {type: string}}
      - {name: page, in: query, schema: {type: integer}}
    get:
      parameters:
        - {name: id, in: path, required: true, description: own, schema: {type: integer}}
      responses:
        '200': {description: ok}
`
	p, err := ParseBytes([]byte(doc))
	require.NoError(t, err)

	ops := p.Operations(nil)
	require.Len(t, ops, 1)
	require.Len(t, ops[0].Parameters, 2)
	assert.Equal(t, "own", ops[0].Parameters[0].Description)
	assert.Equal(t, "page", ops[0].Parameters[1].Name)
}

func TestOperationsDeduplicateInOrder(t *testing.T) {
	doc := `openapi: 3.0.0
info: {title: t, version: '1'}
paths:
  /a:
    get:
      operationId: fetch
      responses: {'200': {description: ok}}
  /b:
    get:
      operationId: fetch
      responses: {'200': {description: ok}}
  /c:
    get:
      operationId: fetch
      responses: {'200': {description: ok}}
`
	p, err := ParseBytes([]byte(doc))
	require.NoError(t, err)

	first := p.Operations(nil)
	second := p.Operations(nil)

	ids := func(ops []models.Operation) []string {
		var out []string
		for _, op := range ops {
			out = append(out, op.Path+"="+op.OperationID)
		}
		return out
	}
	assert.Equal(t, []string{"/a=fetch", "/b=fetch1", "/c=fetch2"}, ids(first))
	assert.Equal(t, ids(first), ids(second), "runs must not share identifier state")
}

func TestOperationsCustomDeriver(t *testing.T) {
	p, err := ParseFile("../../testdata/pet-store.json")
	require.NoError(t, err)

	var seen []int
	deriver := naming.DeriverFunc(func(path string, method models.Method, op models.Operation, taken naming.IDSet) string {
		seen = append(seen, taken.Len())
		return taken.Unique("op")
	})

	ops := p.Operations(deriver)
	require.Len(t, ops, 3)
	assert.Equal(t, []int{0, 1, 2}, seen)
	assert.Equal(t, "op2", ops[2].OperationID)
}
