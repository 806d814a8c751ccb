package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/moamenhredeen/oas/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() models.GenerationReport {
	report := models.GenerationReport{ClientName: "api", Dialect: models.DialectTyped}
	report.AddOperation(models.OperationReport{
		OperationID: "getMovie",
		Method:      "GET",
		Path:        "/movies/{id}",
		Buckets:     models.Buckets{JSON: []int{200, 404}},
		PathParams:  []string{"id"},
		QueryParams: []string{"fields"},
	})
	report.AddOperation(models.OperationReport{
		OperationID:  "deleteMovie",
		Method:       "DELETE",
		Path:         "/movies/{id}",
		FullResponse: true,
		Forced:       true,
		Buckets:      models.Buckets{JSON: []int{404}, Empty: []int{204}},
		PathParams:   []string{"id"},
	})
	return report
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "CSV": FormatCSV, "yaml": FormatYAML, "yml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestExportReportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, ExportReport(sampleReport(), FormatJSON, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded models.GenerationReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded.TotalOperations)
	assert.Equal(t, 1, decoded.ForcedOperations)
	assert.Contains(t, string(data), `"forced_operations": 1`)
}

func TestExportReportYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, ExportReport(sampleReport(), FormatYAML, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "client_name: api")

	var decoded models.GenerationReport
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "deleteMovie", decoded.Operations[1].OperationID)
	assert.Equal(t, []int{204}, decoded.Operations[1].Buckets.Empty)
}

func TestExportReportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, ExportReport(sampleReport(), FormatCSV, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "operation_id,method,path,full_response,forced"))
	assert.Equal(t, "getMovie,GET,/movies/{id},false,false,200 404,,,id,fields,", lines[1])
	assert.Equal(t, "deleteMovie,DELETE,/movies/{id},true,true,404,,204,id,,", lines[2])
}

func TestExportUnsupportedFormat(t *testing.T) {
	err := ExportReport(sampleReport(), Format("xml"), filepath.Join(t.TempDir(), "r"))
	assert.Error(t, err)
}

func TestExportBenchmarkResultCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.csv")
	result := models.BenchmarkResult{
		OperationID:  "health",
		Iterations:   10,
		Concurrency:  2,
		MinTime:      1500 * time.Microsecond,
		SuccessCount: 10,
	}
	require.NoError(t, ExportBenchmarkResult(result, FormatCSV, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "health,10,2,1.50,"))
}

func TestWriteArtifact(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "client")
	artifact := models.Artifact{Types: "export interface Api {}\n", Implementation: "let baseUrl = ''\n"}

	written, err := WriteArtifact(dir, "api", models.DialectUntyped, artifact)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "api.mjs"), filepath.Join(dir, "api-types.d.ts")}, written)

	impl, err := os.ReadFile(written[0])
	require.NoError(t, err)
	assert.Equal(t, artifact.Implementation, string(impl))

	implPath, _ := ArtifactPaths(dir, "api", models.DialectTyped)
	assert.Equal(t, filepath.Join(dir, "api.ts"), implPath)
}
