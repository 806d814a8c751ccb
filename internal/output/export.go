package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/moamenhredeen/oas/internal/models"
)

// Format represents the output format type
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// ExportReport exports a generation report to the specified format
func ExportReport(report models.GenerationReport, format Format, filePath string) error {
	w, closer, err := getWriter(filePath)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	switch format {
	case FormatJSON:
		return exportJSON(w, report)
	case FormatYAML:
		return exportYAML(w, report)
	case FormatCSV:
		return exportReportCSV(w, report)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// ExportBenchmarkResult exports repeated call statistics to the specified format
func ExportBenchmarkResult(result models.BenchmarkResult, format Format, filePath string) error {
	w, closer, err := getWriter(filePath)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	switch format {
	case FormatJSON:
		return exportJSON(w, result)
	case FormatYAML:
		return exportYAML(w, result)
	case FormatCSV:
		return exportBenchmarkCSV(w, result)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// getWriter returns an io.Writer for output (stdout or file)
func getWriter(filePath string) (io.Writer, io.Closer, error) {
	if filePath == "" {
		return os.Stdout, nil, nil
	}

	f, err := os.Create(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f, nil
}

func exportJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func exportYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// exportReportCSV writes one row per operation
func exportReportCSV(w io.Writer, report models.GenerationReport) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"operation_id", "method", "path", "full_response", "forced",
		"json_codes", "text_codes", "empty_codes",
		"path_params", "query_params", "header_params",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, op := range report.Operations {
		row := []string{
			op.OperationID,
			op.Method,
			op.Path,
			strconv.FormatBool(op.FullResponse),
			strconv.FormatBool(op.Forced),
			joinCodes(op.Buckets.JSON),
			joinCodes(op.Buckets.Text),
			joinCodes(op.Buckets.Empty),
			strings.Join(op.PathParams, " "),
			strings.Join(op.QueryParams, " "),
			strings.Join(op.HeaderParams, " "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// exportBenchmarkCSV exports call statistics as a single CSV row
func exportBenchmarkCSV(w io.Writer, r models.BenchmarkResult) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"operation_id", "iterations", "concurrency",
		"min_ms", "max_ms", "avg_ms", "p50_ms", "p90_ms", "p99_ms",
		"requests_per_sec", "success_count", "error_count", "error_rate",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := []string{
		r.OperationID,
		strconv.Itoa(r.Iterations),
		strconv.Itoa(r.Concurrency),
		fmt.Sprintf("%.2f", float64(r.MinTime.Microseconds())/1000),
		fmt.Sprintf("%.2f", float64(r.MaxTime.Microseconds())/1000),
		fmt.Sprintf("%.2f", float64(r.AvgTime.Microseconds())/1000),
		fmt.Sprintf("%.2f", float64(r.P50Time.Microseconds())/1000),
		fmt.Sprintf("%.2f", float64(r.P90Time.Microseconds())/1000),
		fmt.Sprintf("%.2f", float64(r.P99Time.Microseconds())/1000),
		fmt.Sprintf("%.2f", r.RequestsPerSec),
		strconv.Itoa(r.SuccessCount),
		strconv.Itoa(r.ErrorCount),
		fmt.Sprintf("%.2f", r.ErrorRate),
	}
	if err := cw.Write(row); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

func joinCodes(codes []int) string {
	parts := make([]string, len(codes))
	for i, code := range codes {
		parts[i] = strconv.Itoa(code)
	}
	return strings.Join(parts, " ")
}

// ParseFormat parses a string into a Format, returning error if invalid
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid format '%s': must be 'json', 'csv' or 'yaml'", s)
	}
}
