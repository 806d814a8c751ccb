package models

import "time"

// BenchmarkResult holds the statistics of repeated calls to one operation
type BenchmarkResult struct {
	OperationID string `json:"operation_id" yaml:"operation_id"`

	// Run configuration
	Iterations  int `json:"iterations" yaml:"iterations"`
	Concurrency int `json:"concurrency" yaml:"concurrency"`
	WarmupRuns  int `json:"warmup_runs" yaml:"warmup_runs"`

	// Timing statistics (in nanoseconds for JSON, display as milliseconds)
	MinTime time.Duration `json:"min_time_ns" yaml:"min_time_ns"`
	MaxTime time.Duration `json:"max_time_ns" yaml:"max_time_ns"`
	AvgTime time.Duration `json:"avg_time_ns" yaml:"avg_time_ns"`
	P50Time time.Duration `json:"p50_time_ns" yaml:"p50_time_ns"`
	P90Time time.Duration `json:"p90_time_ns" yaml:"p90_time_ns"`
	P99Time time.Duration `json:"p99_time_ns" yaml:"p99_time_ns"`

	// Throughput
	RequestsPerSec float64       `json:"requests_per_sec" yaml:"requests_per_sec"`
	TotalDuration  time.Duration `json:"total_duration_ns" yaml:"total_duration_ns"`

	// Error tracking
	SuccessCount int     `json:"success_count" yaml:"success_count"`
	ErrorCount   int     `json:"error_count" yaml:"error_count"`
	ErrorRate    float64 `json:"error_rate" yaml:"error_rate"`

	// Status code distribution, when the call outcome carries one
	StatusCodes map[int]int `json:"status_codes" yaml:"status_codes"`

	// Sample errors (first few unique errors)
	SampleErrors []string `json:"sample_errors,omitempty" yaml:"sample_errors,omitempty"`
}
