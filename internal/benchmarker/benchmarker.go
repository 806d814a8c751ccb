// Package benchmarker repeats calls to an operation and collects timing statistics.
package benchmarker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/moamenhredeen/oas/internal/models"
	"github.com/moamenhredeen/oas/internal/runtime"
)

// EventType represents the type of benchmark event
type EventType int

const (
	// EventWarmupCompleted indicates the discarded warmup calls are done
	EventWarmupCompleted EventType = iota
	// EventProgress indicates benchmark progress (periodic updates)
	EventProgress
	// EventCompleted indicates the benchmark completed
	EventCompleted
)

// BenchmarkEvent represents an event during a run
type BenchmarkEvent struct {
	Type     EventType
	Result   *models.BenchmarkResult // nil until completed
	Progress int                     // calls completed so far
	MaxIter  int

	// Running stats (for progress events)
	RunningAvg time.Duration
	ErrorCount int
}

// OnBenchmarkEvent is a callback function for benchmark events
type OnBenchmarkEvent func(event BenchmarkEvent)

// Caller invokes one operation. *runtime.Module and *runtime.Client satisfy it.
type Caller interface {
	Call(ctx context.Context, operationID string, request any) (any, error)
}

// Config holds benchmark configuration
type Config struct {
	Iterations  int // Number of calls
	Concurrency int // Number of concurrent workers
	WarmupRuns  int // Number of warmup calls (discarded)
}

// DefaultConfig returns default benchmark configuration
func DefaultConfig() Config {
	return Config{
		Iterations:  1,
		Concurrency: 1,
		WarmupRuns:  0,
	}
}

// Benchmarker repeats calls through a Caller
type Benchmarker struct {
	config Config
	caller Caller
}

// NewBenchmarker creates a new benchmarker instance
func NewBenchmarker(caller Caller, config Config) *Benchmarker {
	config.Iterations = max(1, config.Iterations)
	config.Concurrency = max(1, config.Concurrency)
	config.WarmupRuns = max(0, config.WarmupRuns)
	return &Benchmarker{config: config, caller: caller}
}

// callResult holds the outcome of a single call
type callResult struct {
	Duration   time.Duration
	StatusCode int
	Error      string
}

// Run calls operationID the configured number of times. newRequest is
// invoked for every call so request values are never shared between calls.
func (b *Benchmarker) Run(
	ctx context.Context,
	operationID string,
	newRequest func() any,
	onEvent OnBenchmarkEvent,
) (models.BenchmarkResult, error) {
	result := models.BenchmarkResult{
		OperationID: operationID,
		Iterations:  b.config.Iterations,
		Concurrency: b.config.Concurrency,
		WarmupRuns:  b.config.WarmupRuns,
		StatusCodes: make(map[int]int),
	}

	// Run warmup (single-threaded, no stats collection)
	for i := 0; i < b.config.WarmupRuns; i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		b.execute(ctx, operationID, newRequest())
	}
	if b.config.WarmupRuns > 0 && onEvent != nil {
		onEvent(BenchmarkEvent{Type: EventWarmupCompleted, MaxIter: b.config.Iterations})
	}

	startTime := time.Now()
	results := b.runConcurrent(ctx, operationID, newRequest, onEvent)
	result.TotalDuration = time.Since(startTime)

	result = processResults(result, results)

	if onEvent != nil {
		onEvent(BenchmarkEvent{Type: EventCompleted, Result: &result, Progress: len(results), MaxIter: b.config.Iterations})
	}
	return result, ctx.Err()
}

// runConcurrent executes the calls with a worker pool
func (b *Benchmarker) runConcurrent(
	ctx context.Context,
	operationID string,
	newRequest func() any,
	onEvent OnBenchmarkEvent,
) []callResult {
	results := make([]callResult, b.config.Iterations)
	done := make([]bool, b.config.Iterations)
	jobs := make(chan int, b.config.Iterations)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var completed int
	var totalDuration time.Duration
	var errorCount int

	// Progress reporting interval
	progressInterval := max(1, b.config.Iterations/20) // ~5% intervals

	for w := 0; w < b.config.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}

				mu.Lock()
				request := newRequest()
				mu.Unlock()

				res := b.execute(ctx, operationID, request)

				mu.Lock()
				results[i] = res
				done[i] = true
				completed++
				totalDuration += res.Duration
				if res.Error != "" {
					errorCount++
				}
				// events are delivered under the lock so callbacks never run concurrently
				if onEvent != nil && completed%progressInterval == 0 {
					onEvent(BenchmarkEvent{
						Type:       EventProgress,
						Progress:   completed,
						MaxIter:    b.config.Iterations,
						RunningAvg: totalDuration / time.Duration(completed),
						ErrorCount: errorCount,
					})
				}
				mu.Unlock()
			}
		}()
	}

	for i := 0; i < b.config.Iterations; i++ {
		jobs <- i
	}
	close(jobs)

	wg.Wait()

	// drop calls skipped after cancellation
	finished := results[:0]
	for i, r := range results {
		if done[i] {
			finished = append(finished, r)
		}
	}
	return finished
}

// execute performs a single call and returns timing
func (b *Benchmarker) execute(ctx context.Context, operationID string, request any) callResult {
	startTime := time.Now()
	out, err := b.caller.Call(ctx, operationID, request)
	res := callResult{Duration: time.Since(startTime)}

	var respErr *runtime.ResponseError
	switch {
	case errors.As(err, &respErr):
		res.StatusCode = respErr.StatusCode
		res.Error = fmt.Sprintf("status %d: %s", respErr.StatusCode, respErr.Error())
	case err != nil:
		res.Error = err.Error()
	default:
		if resp, ok := out.(*runtime.Response); ok {
			res.StatusCode = resp.StatusCode
		}
	}
	return res
}

// processResults calculates statistics from raw results
func processResults(result models.BenchmarkResult, rawResults []callResult) models.BenchmarkResult {
	if len(rawResults) == 0 {
		return result
	}

	var durations []time.Duration
	var totalDuration time.Duration
	errorSet := make(map[string]bool)

	for _, r := range rawResults {
		if r.Error != "" {
			result.ErrorCount++
			if len(result.SampleErrors) < 5 && !errorSet[r.Error] {
				result.SampleErrors = append(result.SampleErrors, r.Error)
				errorSet[r.Error] = true
			}
		} else {
			result.SuccessCount++
			durations = append(durations, r.Duration)
			totalDuration += r.Duration
		}

		if r.StatusCode > 0 {
			result.StatusCodes[r.StatusCode]++
		}
	}

	// Calculate timing stats (only from successful calls)
	if len(durations) > 0 {
		sort.Slice(durations, func(i, j int) bool {
			return durations[i] < durations[j]
		})

		result.MinTime = durations[0]
		result.MaxTime = durations[len(durations)-1]
		result.AvgTime = totalDuration / time.Duration(len(durations))
		result.P50Time = percentile(durations, 50)
		result.P90Time = percentile(durations, 90)
		result.P99Time = percentile(durations, 99)
	}

	if result.TotalDuration > 0 {
		result.RequestsPerSec = float64(len(rawResults)) / result.TotalDuration.Seconds()
	}
	result.ErrorRate = float64(result.ErrorCount) / float64(len(rawResults)) * 100

	return result
}

// percentile calculates the p-th percentile from sorted durations
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	index := float64(len(sorted)-1) * float64(p) / 100.0
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[lower]
	}

	// Linear interpolation
	weight := index - float64(lower)
	return time.Duration(float64(sorted[lower])*(1-weight) + float64(sorted[upper])*weight)
}
