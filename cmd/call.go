package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/moamenhredeen/oas/internal/benchmarker"
	"github.com/moamenhredeen/oas/internal/generator"
	"github.com/moamenhredeen/oas/internal/models"
	"github.com/moamenhredeen/oas/internal/output"
	"github.com/moamenhredeen/oas/internal/parser"
	"github.com/moamenhredeen/oas/internal/runtime"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

var (
	serverURL       string
	callParams      []string
	callHeaders     []string
	callBody        string
	callConfig      models.GenerationConfig
	callTimeout     time.Duration
	callRate        float64
	callRepeat      int
	callConcurrency int
	callWarmup      int
	callValidate    bool
	callSelect      string
	callReport      string
	callReportFile  string
)

// callCmd represents the call command
var callCmd = &cobra.Command{
	Use:   "call [openapi-spec-file] [operation-id]",
	Short: "Call an operation",
	Long: `Call an operation the way the generated client does and print the result.

Parameters are given as name=value pairs. Repeating a name sends an array.
With --repeat the call is benchmarked instead.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parser.ParseFile(args[0])
		if err != nil {
			return fmt.Errorf("error parsing OpenAPI file: %w", err)
		}
		operations := p.Operations(nil)
		op, err := parser.Lookup(operations, args[1])
		if err != nil {
			return err
		}

		config := callConfig
		config.Dialect = models.DialectTyped
		if callValidate {
			config.FullResponse = true
		}

		var opts []runtime.Option
		opts = append(opts, runtime.WithLogger(logger))
		if callRate > 0 {
			opts = append(opts, runtime.WithRateLimit(rate.NewLimiter(rate.Limit(callRate), 1)))
		}
		module, err := runtime.NewModule(operations, config, opts...)
		if err != nil {
			return err
		}

		// Use provided server URL or first from spec
		baseURL := serverURL
		if baseURL == "" {
			baseURL = p.GetServerURLs()[0]
		}
		headers, err := parsePairs(callHeaders)
		if err != nil {
			return err
		}
		client := module.Build(baseURL, &runtime.BuildOptions{Headers: flatPairs(headers)})
		client.SetDefaultFetchParams(runtime.FetchParams{Timeout: callTimeout})

		params, err := parsePairs(callParams)
		if err != nil {
			return err
		}
		var body any
		if callBody != "" {
			if err := json.Unmarshal([]byte(callBody), &body); err != nil {
				return fmt.Errorf("invalid --body: %w", err)
			}
		}
		newRequest := func() any {
			req, _ := callRequest(generator.Route(op), config.FullRequest, params, body)
			return req
		}
		if _, err := callRequest(generator.Route(op), config.FullRequest, params, body); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if callRepeat > 1 {
			return benchmarkCall(ctx, client, op, newRequest)
		}

		result, err := client.Call(ctx, op.OperationID, newRequest())
		var respErr *runtime.ResponseError
		if errors.As(err, &respErr) {
			return fmt.Errorf("%s failed with status %d: %s", op.OperationID, respErr.StatusCode, respErr.Message)
		}
		if err != nil {
			return err
		}

		if callValidate {
			if resp, ok := result.(*runtime.Response); ok {
				displayValidation(runtime.Validate(op, resp))
			}
		}
		return printResult(result, callSelect)
	},
}

// parsePairs splits name=value pairs. A repeated name collects its values in order.
func parsePairs(pairs []string) (map[string][]string, error) {
	values := make(map[string][]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid pair %q: expected name=value", pair)
		}
		values[name] = append(values[name], value)
	}
	return values, nil
}

// flatPairs keeps the last value of each name
func flatPairs(values map[string][]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	flat := make(map[string]string, len(values))
	for name, v := range values {
		flat[name] = v[len(v)-1]
	}
	return flat
}

// callRequest shapes parameters and body into the request value a client
// call takes. Flattened requests merge an object body with the parameters.
func callRequest(route generator.Routing, fullRequest bool, params map[string][]string, body any) (any, error) {
	value := func(v []string) any {
		if len(v) == 1 {
			return v[0]
		}
		return slices.Clone(v)
	}

	if fullRequest {
		req := runtime.FullRequest{Body: body}
		for name, v := range params {
			group := &req.Path
			switch {
			case slices.Contains(route.Query, name):
				group = &req.Query
			case slices.Contains(route.Header, name):
				group = &req.Headers
			case !slices.Contains(route.Path, name):
				return nil, fmt.Errorf("unknown parameter %q", name)
			}
			if *group == nil {
				*group = make(map[string]any)
			}
			(*group)[name] = value(v)
		}
		return req, nil
	}

	if body == nil && len(params) == 0 {
		return nil, nil
	}
	req := make(map[string]any, len(params))
	switch b := body.(type) {
	case nil:
	case map[string]any:
		for k, v := range b {
			req[k] = v
		}
	default:
		return nil, fmt.Errorf("flattened requests take an object body, got %T: use --full-request", body)
	}
	for name, v := range params {
		req[name] = value(v)
	}
	return req, nil
}

func printResult(result any, path string) error {
	if text, ok := result.(string); ok && path == "" {
		fmt.Println(text)
		return nil
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if path != "" {
		selected := gjson.GetBytes(data, path)
		if !selected.Exists() {
			return fmt.Errorf("%q matches nothing in the result", path)
		}
		fmt.Println(selected.String())
		return nil
	}
	fmt.Println(string(data))
	return nil
}

func displayValidation(errs []runtime.ValidationError) {
	if len(errs) == 0 {
		fmt.Fprintf(os.Stderr, "%s response matches its declaration\n", green("✓"))
		return
	}
	fmt.Fprintf(os.Stderr, "%s response does not match its declaration\n", red("✗"))
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "    - %s: %s\n", e.Field, red(e.Message))
	}
}

func benchmarkCall(ctx context.Context, client *runtime.Client, op models.Operation, newRequest func() any) error {
	config := benchmarker.Config{
		Iterations:  callRepeat,
		Concurrency: callConcurrency,
		WarmupRuns:  callWarmup,
	}
	bench := benchmarker.NewBenchmarker(client, config)

	label := fmt.Sprintf("%s %s", op.Method.Upper(), op.Path)
	update, stopSpinner := startSpinner(label + " - running...")
	start := time.Now()

	onEvent := func(event benchmarker.BenchmarkEvent) {
		switch event.Type {
		case benchmarker.EventWarmupCompleted:
			update(fmt.Sprintf("%s - warmup completed in %v", label, time.Since(start).Round(time.Millisecond)))
		case benchmarker.EventProgress:
			avgMs := float64(event.RunningAvg.Microseconds()) / 1000
			update(fmt.Sprintf("%s - %d/%d (avg: %.1fms, %d errors)",
				label, event.Progress, event.MaxIter, avgMs, event.ErrorCount))
		case benchmarker.EventCompleted:
			stopSpinner()
		}
	}

	result, err := bench.Run(ctx, op.OperationID, newRequest, onEvent)
	stopSpinner()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if callReport != "" {
		format, err := output.ParseFormat(callReport)
		if err != nil {
			return err
		}
		if err := output.ExportBenchmarkResult(result, format, callReportFile); err != nil {
			return fmt.Errorf("error exporting results: %w", err)
		}
		if callReportFile == "" {
			return nil
		}
	}

	displayBenchmarkResult(label, result)
	return nil
}

func displayBenchmarkResult(label string, result models.BenchmarkResult) {
	var status string
	switch {
	case result.ErrorRate == 0:
		status = green("✓")
	case result.ErrorRate < 5:
		status = yellow("●")
	default:
		status = red("✗")
	}

	ms := func(d time.Duration) float64 { return float64(d.Microseconds()) / 1000 }

	fmt.Printf("\n%s\n", white("=== Benchmark Result ==="))
	fmt.Printf("%s %s (%s)\n", status, label, result.OperationID)
	fmt.Printf("    %s avg: %.2fms | p99: %.2fms | %.1f req/s | errors: %d (%.1f%%)\n",
		cyan("→"), ms(result.AvgTime), ms(result.P99Time), result.RequestsPerSec,
		result.ErrorCount, result.ErrorRate)
	fmt.Printf("    Latency:  min=%.2fms | p50=%.2fms | p90=%.2fms | max=%.2fms\n",
		ms(result.MinTime), ms(result.P50Time), ms(result.P90Time), ms(result.MaxTime))
	fmt.Printf("    Duration: %v | Success: %d | Errors: %d\n",
		result.TotalDuration.Round(time.Millisecond), result.SuccessCount, result.ErrorCount)

	if len(result.StatusCodes) > 0 {
		codes := make([]int, 0, len(result.StatusCodes))
		for code := range result.StatusCodes {
			codes = append(codes, code)
		}
		slices.Sort(codes)
		parts := make([]string, 0, len(codes))
		for _, code := range codes {
			parts = append(parts, fmt.Sprintf("%d:%d", code, result.StatusCodes[code]))
		}
		fmt.Printf("    Status codes: %s\n", strings.Join(parts, ", "))
	}

	if len(result.SampleErrors) > 0 {
		fmt.Printf("    Sample errors:\n")
		for _, e := range result.SampleErrors {
			fmt.Printf("      - %s\n", red(e))
		}
	}
}

func init() {
	rootCmd.AddCommand(callCmd)

	flags := callCmd.Flags()
	flags.StringVar(&serverURL, "server", "", "Override server URL from OpenAPI spec")
	flags.StringArrayVarP(&callParams, "param", "p", nil, "Request parameter as name=value, repeatable")
	flags.StringArrayVarP(&callHeaders, "header", "H", nil, "Default header as name=value, repeatable")
	flags.StringVarP(&callBody, "body", "d", "", "JSON request body")
	flags.BoolVar(&callConfig.FullResponse, "full-response", false, "Print status code, headers and body")
	flags.BoolVar(&callConfig.FullRequest, "full-request", false, "Route parameters into path, query and headers groups")
	flags.BoolVar(&callConfig.WithCredentials, "with-credentials", false, "Keep cookies between calls")
	flags.DurationVarP(&callTimeout, "timeout", "t", 30*time.Second, "Request timeout")
	flags.Float64VarP(&callRate, "rate", "r", 0, "Max requests per second (0 = unlimited)")
	flags.BoolVar(&callValidate, "validate", false, "Check the response against its declaration (implies --full-response)")
	flags.StringVarP(&callSelect, "select", "s", "", "Print only the value at this GJSON path")

	// Benchmark flags
	flags.IntVarP(&callRepeat, "repeat", "n", 1, "Number of calls, more than one runs a benchmark")
	flags.IntVarP(&callConcurrency, "concurrency", "c", 1, "Number of concurrent calls")
	flags.IntVarP(&callWarmup, "warmup", "w", 0, "Number of warmup calls (discarded from stats)")
	flags.StringVar(&callReport, "report", "", "Benchmark output format: json, csv, yaml")
	flags.StringVar(&callReportFile, "report-file", "", "Write benchmark output to file (default: stdout)")
}
