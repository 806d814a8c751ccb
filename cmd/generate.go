package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/moamenhredeen/oas/internal/generator"
	"github.com/moamenhredeen/oas/internal/models"
	"github.com/moamenhredeen/oas/internal/output"
	"github.com/moamenhredeen/oas/internal/parser"
	"github.com/moamenhredeen/oas/internal/watch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	generateOut        string
	generateReport     string
	generateReportFile string
	generateWatch      bool
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [openapi-spec-file]",
	Short: "Generate a frontend client",
	Long: `Generate a fetch based client and its TypeScript declarations from an OpenAPI Specification.

Flags can also be set in oas.toml or through OAS_ prefixed environment variables,
for example OAS_LANGUAGE=js or OAS_FULL_RESPONSE=true.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := generationConfig()
		if err != nil {
			return err
		}

		specFile := args[0]
		if err := generateOnce(specFile, config); err != nil {
			return err
		}
		if !generateWatch {
			return nil
		}
		return watchAndGenerate(specFile, config)
	},
}

// generationConfig reads the generation options from flags, config file and environment
func generationConfig() (models.GenerationConfig, error) {
	config := models.DefaultConfig()
	if err := viper.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("invalid configuration: %w", err)
	}
	dialect, err := models.ParseDialect(viper.GetString("language"))
	if err != nil {
		return config, &generator.ConfigError{Option: "language", Value: viper.GetString("language"), Message: "must be 'ts' or 'js'"}
	}
	config.Dialect = dialect
	return config, nil
}

func generateOnce(specFile string, config models.GenerationConfig) error {
	p, err := parser.ParseFile(specFile)
	if err != nil {
		return fmt.Errorf("error parsing OpenAPI file: %w", err)
	}
	for _, warning := range p.Warnings() {
		logger.Warn("openapi document", "warning", warning)
	}

	gen, err := generator.New(config, generator.WithLogger(logger))
	if err != nil {
		return err
	}
	result, err := gen.Generate(p.Operations(nil))
	if err != nil {
		return err
	}

	written, err := output.WriteArtifact(generateOut, config.ClientName, config.Dialect, result.Artifact)
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Fprintf(os.Stderr, "%s %s\n", green("✓"), path)
	}
	if result.Report.ForcedOperations > 0 {
		fmt.Fprintf(os.Stderr, "%s %d operation(s) forced to full response\n", yellow("●"), result.Report.ForcedOperations)
	}

	if generateReport == "" {
		return nil
	}
	format, err := output.ParseFormat(generateReport)
	if err != nil {
		return err
	}
	if err := output.ExportReport(result.Report, format, generateReportFile); err != nil {
		return fmt.Errorf("error exporting report: %w", err)
	}
	return nil
}

// watchAndGenerate regenerates on every change until interrupted. Failed
// runs are reported and watching continues.
func watchAndGenerate(specFile string, config models.GenerationConfig) error {
	w, err := watch.WatchFile(specFile, watch.DefaultDebounce)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "%s watching %s\n", cyan("→"), specFile)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.Updates:
			if err != nil {
				logger.Error("watch failed", "error", err)
				continue
			}
			if err := generateOnce(specFile, config); err != nil {
				fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(generateCmd)

	flags := generateCmd.Flags()
	flags.String("name", "api", "Client name, used for file names and the client type")
	flags.StringP("language", "l", "ts", "Output language: ts or js")
	flags.Bool("full-response", false, "Resolve every call with status code, headers and body")
	flags.Bool("full-request", false, "Take path, query, headers and body as separate request groups")
	flags.Bool("with-credentials", false, "Send cookies with every request")
	flags.Bool("props-optional", false, "Make every object property optional")
	for _, key := range []string{"name", "language", "full-response", "full-request", "with-credentials", "props-optional"} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}

	flags.StringVarP(&generateOut, "out", "o", ".", "Output directory")
	flags.StringVar(&generateReport, "report", "", "Print a generation report: json, csv, yaml")
	flags.StringVar(&generateReportFile, "report-file", "", "Write the report to file (default: stdout)")
	flags.BoolVarP(&generateWatch, "watch", "w", false, "Regenerate when the specification file changes")
}
