package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/moamenhredeen/oas/internal/generator"
	"github.com/moamenhredeen/oas/internal/models"
	"github.com/moamenhredeen/oas/internal/parser"
	"github.com/spf13/cobra"
)

var (
	filter           string
	tags             []string
	verbose          bool
	listFullResponse bool
)

// operationsCmd represents the operations command
var operationsCmd = &cobra.Command{
	Use:   "operations [openapi-spec-file]",
	Short: "List the operations of a specification",
	Long: `List every operation with its derived identifier and how its responses are handled.

Operations without a single 2xx response with a body are forced to full response mode.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parser.ParseFile(args[0])
		if err != nil {
			return fmt.Errorf("error parsing OpenAPI file: %w", err)
		}

		filteredOps := filterOperations(p.Operations(nil), filter, tags)
		if len(filteredOps) == 0 {
			fmt.Println("No operations found matching the criteria")
			return nil
		}

		displayOperations(filteredOps, listFullResponse, verbose)
		return nil
	},
}

func filterOperations(operations []models.Operation, filterStr string, tagFilters []string) []models.Operation {
	var filtered []models.Operation

	for _, op := range operations {
		// Filter by path pattern or operation ID
		if filterStr != "" {
			if !strings.Contains(op.Path, filterStr) && !strings.Contains(op.OperationID, filterStr) {
				continue
			}
		}

		// Filter by tags
		if len(tagFilters) > 0 && !slices.ContainsFunc(tagFilters, func(tag string) bool {
			return slices.Contains(op.Tags, tag)
		}) {
			continue
		}

		filtered = append(filtered, op)
	}

	return filtered
}

func displayOperations(operations []models.Operation, fullResponse, verbose bool) {
	fmt.Printf("\n%s\n", white("=== Operations ==="))
	fmt.Printf("%-24s %-8s %-36s %s\n", "ID", "METHOD", "PATH", "RESPONSE")
	fmt.Println(strings.Repeat("-", 90))

	forced := 0
	for _, op := range operations {
		class := generator.Classify(op, fullResponse, nil)

		mode := cyan("unwrapped")
		switch {
		case class.Forced:
			mode = yellow("full (forced)")
			forced++
		case class.FullResponse:
			mode = green("full")
		}

		path := op.Path
		if len(path) > 34 {
			path = path[:31] + "..."
		}
		fmt.Printf("%-24s %-8s %-36s %s\n", op.OperationID, op.Method.Upper(), path, mode)

		if verbose {
			route := generator.Route(op)
			if op.Summary != "" {
				fmt.Printf("    %s\n", op.Summary)
			}
			fmt.Printf("    %s json=%v text=%v empty=%v\n", cyan("→"), class.Buckets.JSON, class.Buckets.Text, class.Buckets.Empty)
			if params := routeSummary(route); params != "" {
				fmt.Printf("    %s %s\n", cyan("→"), params)
			}
		}
	}

	fmt.Println()
	fmt.Printf("Total Operations: %d\n", len(operations))
	if forced > 0 {
		fmt.Printf("Forced Full Response: %s\n", yellow(forced))
	}
}

func routeSummary(route generator.Routing) string {
	var parts []string
	for _, group := range []struct {
		name  string
		names []string
	}{
		{"path", route.Path},
		{"query", route.Query},
		{"header", route.Header},
	} {
		if len(group.names) > 0 {
			parts = append(parts, group.name+"="+strings.Join(group.names, ","))
		}
	}
	return strings.Join(parts, " ")
}

func init() {
	rootCmd.AddCommand(operationsCmd)

	operationsCmd.Flags().StringVar(&filter, "filter", "", "Filter operations by path pattern or operation ID")
	operationsCmd.Flags().StringSliceVar(&tags, "tags", []string{}, "Filter by OpenAPI tags")
	operationsCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show buckets and parameter routing")
	operationsCmd.Flags().BoolVar(&listFullResponse, "full-response", false, "Classify as if full response were configured")
}
