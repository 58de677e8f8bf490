package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sqlint-dev/sqlint/internal/config"
	"github.com/sqlint-dev/sqlint/pkg/lint"
	_ "github.com/sqlint-dev/sqlint/pkg/lint/rules" // register built-in rules
)

// LintOptions holds options for the lint command.
type LintOptions struct {
	Format string // Output format: text, json
}

// lintFileResult holds lint results for a single file.
type lintFileResult struct {
	Path       string           `json:"path"`
	Violations []lint.Violation `json:"violations"`
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint <file>...",
		Short: "Lint SQL files",
		Long: `Analyze SQL files and report rule violations.

Rules and per-rule options come from .sqlint.yaml; --rules and
--exclude-rules narrow the selection for one run.`,
		Example: `  # Lint a file
  sqlint lint query.sql

  # Lint several files with only the layout rules
  sqlint lint --rules layout a.sql b.sql

  # Output as JSON
  sqlint lint --format json query.sql`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")
	return cmd
}

func runLint(cmd *cobra.Command, paths []string, opts *LintOptions) error {
	cfg := config.FromContext(cmd.Context())
	logger := config.LoggerFrom(cmd.Context())
	linter := lint.New(cfg.ToLintConfig(), lint.WithLogger(logger))

	results, err := lintFiles(cmd, linter, paths)
	if err != nil {
		return err
	}

	total := 0
	for _, res := range results {
		total += len(res.Violations)
	}

	format := opts.Format
	if format == "" {
		format = cfg.OutputFormat
	}
	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		renderLintText(cmd, results)
	}

	if total > 0 {
		return fmt.Errorf("found %d violations", total)
	}
	return nil
}

// lintFiles lints the given paths concurrently, one goroutine per file.
func lintFiles(cmd *cobra.Command, linter *lint.Linter, paths []string) ([]lintFileResult, error) {
	var (
		mu      sync.Mutex
		results []lintFileResult
	)

	g, _ := errgroup.WithContext(cmd.Context())
	for _, path := range paths {
		g.Go(func() error {
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			linted, err := linter.LintString(string(src))
			if err != nil {
				return fmt.Errorf("linting %s: %w", path, err)
			}
			mu.Lock()
			results = append(results, lintFileResult{
				Path:       path,
				Violations: linted.Violations,
			})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}

func renderLintText(cmd *cobra.Command, results []lintFileResult) {
	out := cmd.OutOrStdout()
	pathStyle := color.New(color.Bold)
	codeStyle := color.New(color.FgRed)
	posStyle := color.New(color.Faint)

	clean := true
	for _, res := range results {
		if len(res.Violations) == 0 {
			continue
		}
		clean = false
		fmt.Fprintln(out, pathStyle.Sprint(res.Path))
		for _, v := range res.Violations {
			fmt.Fprintf(out, "  %s  %s  %s\n",
				posStyle.Sprintf("%d:%d", v.Pos.Line, v.Pos.Column),
				codeStyle.Sprint(v.RuleCode),
				v.Description,
			)
		}
		fmt.Fprintln(out)
	}
	if clean {
		fmt.Fprintln(out, color.GreenString("No lint issues found"))
	}
}
