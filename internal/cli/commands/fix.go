package commands

import (
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sqlint-dev/sqlint/internal/config"
	"github.com/sqlint-dev/sqlint/pkg/lint"
	_ "github.com/sqlint-dev/sqlint/pkg/lint/rules" // register built-in rules
)

// FixOptions holds options for the fix command.
type FixOptions struct {
	Stdout bool // Print fixed SQL instead of rewriting files
}

// fixFileResult summarises one fixed file.
type fixFileResult struct {
	Path              string
	FixesApplied      int
	Remaining         int
	ConvergenceFailed bool
	Fixed             string
}

// NewFixCommand creates the fix command.
func NewFixCommand() *cobra.Command {
	opts := &FixOptions{}
	cmd := &cobra.Command{
		Use:   "fix <file>...",
		Short: "Fix SQL files in place",
		Long: `Lint SQL files and rewrite them with all fixable violations resolved.

Fixes are applied iteratively until the file is stable. When a file does
not converge within the runaway limit it is left untouched and reported.`,
		Example: `  # Fix a file in place
  sqlint fix query.sql

  # Print the fixed SQL without touching the file
  sqlint fix --stdout query.sql`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Stdout, "stdout", false, "print fixed SQL to stdout instead of rewriting")
	return cmd
}

func runFix(cmd *cobra.Command, paths []string, opts *FixOptions) error {
	cfg := config.FromContext(cmd.Context())
	logger := config.LoggerFrom(cmd.Context())
	linter := lint.New(cfg.ToLintConfig(), lint.WithLogger(logger))

	var (
		mu      sync.Mutex
		results = make(map[string]fixFileResult, len(paths))
	)

	g, _ := errgroup.WithContext(cmd.Context())
	for _, path := range paths {
		g.Go(func() error {
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			linted, err := linter.FixString(string(src))
			if err != nil {
				return fmt.Errorf("fixing %s: %w", path, err)
			}
			fixed := linted.FixedSQL()
			if !opts.Stdout && !linted.ConvergenceFailed && fixed != string(src) {
				if err := os.WriteFile(path, []byte(fixed), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
			}
			mu.Lock()
			results[path] = fixFileResult{
				Path:              path,
				FixesApplied:      linted.FixesApplied,
				Remaining:         len(linted.Violations),
				ConvergenceFailed: linted.ConvergenceFailed,
				Fixed:             fixed,
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := false
	for _, path := range paths {
		res := results[path]
		if opts.Stdout {
			fmt.Fprint(out, res.Fixed)
			continue
		}
		switch {
		case res.ConvergenceFailed:
			failed = true
			fmt.Fprintf(out, "%s %s: fixes did not converge, file left unchanged\n",
				color.RedString("FAIL"), path)
		case res.FixesApplied > 0:
			fmt.Fprintf(out, "%s %s: applied %d fixes, %d violations remain\n",
				color.GreenString("FIXED"), path, res.FixesApplied, res.Remaining)
		default:
			fmt.Fprintf(out, "%s %s: nothing to fix, %d violations remain\n",
				color.CyanString("OK"), path, res.Remaining)
		}
	}

	if failed {
		return fmt.Errorf("some files did not converge")
	}
	return nil
}
