package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sqlint-dev/sqlint/internal/config"
	"github.com/sqlint-dev/sqlint/pkg/lint"
	_ "github.com/sqlint-dev/sqlint/pkg/lint/rules" // register built-in rules
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Format string // Output format: table, yaml
}

// ruleDoc is the yaml output shape for one rule.
type ruleDoc struct {
	Code        string   `yaml:"code"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Groups      []string `yaml:"groups"`
	Aliases     []string `yaml:"aliases,omitempty"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List active lint rules",
		Long: `List the lint rules active under the current configuration, with
their codes, names, groups and aliases. Selection flags and config
file settings apply, so this shows exactly what 'sqlint lint' runs.`,
		Example: `  # List all rules
  sqlint rules

  # List only the capitalisation rules
  sqlint rules --rules capitalisation

  # Output as YAML
  sqlint rules --format yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, yaml")
	return cmd
}

func runRules(cmd *cobra.Command, opts *RulesOptions) error {
	cfg := config.FromContext(cmd.Context())
	linter := lint.New(cfg.ToLintConfig())

	tuples, err := linter.RuleTuples()
	if err != nil {
		return err
	}

	if opts.Format == "yaml" {
		docs := make([]ruleDoc, 0, len(tuples))
		for _, t := range tuples {
			docs = append(docs, ruleDoc{
				Code:        t.Code,
				Name:        t.Name,
				Description: t.Description,
				Groups:      t.Groups,
				Aliases:     t.Aliases,
			})
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer enc.Close()
		return enc.Encode(docs)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(cmd.OutOrStdout())
	tw.AppendHeader(table.Row{"Code", "Name", "Groups", "Aliases", "Description"})
	for _, t := range tuples {
		tw.AppendRow(table.Row{
			t.Code,
			t.Name,
			strings.Join(t.Groups, ", "),
			strings.Join(t.Aliases, ", "),
			t.Description,
		})
	}
	tw.Render()
	return nil
}
