package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlint-dev/sqlint/internal/config"
	"github.com/sqlint-dev/sqlint/pkg/lint"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), ".sqlint.yaml"), nil)
	require.Error(t, err, "explicit config file must exist")

	// No explicit file and none on disk: stock defaults apply.
	t.Chdir(t.TempDir())
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Rules)
	assert.Equal(t, lint.DefaultRunawayLimit, cfg.RunawayLimit)
	assert.Equal(t, config.DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".sqlint.yaml", `
rules: "L010,L036"
exclude_rules: "L007"
runaway_limit: 3
verbose: true
defaults:
  capitalisation_policy: upper
rule_configs:
  L007:
    operator_new_lines: before
`)

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "L010,L036", cfg.Rules)
	assert.Equal(t, "L007", cfg.ExcludeRules)
	assert.Equal(t, 3, cfg.RunawayLimit)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, "upper", cfg.Defaults["capitalisation_policy"])
	require.Contains(t, cfg.RuleConfigs, "L007")
	assert.Equal(t, "before", cfg.RuleConfigs["L007"]["operator_new_lines"])
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".sqlint.yaml", `rules: "L010"`)

	t.Setenv("SQLINT_RULES", "L036")
	t.Setenv("SQLINT_NO_COLOR", "true")

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "L036", cfg.Rules)
	assert.True(t, cfg.NoColor)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SQLINT_RULES", "L036")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("rules", "", "")
	flags.Int("runaway-limit", 0, "")
	require.NoError(t, flags.Parse([]string{"--rules", "L007", "--runaway-limit", "2"}))

	cfg, err := config.Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "L007", cfg.Rules)
	assert.Equal(t, 2, cfg.RunawayLimit)
}

func TestLoadUnchangedFlagsAreIgnored(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("rules", "", "")
	require.NoError(t, flags.Parse(nil))

	dir := t.TempDir()
	path := writeConfig(t, dir, ".sqlint.yaml", `rules: "L010"`)

	cfg, err := config.Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "L010", cfg.Rules, "an unset flag must not mask the file value")
}

func TestLoadPrefersYamlOverYml(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".sqlint.yaml", `rules: "L010"`)
	writeConfig(t, dir, ".sqlint.yml", `rules: "L036"`)

	t.Chdir(dir)
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "L010", cfg.Rules)
}

func TestLoadSearchesUpward(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, ".sqlint.yaml", `rules: "L063"`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	t.Chdir(nested)
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "L063", cfg.Rules)
	assert.Equal(t, root, cfg.ProjectRoot)
}

func TestToLintConfig(t *testing.T) {
	cfg := &config.Config{
		Rules:        "L010",
		ExcludeRules: "L007",
		RunawayLimit: 4,
		Defaults:     map[string]any{"capitalisation_policy": "lower"},
		RuleConfigs: map[string]map[string]any{
			"L007": {"operator_new_lines": "before"},
		},
	}

	lc := cfg.ToLintConfig()
	assert.Equal(t, "L010", lc.Rules)
	assert.Equal(t, "L007", lc.ExcludeRules)
	assert.Equal(t, 4, lc.RunawayLimit)
	assert.Equal(t, "lower", lc.Defaults["capitalisation_policy"])
	assert.Equal(t, "before", lc.RuleConfigs["L007"]["operator_new_lines"])
}

func TestToLintConfigKeepsDefaultLimitWhenUnset(t *testing.T) {
	lc := (&config.Config{}).ToLintConfig()
	assert.Equal(t, lint.DefaultRunawayLimit, lc.RunawayLimit)
}
