package lint

// DefaultRunawayLimit bounds the fix loop when rules do not converge.
const DefaultRunawayLimit = 10

// Config controls rule selection, per-rule options, and fix-loop bounds
// for one linter.
type Config struct {
	// Rules is a comma-separated list of selection tokens (codes, names,
	// aliases or groups). Empty means "all".
	Rules string

	// ExcludeRules removes rules from the selection, using the same
	// token forms.
	ExcludeRules string

	// RunawayLimit is the maximum number of fix-loop iterations before
	// the run gives up on convergence and discards all fixes.
	RunawayLimit int

	// RuleConfigs holds per-rule option values, keyed by rule code.
	RuleConfigs map[string]map[string]any

	// Defaults holds option values shared across rules; a rule's
	// declared keyword resolves here when its own section has no entry.
	Defaults map[string]any
}

// NewConfig creates a configuration selecting all rules, with the stock
// option defaults bound.
func NewConfig() *Config {
	return &Config{
		RunawayLimit: DefaultRunawayLimit,
		RuleConfigs:  make(map[string]map[string]any),
		Defaults: map[string]any{
			"capitalisation_policy":          "consistent",
			"extended_capitalisation_policy": "consistent",
			"operator_new_lines":             "after",
			"ignore_words":                   "",
		},
	}
}

// WithRules sets the selection tokens.
func (c *Config) WithRules(rules string) *Config {
	c.Rules = rules
	return c
}

// WithExcludeRules sets the exclusion tokens.
func (c *Config) WithExcludeRules(exclude string) *Config {
	c.ExcludeRules = exclude
	return c
}

// WithRunawayLimit overrides the fix-loop iteration bound.
func (c *Config) WithRunawayLimit(limit int) *Config {
	c.RunawayLimit = limit
	return c
}

// SetRuleOption sets one option value for one rule.
func (c *Config) SetRuleOption(code, key string, value any) *Config {
	if c.RuleConfigs == nil {
		c.RuleConfigs = make(map[string]map[string]any)
	}
	if c.RuleConfigs[code] == nil {
		c.RuleConfigs[code] = make(map[string]any)
	}
	c.RuleConfigs[code][key] = value
	return c
}

// SetDefault sets a shared option value.
func (c *Config) SetDefault(key string, value any) *Config {
	if c.Defaults == nil {
		c.Defaults = make(map[string]any)
	}
	c.Defaults[key] = value
	return c
}

// optionsFor resolves the option map for one rule: the rule's own section
// layered over the shared defaults, restricted to its declared keys.
// Undeclared keys present in the rule's section are carried through so
// rules may read optional extras.
func (c *Config) optionsFor(def RuleDef) map[string]any {
	opts := make(map[string]any)
	for _, key := range def.ConfigKeys {
		if v, ok := c.Defaults[key]; ok {
			opts[key] = v
		}
	}
	for k, v := range c.RuleConfigs[def.Code] {
		opts[k] = v
	}
	return opts
}

func (c *Config) runawayLimit() int {
	if c.RunawayLimit > 0 {
		return c.RunawayLimit
	}
	return DefaultRunawayLimit
}
