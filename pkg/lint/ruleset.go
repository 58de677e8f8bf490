package lint

import (
	"sort"
	"sync"
)

// RuleSet stores registered rule definitions and resolves selection
// queries into concrete rule packs.
type RuleSet struct {
	mu    sync.RWMutex
	rules map[string]RuleDef // keyed by code
}

// NewRuleSet creates an empty rule set.
func NewRuleSet() *RuleSet {
	return &RuleSet{rules: make(map[string]RuleDef)}
}

// defaultRuleSet is the global registry populated by init() functions in
// rule packages.
var defaultRuleSet = NewRuleSet()

// Register adds a rule to the global default rule set. Call this from
// init() functions in rule packages; invalid metadata panics, surfacing
// the mistake at program start.
func Register(def RuleDef) {
	defaultRuleSet.MustRegister(def)
}

// DefaultRuleSet returns the global rule set holding the built-in rules.
func DefaultRuleSet() *RuleSet {
	return defaultRuleSet
}

// Register validates a rule definition and stores it by code.
// The groups set must be non-empty and contain the literal group "all".
func (rs *RuleSet) Register(def RuleDef) error {
	if def.Code == "" {
		return &ConfigError{Msg: "rule code must not be empty"}
	}
	if !containsString(def.Groups, "all") {
		return &ConfigError{
			Rule: def.Code,
			Msg:  `rule groups must be non-empty and include "all"`,
		}
	}
	if def.Crawl == nil {
		def.Crawl = RootOnlyCrawler{}
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	if _, ok := rs.rules[def.Code]; ok {
		return &ConfigError{Rule: def.Code, Msg: "rule code already registered"}
	}
	rs.rules[def.Code] = def
	return nil
}

// MustRegister registers a rule and panics on invalid metadata.
func (rs *RuleSet) MustRegister(def RuleDef) {
	if err := rs.Register(def); err != nil {
		panic(err)
	}
}

// Get returns a registered rule by code.
func (rs *RuleSet) Get(code string) (RuleDef, error) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	def, ok := rs.rules[code]
	if !ok {
		return RuleDef{}, &SelectionError{Token: code}
	}
	return def, nil
}

// All returns all registered rules ordered by code.
func (rs *RuleSet) All() []RuleDef {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	defs := make([]RuleDef, 0, len(rs.rules))
	for _, def := range rs.rules {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Code < defs[j].Code })
	return defs
}

// Copy returns an independent rule set with the same definitions, so that
// per-linter user rules never leak into the global registry.
func (rs *RuleSet) Copy() *RuleSet {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	out := NewRuleSet()
	for code, def := range rs.rules {
		out.rules[code] = def
	}
	return out
}

// RuleInstance is one rule bound to its resolved configuration for a
// single run. Memory persists across evaluations within the run.
type RuleInstance struct {
	def    RuleDef
	config map[string]any
	memory map[string]any
}

// Code returns the instance's rule code.
func (ri *RuleInstance) Code() string { return ri.def.Code }

// Def returns the underlying rule definition.
func (ri *RuleInstance) Def() RuleDef { return ri.def }

func newRuleInstance(def RuleDef, opts map[string]any) (*RuleInstance, error) {
	for _, key := range def.ConfigKeys {
		if _, ok := opts[key]; !ok {
			return nil, &ConfigError{
				Rule: def.Code,
				Key:  key,
				Msg:  "value required but not provided",
			}
		}
	}
	for k, v := range opts {
		if err := validateOption(def.Code, k, v); err != nil {
			return nil, err
		}
	}
	return &RuleInstance{
		def:    def,
		config: opts,
		memory: make(map[string]any),
	}, nil
}

// RulePack resolves the configured selection into an ordered, deduplicated
// list of rule instances with bound, validated configuration. Selection
// tokens may be codes, names, aliases or groups; a token matching a code
// always wins over a same-text name, alias or group. Unknown include
// tokens fail with a SelectionError; unknown exclude tokens are ignored.
func (rs *RuleSet) RulePack(cfg *Config) ([]*RuleInstance, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if err := rs.validateConfiguredOptions(cfg); err != nil {
		return nil, err
	}

	rs.mu.RLock()
	defer rs.mu.RUnlock()

	included := make(map[string]bool)
	includeTokens := SplitCommaSeparated(cfg.Rules)
	if len(includeTokens) == 0 {
		for code := range rs.rules {
			included[code] = true
		}
	} else {
		for _, tok := range includeTokens {
			codes := rs.expandToken(tok)
			if len(codes) == 0 {
				return nil, &SelectionError{Token: tok}
			}
			for _, code := range codes {
				included[code] = true
			}
		}
	}

	for _, tok := range SplitCommaSeparated(cfg.ExcludeRules) {
		for _, code := range rs.expandToken(tok) {
			delete(included, code)
		}
	}

	codes := make([]string, 0, len(included))
	for code := range included {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	pack := make([]*RuleInstance, 0, len(codes))
	for _, code := range codes {
		def := rs.rules[code]
		inst, err := newRuleInstance(def, cfg.optionsFor(def))
		if err != nil {
			return nil, err
		}
		pack = append(pack, inst)
	}
	return pack, nil
}

// expandToken resolves one selection token to rule codes. Codes take
// precedence: a token that is a registered code never matches names,
// aliases or groups of other rules.
func (rs *RuleSet) expandToken(tok string) []string {
	if _, ok := rs.rules[tok]; ok {
		return []string{tok}
	}
	var codes []string
	for code, def := range rs.rules {
		if def.Name == tok || containsString(def.Aliases, tok) || containsString(def.Groups, tok) {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes
}

// validateConfiguredOptions checks every configured option value against
// its enumeration, including shared defaults that no selected rule
// declares. Bad configuration fails before any linting.
func (rs *RuleSet) validateConfiguredOptions(cfg *Config) error {
	keys := make([]string, 0, len(cfg.Defaults))
	for k := range cfg.Defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := validateOption("", k, cfg.Defaults[k]); err != nil {
			return err
		}
	}

	codes := make([]string, 0, len(cfg.RuleConfigs))
	for code := range cfg.RuleConfigs {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		opts := cfg.RuleConfigs[code]
		optKeys := make([]string, 0, len(opts))
		for k := range opts {
			optKeys = append(optKeys, k)
		}
		sort.Strings(optKeys)
		for _, k := range optKeys {
			if err := validateOption(code, k, opts[k]); err != nil {
				return err
			}
		}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
