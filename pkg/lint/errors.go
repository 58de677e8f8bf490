package lint

import "fmt"

// ConfigError indicates invalid rule configuration: a missing declared
// keyword, a value outside its enumeration, or invalid rule metadata.
// Configuration errors abort a run before any linting occurs.
type ConfigError struct {
	Rule string // offending rule code, may be empty for global options
	Key  string // offending option key, may be empty for metadata errors
	Msg  string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Rule != "" && e.Key != "":
		return fmt.Sprintf("rule %s: config %q: %s", e.Rule, e.Key, e.Msg)
	case e.Rule != "":
		return fmt.Sprintf("rule %s: %s", e.Rule, e.Msg)
	case e.Key != "":
		return fmt.Sprintf("config %q: %s", e.Key, e.Msg)
	}
	return e.Msg
}

// SelectionError indicates a rule selection token that matched no
// registered code, name, alias or group.
type SelectionError struct {
	Token string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("rule %q not found in ruleset", e.Token)
}
