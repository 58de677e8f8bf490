package lint

import (
	"fmt"
	"strings"
)

// configInfo enumerates the closed value sets for enum-valued rule
// options. Values are validated at rule-pack build time so that a bad
// option fails fast, before any linting occurs.
var configInfo = map[string][]string{
	"capitalisation_policy":          {"consistent", "upper", "lower", "capitalise"},
	"extended_capitalisation_policy": {"consistent", "upper", "lower", "pascal", "capitalise"},
	"operator_new_lines":             {"after", "before"},
	"aliasing":                       {"implicit", "explicit"},
	"allow_scalar":                   {"true", "false"},
	"single_table_references":        {"consistent", "qualified", "unqualified"},
	"unquoted_identifiers_policy":    {"all", "aliases", "column_aliases"},
}

// validateOption checks an option value against its enumeration, if it
// has one. Options without a registered enumeration always pass.
func validateOption(rule, key string, value any) error {
	allowed, ok := configInfo[key]
	if !ok {
		return nil
	}

	var str string
	switch v := value.(type) {
	case string:
		str = v
	case bool:
		str = fmt.Sprintf("%t", v)
	default:
		str = fmt.Sprintf("%v", v)
	}

	for _, a := range allowed {
		if str == a {
			return nil
		}
	}
	return &ConfigError{
		Rule: rule,
		Key:  key,
		Msg:  fmt.Sprintf("invalid value %q, must be one of: %s", str, strings.Join(allowed, ", ")),
	}
}
