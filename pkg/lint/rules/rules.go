// Package rules registers the built-in rule catalogue. Importing it (or
// any subpackage) populates the default rule set; the blank imports below
// pull in every rule package so callers only need one import:
//
//	import _ "github.com/sqlint-dev/sqlint/pkg/lint/rules"
package rules

import (
	_ "github.com/sqlint-dev/sqlint/pkg/lint/rules/capitalisation"
	_ "github.com/sqlint-dev/sqlint/pkg/lint/rules/layout"
)
