package lint

import (
	"fmt"

	"github.com/sqlint-dev/sqlint/pkg/segment"
	"github.com/sqlint-dev/sqlint/pkg/token"
)

// Result is a single violation reported by a rule, anchored on the segment
// where the problem was observed, optionally bundled with fixes.
type Result struct {
	Anchor      *segment.Segment
	Description string
	Fixes       []Fix
}

func (r Result) String() string {
	if r.Anchor == nil {
		return "LintResult(<empty>)"
	}
	desc := ""
	if r.Description != "" {
		desc = r.Description + ": "
	}
	suffix := ""
	if len(r.Fixes) > 0 {
		suffix = fmt.Sprintf("+%dF", len(r.Fixes))
	}
	return fmt.Sprintf("LintResult(%s%s%s)", desc, r.Anchor, suffix)
}

// Violation is the reporting tuple handed to callers: which rule fired,
// where, and why.
type Violation struct {
	RuleCode    string
	Pos         token.Position
	Description string
}

// CheckTuple returns the (code, line, column) triple, the compact form
// used in tests and tooling.
func (v Violation) CheckTuple() (string, int, int) {
	return v.RuleCode, v.Pos.Line, v.Pos.Column
}

// RuleTuple is the introspection record for one active rule.
type RuleTuple struct {
	Code        string
	Name        string
	Description string
	Groups      []string
	Aliases     []string
}
