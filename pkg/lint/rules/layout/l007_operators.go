// Package layout holds the line-layout rules.
package layout

import (
	"github.com/sqlint-dev/sqlint/pkg/lint"
	"github.com/sqlint-dev/sqlint/pkg/lint/reflow"
	"github.com/sqlint-dev/sqlint/pkg/segment"
)

func init() {
	lint.Register(lint.RuleDef{
		Code:        "L007",
		Name:        "line-break.operators",
		Description: "Operators should follow a standard for being before/after newlines.",
		Groups:      []string{"all", "layout", "line-break"},
		Aliases:     []string{"LB03"},
		ConfigKeys:  []string{"operator_new_lines"},
		Crawl: lint.SegmentSeeker(
			segment.TypeBinaryOperator, segment.TypeComparisonOperator),
		Eval: evalOperatorLineBreaks,
	})
}

// evalOperatorLineBreaks triggers when an operator sits on the wrong side
// of an adjacent line break for the configured policy, and relocates it
// across the break.
func evalOperatorLineBreaks(ctx *lint.Context) ([]lint.Result, error) {
	policy := lint.GetStringOption(ctx.Config, "operator_new_lines", "after")
	seq := reflow.FromAroundTarget(ctx.Segment, ctx.ParentStack)
	if seq == nil {
		return nil, nil
	}
	return seq.Rebreak(policy), nil
}
