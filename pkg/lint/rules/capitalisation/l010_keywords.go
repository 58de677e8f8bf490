package capitalisation

import (
	"github.com/sqlint-dev/sqlint/pkg/lint"
	"github.com/sqlint-dev/sqlint/pkg/segment"
)

func init() {
	lint.Register(lint.RuleDef{
		Code:        "L010",
		Name:        "capitalisation.keywords",
		Description: "Inconsistent capitalisation of keywords.",
		Groups:      []string{"all", "core", "capitalisation"},
		Aliases:     []string{"CP01"},
		ConfigKeys:  []string{"capitalisation_policy", "ignore_words"},
		// Binary operators behave like keywords too (AND, OR).
		Crawl: lint.SegmentSeeker(segment.TypeKeyword, segment.TypeBinaryOperator),
		Eval:  evalKeywordCaps,
	})
}

func evalKeywordCaps(ctx *lint.Context) ([]lint.Result, error) {
	cfg := newCapsConfig(ctx, "capitalisation_policy", "Keywords", basicPolicies)
	if res := handleSegment(ctx.Segment, ctx.Memory, cfg); res != nil {
		return []lint.Result{*res}, nil
	}
	return nil, nil
}
