package capitalisation

import (
	"github.com/sqlint-dev/sqlint/pkg/lint"
	"github.com/sqlint-dev/sqlint/pkg/segment"
)

func init() {
	lint.Register(lint.RuleDef{
		Code:        "L063",
		Name:        "capitalisation.types",
		Description: "Inconsistent capitalisation of datatypes.",
		Groups:      []string{"all", "capitalisation"},
		Aliases:     []string{"CP05"},
		ConfigKeys:  []string{"extended_capitalisation_policy", "ignore_words"},
		Crawl:       lint.SegmentSeeker(segment.TypeDataTypeIdentifier),
		Eval:        evalTypeCaps,
	})
}

// evalTypeCaps reuses the keyword capitalisation engine with the extended
// policy set, which additionally allows pascal case.
func evalTypeCaps(ctx *lint.Context) ([]lint.Result, error) {
	cfg := newCapsConfig(ctx, "extended_capitalisation_policy", "Datatypes", extendedPolicies)
	if res := handleSegment(ctx.Segment, ctx.Memory, cfg); res != nil {
		return []lint.Result{*res}, nil
	}
	return nil, nil
}
