// Package lint implements the rule engine: rule registration and
// selection, crawling syntax trees, collecting violations, and applying
// structural fixes until the tree converges.
//
// Rules are data-driven. A RuleDef pairs metadata (code, name, groups,
// aliases, declared option keys) with a crawl behaviour and an evaluation
// function. Rule packages register their definitions in init():
//
//	func init() {
//		lint.Register(lint.RuleDef{
//			Code:  "L007",
//			Name:  "line-break.operators",
//			Groups: []string{"all", "layout"},
//			Crawl: lint.SegmentSeeker(segment.TypeBinaryOperator),
//			Eval:  evalOperators,
//		})
//	}
//
// A Linter binds a Config to the registry, resolves the configured
// selection into a rule pack, and lints or fixes strings and trees.
package lint
