package lint

import (
	"github.com/sqlint-dev/sqlint/pkg/segment"
)

// EvalFunc inspects one segment (or the whole tree, for root-only rules)
// and reports violations. Returning no results means "no violation here".
// An error signals invalid internal rule state: the engine converts it
// into a single synthetic violation attributed to the rule instead of
// aborting the run. Rules must never mutate the tree; intended edits are
// described through fixes.
type EvalFunc func(ctx *Context) ([]Result, error)

// RuleDef is a data-driven rule definition. Rules are stateless; all
// per-run state lives in the Context memory provided by the engine.
type RuleDef struct {
	Code        string   // unique identifier, e.g. "L007"
	Name        string   // human-readable name, e.g. "line-break.operators"
	Description string
	Groups      []string // must be non-empty and contain "all"
	Aliases     []string
	ConfigKeys  []string // declared option keys, bound at instantiation
	Crawl       CrawlBehaviour
	Eval        EvalFunc
}

// Context bundles everything a rule evaluation may inspect.
type Context struct {
	// Segment is the target of this evaluation: the tree root for
	// root-only rules, otherwise a segment matched by the rule's crawl
	// behaviour.
	Segment *segment.Segment

	// ParentStack is the ancestor path from the tree root down to (and
	// excluding) Segment, root first. Empty for root-only evaluation.
	ParentStack []*segment.Segment

	// Config holds the rule's resolved option values, validated against
	// its declared ConfigKeys.
	Config map[string]any

	// Memory persists across evaluations of one rule within a single
	// lint run, and is reset between runs.
	Memory map[string]any
}

// Parent returns the immediate parent of the target segment, or nil at
// the root.
func (c *Context) Parent() *segment.Segment {
	if len(c.ParentStack) == 0 {
		return nil
	}
	return c.ParentStack[len(c.ParentStack)-1]
}

// Siblings returns the target segment's siblings (including itself), or
// nil at the root.
func (c *Context) Siblings() []*segment.Segment {
	p := c.Parent()
	if p == nil {
		return nil
	}
	return p.Children()
}
