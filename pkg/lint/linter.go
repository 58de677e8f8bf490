package lint

import (
	"fmt"
	"log/slog"

	"github.com/sqlint-dev/sqlint/pkg/parser"
	"github.com/sqlint-dev/sqlint/pkg/segment"
	"github.com/sqlint-dev/sqlint/pkg/token"
)

// Linter runs a rule pack over syntax trees and, in fix mode, applies the
// resulting edits until the tree is stable or the runaway limit is hit.
type Linter struct {
	config  *Config
	ruleSet *RuleSet
	logger  *slog.Logger
}

// Option configures a Linter.
type Option func(*Linter)

// WithLogger sets the structured logger used by the linter.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Linter) { l.logger = logger }
}

// WithRuleSet replaces the rule set backing the linter.
func WithRuleSet(rs *RuleSet) Option {
	return func(l *Linter) { l.ruleSet = rs }
}

// WithUserRules adds caller-supplied rules to a copy of the linter's rule
// set, so they never leak into other linters. Panics on invalid rule
// metadata, matching init()-time registration.
func WithUserRules(defs ...RuleDef) Option {
	return func(l *Linter) {
		rs := l.ruleSet.Copy()
		for _, def := range defs {
			rs.MustRegister(def)
		}
		l.ruleSet = rs
	}
}

// New creates a Linter over the global default rule set.
func New(cfg *Config, opts ...Option) *Linter {
	if cfg == nil {
		cfg = NewConfig()
	}
	l := &Linter{
		config:  cfg,
		ruleSet: DefaultRuleSet(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Linted is the outcome of one lint run.
type Linted struct {
	// Tree is the final syntax tree: rewritten in fix mode, otherwise
	// (and on non-convergence) the original.
	Tree *segment.Segment

	// Violations are reported in deterministic order: rule pack order,
	// then traversal order.
	Violations []Violation

	// FixesApplied counts edits applied across all loop iterations.
	FixesApplied int

	// ConvergenceFailed is set when the fix loop hit the runaway limit
	// and all fixes were discarded.
	ConvergenceFailed bool
}

// FixedSQL returns the raw text of the result tree.
func (ln *Linted) FixedSQL() string {
	return ln.Tree.Raw()
}

// RuleTuples returns (code, name, description, groups, aliases) for every
// rule active under the current configuration.
func (l *Linter) RuleTuples() ([]RuleTuple, error) {
	pack, err := l.ruleSet.RulePack(l.config)
	if err != nil {
		return nil, err
	}
	tuples := make([]RuleTuple, 0, len(pack))
	for _, inst := range pack {
		def := inst.def
		tuples = append(tuples, RuleTuple{
			Code:        def.Code,
			Name:        def.Name,
			Description: def.Description,
			Groups:      def.Groups,
			Aliases:     def.Aliases,
		})
	}
	return tuples, nil
}

// LintString parses and lints sql without applying fixes.
func (l *Linter) LintString(sql string) (*Linted, error) {
	return l.run(parser.Parse(sql), false)
}

// FixString parses sql, lints it, and applies fixes until no fixable
// violations remain or the runaway limit is hit. On non-convergence the
// original tree is returned untouched.
func (l *Linter) FixString(sql string) (*Linted, error) {
	return l.run(parser.Parse(sql), true)
}

// LintTree lints an already-parsed tree without applying fixes.
func (l *Linter) LintTree(tree *segment.Segment) (*Linted, error) {
	return l.run(tree, false)
}

// FixTree lints and fixes an already-parsed tree.
func (l *Linter) FixTree(tree *segment.Segment) (*Linted, error) {
	return l.run(tree, true)
}

func (l *Linter) run(tree *segment.Segment, fix bool) (*Linted, error) {
	pack, err := l.ruleSet.RulePack(l.config)
	if err != nil {
		return nil, err
	}

	original := tree
	limit := l.config.runawayLimit()
	linted := &Linted{}
	var firstViolations []Violation

	for iteration := 0; ; iteration++ {
		violations, fixes := l.crawl(tree, pack)
		if iteration == 0 {
			firstViolations = violations
		}

		if !fix || len(fixes) == 0 {
			linted.Tree = tree
			linted.Violations = violations
			return linted, nil
		}

		if iteration >= limit {
			l.logger.Warn("fix loop hit runaway limit, discarding fixes",
				"limit", limit)
			return &Linted{
				Tree:              original,
				Violations:        firstViolations,
				ConvergenceFailed: true,
			}, nil
		}

		newTree, applied, deferred := ApplyFixes(tree, fixes)
		l.logger.Debug("fix pass complete",
			"iteration", iteration, "applied", applied, "deferred", len(deferred))
		if applied == 0 {
			linted.Tree = tree
			linted.Violations = violations
			return linted, nil
		}
		linted.FixesApplied += applied
		tree = newTree.Reposition(token.Position{Line: 1, Column: 1, Offset: 0})
	}
}

// crawl evaluates every rule in the pack against the tree, in pack order,
// each over its declared crawl behaviour. Rule evaluation faults become
// synthetic violations so one bad rule cannot abort the run. Results
// anchored inside unparsable regions are dropped.
func (l *Linter) crawl(tree *segment.Segment, pack []*RuleInstance) ([]Violation, []Fix) {
	var violations []Violation
	var fixes []Fix

	for _, inst := range pack {
		inst.memory = make(map[string]any)
		def := inst.def
		if def.Eval == nil {
			continue
		}

		def.Crawl.crawl(tree, func(seg *segment.Segment, parents []*segment.Segment) bool {
			ctx := &Context{
				Segment:     seg,
				ParentStack: parents,
				Config:      inst.config,
				Memory:      inst.memory,
			}
			results, err := safeEval(def.Eval, ctx)
			if err != nil {
				l.logger.Error("rule evaluation failed",
					"rule", def.Code, "error", err)
				violations = append(violations, Violation{
					RuleCode:    def.Code,
					Pos:         token.Position{Line: 1, Column: 1},
					Description: fmt.Sprintf("Unexpected exception: %v", err),
				})
				return true
			}

			for _, res := range results {
				if res.Anchor == nil {
					continue
				}
				if anchoredInUnparsable(tree, res.Anchor) {
					continue
				}
				desc := res.Description
				if desc == "" {
					desc = def.Description
				}
				violations = append(violations, Violation{
					RuleCode:    def.Code,
					Pos:         res.Anchor.Pos(),
					Description: desc,
				})
				fixes = append(fixes, res.Fixes...)
			}
			return true
		})
	}
	return violations, fixes
}

// safeEval invokes a rule's evaluation function, converting panics into
// errors so the engine can degrade a faulty rule to a reported violation.
func safeEval(eval EvalFunc, ctx *Context) (results []Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = fmt.Errorf("%v", r)
		}
	}()
	return eval(ctx)
}

// anchoredInUnparsable reports whether the anchor, or any of its
// ancestors within the tree, is an unparsable segment.
func anchoredInUnparsable(root *segment.Segment, anchor *segment.Segment) bool {
	in := false
	root.RecursiveCrawl(func(seg *segment.Segment, parents []*segment.Segment) bool {
		if seg != anchor {
			return true
		}
		if seg.IsType(segment.TypeUnparsable) {
			in = true
			return false
		}
		for _, p := range parents {
			if p.IsType(segment.TypeUnparsable) {
				in = true
				break
			}
		}
		return false
	})
	return in
}
