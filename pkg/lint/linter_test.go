package lint_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlint-dev/sqlint/internal/testutil"
	"github.com/sqlint-dev/sqlint/pkg/lint"
	"github.com/sqlint-dev/sqlint/pkg/segment"
)

// firstCodeLeaf returns the first code leaf of the tree, if any.
func firstCodeLeaf(root *segment.Segment) *segment.Segment {
	for _, leaf := range root.RawSegments() {
		if leaf.IsCode() {
			return leaf
		}
	}
	return nil
}

// faultyRule always fails evaluation.
func faultyRule() lint.RuleDef {
	return lint.RuleDef{
		Code:   "T000",
		Groups: []string{"all"},
		Crawl:  lint.RootOnlyCrawler{},
		Eval: func(*lint.Context) ([]lint.Result, error) {
			return nil, errors.New("deliberate failure")
		},
	}
}

// whitespaceGrower appends whitespace after the first code leaf on every
// pass, so fixing it can never converge.
func whitespaceGrower() lint.RuleDef {
	return lint.RuleDef{
		Code:        "T001",
		Description: "Add whitespace",
		Groups:      []string{"all"},
		Crawl:       lint.RootOnlyCrawler{},
		Eval: func(ctx *lint.Context) ([]lint.Result, error) {
			anchor := firstCodeLeaf(ctx.Segment)
			if anchor == nil {
				return nil, nil
			}
			return []lint.Result{{
				Anchor: anchor,
				Fixes:  []lint.Fix{lint.CreateAfter(anchor, segment.Whitespace(" "))},
			}}, nil
		},
	}
}

// codeReporter flags the first code leaf it can find.
func codeReporter() lint.RuleDef {
	return lint.RuleDef{
		Code:        "T002",
		Description: "Code was found",
		Groups:      []string{"all"},
		Crawl:       lint.RootOnlyCrawler{},
		Eval: func(ctx *lint.Context) ([]lint.Result, error) {
			anchor := firstCodeLeaf(ctx.Segment)
			if anchor == nil {
				return nil, nil
			}
			return []lint.Result{{Anchor: anchor}}, nil
		},
	}
}

func newLinter(t *testing.T, cfg *lint.Config, defs ...lint.RuleDef) *lint.Linter {
	t.Helper()
	rs := lint.NewRuleSet()
	for _, def := range defs {
		rs.MustRegister(def)
	}
	return lint.New(cfg, lint.WithRuleSet(rs), lint.WithLogger(testutil.NewTestLogger(t)))
}

func TestLintEvalFaultBecomesViolation(t *testing.T) {
	linter := newLinter(t, nil, faultyRule())

	linted, err := linter.LintString("SELECT 1")
	require.NoError(t, err)

	require.Len(t, linted.Violations, 1)
	code, line, col := linted.Violations[0].CheckTuple()
	assert.Equal(t, "T000", code)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)
	assert.Contains(t, linted.Violations[0].Description, "Unexpected exception")
}

func TestLintEvalPanicBecomesViolation(t *testing.T) {
	panicker := lint.RuleDef{
		Code:   "T003",
		Groups: []string{"all"},
		Crawl:  lint.RootOnlyCrawler{},
		Eval: func(*lint.Context) ([]lint.Result, error) {
			panic("boom")
		},
	}
	linter := newLinter(t, nil, panicker)

	linted, err := linter.LintString("SELECT 1")
	require.NoError(t, err)
	require.Len(t, linted.Violations, 1)
	assert.Equal(t, "T003", linted.Violations[0].RuleCode)
}

func TestFixRunawayReturnsOriginal(t *testing.T) {
	input := "SELECT * FROM foo"
	cfg := lint.NewConfig().WithRunawayLimit(5)
	linter := newLinter(t, cfg, whitespaceGrower())

	linted, err := linter.FixString(input)
	require.NoError(t, err)

	assert.True(t, linted.ConvergenceFailed)
	assert.Equal(t, input, linted.FixedSQL(), "runaway discards all fixes")
	require.NotEmpty(t, linted.Violations)
	assert.Equal(t, "T001", linted.Violations[0].RuleCode)
}

func TestFixConvergesAndReportsApplied(t *testing.T) {
	// Lower-cases the first SELECT keyword once; the second pass finds
	// nothing more to do.
	lowerer := lint.RuleDef{
		Code:   "T004",
		Groups: []string{"all"},
		Crawl:  lint.SegmentSeeker(segment.TypeKeyword),
		Eval: func(ctx *lint.Context) ([]lint.Result, error) {
			if ctx.Segment.Raw() != "SELECT" {
				return nil, nil
			}
			return []lint.Result{{
				Anchor: ctx.Segment,
				Fixes: []lint.Fix{lint.Replace(ctx.Segment,
					segment.NewRaw(segment.TypeKeyword, "select", ctx.Segment.Marker()))},
			}}, nil
		},
	}
	linter := newLinter(t, nil, lowerer)

	linted, err := linter.FixString("SELECT a FROM foo")
	require.NoError(t, err)

	assert.False(t, linted.ConvergenceFailed)
	assert.Equal(t, 1, linted.FixesApplied)
	assert.Equal(t, "select a FROM foo", linted.FixedSQL())
	assert.Empty(t, linted.Violations, "violations reflect the final pass")
}

func TestLintSkipsUnparsableInput(t *testing.T) {
	linter := newLinter(t, nil, codeReporter())

	linted, err := linter.LintString("SELECT 1")
	require.NoError(t, err)
	require.Len(t, linted.Violations, 1)

	linted, err = linter.LintString("asd asdf sdfg")
	require.NoError(t, err)
	assert.Empty(t, linted.Violations,
		"results anchored inside unparsable regions are dropped")
}

func TestSegmentSeekerSkipsUnparsableRegions(t *testing.T) {
	var visited []string
	seeker := lint.RuleDef{
		Code:   "T005",
		Groups: []string{"all"},
		Crawl:  lint.SegmentSeeker(segment.TypeKeyword),
		Eval: func(ctx *lint.Context) ([]lint.Result, error) {
			visited = append(visited, ctx.Segment.Raw())
			return nil, nil
		},
	}
	linter := newLinter(t, nil, seeker)

	_, err := linter.LintString("select from where")
	require.NoError(t, err)
	assert.NotEmpty(t, visited)

	visited = nil
	_, err = linter.LintString("asd asdf sdfg")
	require.NoError(t, err)
	assert.Empty(t, visited)
}

func TestUserRulesDoNotLeakBetweenLinters(t *testing.T) {
	plain := lint.New(nil, lint.WithRuleSet(lint.NewRuleSet()))
	custom := lint.New(nil,
		lint.WithRuleSet(lint.NewRuleSet()),
		lint.WithUserRules(codeReporter()))

	tuples, err := custom.RuleTuples()
	require.NoError(t, err)
	require.Len(t, tuples, 1)
	assert.Equal(t, "T002", tuples[0].Code)

	tuples, err = plain.RuleTuples()
	require.NoError(t, err)
	assert.Empty(t, tuples)
}

func TestViolationOrderFollowsPackThenTraversal(t *testing.T) {
	keywordFlagger := func(code string) lint.RuleDef {
		return lint.RuleDef{
			Code:   code,
			Groups: []string{"all"},
			Crawl:  lint.SegmentSeeker(segment.TypeKeyword),
			Eval: func(ctx *lint.Context) ([]lint.Result, error) {
				return []lint.Result{{Anchor: ctx.Segment}}, nil
			},
		}
	}
	linter := newLinter(t, nil, keywordFlagger("T020"), keywordFlagger("T010"))

	linted, err := linter.LintString("SELECT a FROM foo")
	require.NoError(t, err)

	require.Len(t, linted.Violations, 4)
	assert.Equal(t, "T010", linted.Violations[0].RuleCode)
	assert.Equal(t, 1, linted.Violations[0].Pos.Column)
	assert.Equal(t, "T010", linted.Violations[1].RuleCode)
	assert.Equal(t, "T020", linted.Violations[2].RuleCode)
	assert.Equal(t, "T020", linted.Violations[3].RuleCode)
}

func TestDefaultDescriptionComesFromRule(t *testing.T) {
	linter := newLinter(t, nil, codeReporter())
	linted, err := linter.LintString("SELECT 1")
	require.NoError(t, err)
	require.Len(t, linted.Violations, 1)
	assert.Equal(t, "Code was found", linted.Violations[0].Description)
}
