package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlint-dev/sqlint/pkg/lint"
	"github.com/sqlint-dev/sqlint/pkg/segment"
)

// clause builds a "SELECT a" select clause and returns the tree plus the
// leaves fixes will anchor on.
func clause() (root, kw, ws, col *segment.Segment) {
	kw = segment.Keyword("SELECT")
	ws = segment.Whitespace(" ")
	col = segment.NewRaw(segment.TypeColumnReference, "a", kw.Marker())
	root = segment.New(segment.TypeSelectClause, kw, ws, col)
	return root, kw, ws, col
}

func TestApplyFixesDelete(t *testing.T) {
	root, _, ws, _ := clause()

	newRoot, applied, deferred := lint.ApplyFixes(root, []lint.Fix{lint.Delete(ws)})

	assert.Equal(t, 1, applied)
	assert.Empty(t, deferred)
	assert.Equal(t, "SELECTa", newRoot.Raw())
	assert.Equal(t, "SELECT a", root.Raw(), "original tree is untouched")
}

func TestApplyFixesReplace(t *testing.T) {
	root, kw, _, _ := clause()

	newRoot, applied, deferred := lint.ApplyFixes(root, []lint.Fix{
		lint.Replace(kw, segment.Keyword("select")),
	})

	assert.Equal(t, 1, applied)
	assert.Empty(t, deferred)
	assert.Equal(t, "select a", newRoot.Raw())
}

func TestApplyFixesReplaceWithSequence(t *testing.T) {
	root, _, ws, _ := clause()

	newRoot, applied, _ := lint.ApplyFixes(root, []lint.Fix{
		lint.Replace(ws, segment.Whitespace(" "), segment.Keyword("DISTINCT"), segment.Whitespace(" ")),
	})

	assert.Equal(t, 1, applied)
	assert.Equal(t, "SELECT DISTINCT a", newRoot.Raw())
}

func TestApplyFixesCreateBeforeAndAfter(t *testing.T) {
	root, kw, _, col := clause()

	newRoot, applied, deferred := lint.ApplyFixes(root, []lint.Fix{
		lint.CreateBefore(col, segment.Newline()),
		lint.CreateAfter(kw, segment.Whitespace(" ")),
	})

	assert.Equal(t, 2, applied)
	assert.Empty(t, deferred)
	assert.Equal(t, "SELECT  \na", newRoot.Raw())
}

func TestApplyFixesSameAnchorIsAConflict(t *testing.T) {
	root, _, _, col := clause()

	newRoot, applied, deferred := lint.ApplyFixes(root, []lint.Fix{
		lint.CreateBefore(col, segment.Newline()),
		lint.CreateAfter(col, segment.Whitespace(" ")),
	})

	assert.Equal(t, 1, applied)
	require.Len(t, deferred, 1)
	assert.Equal(t, lint.OpCreateAfter, deferred[0].Op)
	assert.Equal(t, "SELECT \na", newRoot.Raw())
}

func TestApplyFixesConflictFirstWins(t *testing.T) {
	root, kw, _, _ := clause()

	first := lint.Replace(kw, segment.Keyword("select"))
	second := lint.Replace(kw, segment.Keyword("Select"))
	newRoot, applied, deferred := lint.ApplyFixes(root, []lint.Fix{first, second})

	assert.Equal(t, 1, applied)
	require.Len(t, deferred, 1)
	assert.Equal(t, second.Edits, deferred[0].Edits)
	assert.Equal(t, "select a", newRoot.Raw())
}

func TestApplyFixesNestedAnchorDeferred(t *testing.T) {
	// A fix anchored inside a subtree another fix deletes is unreachable
	// in this pass and must come back as deferred.
	kw := segment.Keyword("SELECT")
	ws := segment.Whitespace(" ")
	col := segment.NewRaw(segment.TypeColumnReference, "a", kw.Marker())
	elem := segment.New(segment.TypeSelectClauseElem, col)
	root := segment.New(segment.TypeSelectClause, kw, ws, elem)

	nested := lint.Replace(col, segment.NewRaw(segment.TypeColumnReference, "b", kw.Marker()))
	newRoot, applied, deferred := lint.ApplyFixes(root, []lint.Fix{
		lint.Delete(elem),
		nested,
	})

	assert.Equal(t, 1, applied)
	require.Len(t, deferred, 1)
	assert.Equal(t, nested.Anchor, deferred[0].Anchor)
	assert.Equal(t, "SELECT ", newRoot.Raw())
}

func TestApplyFixesNoFixes(t *testing.T) {
	root, _, _, _ := clause()
	newRoot, applied, deferred := lint.ApplyFixes(root, nil)
	assert.Same(t, root, newRoot)
	assert.Zero(t, applied)
	assert.Empty(t, deferred)
}

func TestApplyFixesSharesUntouchedSubtrees(t *testing.T) {
	kw := segment.Keyword("SELECT")
	ws := segment.Whitespace(" ")
	col := segment.NewRaw(segment.TypeColumnReference, "a", kw.Marker())
	elem := segment.New(segment.TypeSelectClauseElem, col)
	root := segment.New(segment.TypeSelectClause, kw, ws, elem)

	newRoot, _, _ := lint.ApplyFixes(root, []lint.Fix{lint.Delete(ws)})

	require.Len(t, newRoot.Children(), 2)
	assert.Same(t, elem, newRoot.Children()[1], "untouched subtree is shared, not copied")
}
