package segment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlint-dev/sqlint/pkg/segment"
	"github.com/sqlint-dev/sqlint/pkg/token"
)

// leafAt builds a positioned leaf starting at pos, returning the leaf and
// the position after it.
func leafAt(typ, raw string, pos token.Position) (*segment.Segment, token.Position) {
	end := pos.Advance(raw)
	return segment.NewRaw(typ, raw, token.NewMarker(pos, end)), end
}

// buildTree assembles "SELECT a" as a small positioned tree.
func buildTree(t *testing.T) *segment.Segment {
	t.Helper()
	pos := token.Position{Line: 1, Column: 1, Offset: 0}
	kw, pos := leafAt(segment.TypeKeyword, "SELECT", pos)
	ws, pos := leafAt(segment.TypeWhitespace, " ", pos)
	col, _ := leafAt(segment.TypeColumnReference, "a", pos)

	elem := segment.New(segment.TypeSelectClauseElem, col)
	clause := segment.New(segment.TypeSelectClause, kw, ws, elem)
	return segment.New(segment.TypeStatement, clause)
}

func TestRawConcatenation(t *testing.T) {
	tree := buildTree(t)
	assert.Equal(t, "SELECT a", tree.Raw())
	require.NoError(t, tree.Validate())
}

func TestInteriorMarkerSpansChildren(t *testing.T) {
	tree := buildTree(t)
	m := tree.Marker()
	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, m.Start)
	assert.Equal(t, 8, m.End.Offset)
}

func TestRecursiveCrawlIsPreOrder(t *testing.T) {
	tree := buildTree(t)

	var types []string
	tree.RecursiveCrawl(func(seg *segment.Segment, _ []*segment.Segment) bool {
		types = append(types, seg.Type())
		return true
	})

	assert.Equal(t, []string{
		segment.TypeStatement,
		segment.TypeSelectClause,
		segment.TypeKeyword,
		segment.TypeWhitespace,
		segment.TypeSelectClauseElem,
		segment.TypeColumnReference,
	}, types)
}

func TestRecursiveCrawlPrunes(t *testing.T) {
	tree := buildTree(t)

	var types []string
	tree.RecursiveCrawl(func(seg *segment.Segment, _ []*segment.Segment) bool {
		types = append(types, seg.Type())
		return !seg.IsType(segment.TypeSelectClause)
	})

	assert.Equal(t, []string{segment.TypeStatement, segment.TypeSelectClause}, types)
}

func TestRecursiveCrawlParentStacks(t *testing.T) {
	tree := buildTree(t)

	stacks := make(map[string][]string)
	tree.RecursiveCrawl(func(seg *segment.Segment, parents []*segment.Segment) bool {
		var path []string
		for _, p := range parents {
			path = append(path, p.Type())
		}
		stacks[seg.Type()] = path
		return true
	})

	assert.Empty(t, stacks[segment.TypeStatement])
	assert.Equal(t,
		[]string{segment.TypeStatement, segment.TypeSelectClause, segment.TypeSelectClauseElem},
		stacks[segment.TypeColumnReference])
}

func TestRawSegments(t *testing.T) {
	tree := buildTree(t)
	leaves := tree.RawSegments()
	require.Len(t, leaves, 3)
	assert.Equal(t, "SELECT", leaves[0].Raw())
	assert.Equal(t, "a", leaves[2].Raw())
}

func TestIsCode(t *testing.T) {
	assert.False(t, segment.Whitespace("  ").IsCode())
	assert.False(t, segment.Newline().IsCode())
	assert.True(t, segment.Keyword("FROM").IsCode())

	interior := segment.New(segment.TypeSelectClauseElem, segment.Keyword("FROM"))
	assert.False(t, interior.IsCode(), "interior segments are not code leaves")
}

func TestCopyWithLeavesOriginalUntouched(t *testing.T) {
	tree := buildTree(t)
	clause := tree.Children()[0]
	original := clause.Children()

	replacement := clause.CopyWith([]*segment.Segment{segment.Keyword("SELECT")})
	assert.Equal(t, clause.Type(), replacement.Type())
	assert.Equal(t, "SELECT", replacement.Raw())
	assert.Equal(t, original, clause.Children())
}

func TestReposition(t *testing.T) {
	// Unpositioned fix material mixed into a tree gets markers back.
	kw := segment.Keyword("SELECT")
	nl := segment.Newline()
	ws := segment.Whitespace("  ")
	col := segment.NewRaw(segment.TypeColumnReference, "a", token.Marker{})
	clause := segment.New(segment.TypeSelectClause, kw, nl, ws, col)

	out := clause.Reposition(token.Position{Line: 1, Column: 1, Offset: 0})

	assert.Equal(t, "SELECT\n  a", out.Raw())
	leaves := out.RawSegments()
	require.Len(t, leaves, 4)
	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, leaves[0].Pos())
	assert.Equal(t, token.Position{Line: 1, Column: 7, Offset: 6}, leaves[1].Pos())
	assert.Equal(t, token.Position{Line: 2, Column: 1, Offset: 7}, leaves[2].Pos())
	assert.Equal(t, token.Position{Line: 2, Column: 3, Offset: 9}, leaves[3].Pos())

	// The input tree keeps its (empty) markers.
	assert.False(t, kw.Pos().IsValid())
}
