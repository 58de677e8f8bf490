// Package segment defines the concrete syntax tree consumed by the lint
// engine. Segments are produced once by parsing and treated as immutable:
// edits never modify a segment in place, they build replacement subtrees.
package segment

import (
	"fmt"
	"strings"

	"github.com/sqlint-dev/sqlint/pkg/token"
)

// Type tags for the closed segment taxonomy.
const (
	TypeStatement          = "statement"
	TypeSelectStatement    = "select_statement"
	TypeSelectClause       = "select_clause"
	TypeSelectClauseElem   = "select_clause_element"
	TypeWildcardExpression = "wildcard_expression"
	TypeFromClause         = "from_clause"
	TypeWhereClause        = "where_clause"
	TypeGroupByClause      = "groupby_clause"
	TypeOrderByClause      = "orderby_clause"
	TypeLimitClause        = "limit_clause"
	TypeColumnReference    = "column_reference"
	TypeTableReference     = "table_reference"
	TypeDataTypeIdentifier = "data_type_identifier"
	TypeKeyword            = "keyword"
	TypeWhitespace         = "whitespace"
	TypeNewline            = "newline"
	TypeComma              = "comma"
	TypeDot                = "dot"
	TypeStar               = "star"
	TypeBinaryOperator     = "binary_operator"
	TypeComparisonOperator = "comparison_operator"
	TypeLiteral            = "literal"
	TypeSymbol             = "symbol"
	TypeComment            = "comment"
	TypeUnparsable         = "unparsable"
)

// Segment is a node of the concrete syntax tree. A segment is either a
// leaf carrying raw source text, or an interior node whose raw text is the
// concatenation of its children.
type Segment struct {
	typ      string
	raw      string
	children []*Segment
	marker   token.Marker
}

// New creates an interior segment over the given children.
func New(typ string, children ...*Segment) *Segment {
	s := &Segment{typ: typ, children: children}
	if len(children) > 0 {
		s.marker = token.Marker{
			Span: token.Span{
				Start: children[0].marker.Start,
				End:   children[len(children)-1].marker.End,
			},
			SourceStart: children[0].marker.SourceStart,
			SourceEnd:   children[len(children)-1].marker.SourceEnd,
		}
	}
	return s
}

// NewRaw creates a leaf segment with raw source text.
func NewRaw(typ, raw string, m token.Marker) *Segment {
	return &Segment{typ: typ, raw: raw, marker: m}
}

// Whitespace creates an unpositioned whitespace leaf, for use as fix edit
// material. Positions are re-derived when the fix is applied.
func Whitespace(raw string) *Segment {
	return &Segment{typ: TypeWhitespace, raw: raw}
}

// Newline creates an unpositioned newline leaf.
func Newline() *Segment {
	return &Segment{typ: TypeNewline, raw: "\n"}
}

// Keyword creates an unpositioned keyword leaf.
func Keyword(raw string) *Segment {
	return &Segment{typ: TypeKeyword, raw: raw}
}

// Type returns the segment's type tag.
func (s *Segment) Type() string { return s.typ }

// IsType returns true if the segment's type tag is any of the given types.
func (s *Segment) IsType(types ...string) bool {
	for _, t := range types {
		if s.typ == t {
			return true
		}
	}
	return false
}

// Raw returns the segment's source text. For interior segments this is the
// concatenation of the children's raw text.
func (s *Segment) Raw() string {
	if len(s.children) == 0 {
		return s.raw
	}
	var b strings.Builder
	for _, c := range s.children {
		b.WriteString(c.Raw())
	}
	return b.String()
}

// Children returns the segment's ordered child segments.
func (s *Segment) Children() []*Segment { return s.children }

// Marker returns the segment's position marker.
func (s *Segment) Marker() token.Marker { return s.marker }

// Pos returns the segment's starting position.
func (s *Segment) Pos() token.Position { return s.marker.Start }

// IsLeaf returns true if the segment has no children.
func (s *Segment) IsLeaf() bool { return len(s.children) == 0 }

// IsCode returns true for leaves that carry meaningful source text, i.e.
// anything except whitespace, newlines and comments.
func (s *Segment) IsCode() bool {
	return s.IsLeaf() && !s.IsType(TypeWhitespace, TypeNewline, TypeComment)
}

// RawSegments returns the leaf segments beneath s in source order.
func (s *Segment) RawSegments() []*Segment {
	if s.IsLeaf() {
		return []*Segment{s}
	}
	var leaves []*Segment
	for _, c := range s.children {
		leaves = append(leaves, c.RawSegments()...)
	}
	return leaves
}

// VisitFunc is invoked for each segment during a crawl. parents holds the
// ancestor path from the tree root down to (excluding) the visited segment,
// root first. Returning false prunes the subtree below the visited segment.
type VisitFunc func(seg *Segment, parents []*Segment) bool

// RecursiveCrawl walks the tree in depth-first pre-order, which is source
// order. The receiver itself is visited first with an empty parent path.
func (s *Segment) RecursiveCrawl(visit VisitFunc) {
	s.crawl(nil, visit)
}

func (s *Segment) crawl(parents []*Segment, visit VisitFunc) {
	if !visit(s, parents) {
		return
	}
	childParents := append(parents[:len(parents):len(parents)], s)
	for _, c := range s.children {
		c.crawl(childParents, visit)
	}
}

// CopyWith returns a new interior segment of the same type over the given
// children. The original segment is left untouched.
func (s *Segment) CopyWith(children []*Segment) *Segment {
	return New(s.typ, children...)
}

// Reposition returns a copy of the tree with all position markers
// re-derived from the given starting position. Used after fix application
// so that later reporting carries correct line/column information.
func (s *Segment) Reposition(start token.Position) *Segment {
	out, _ := s.reposition(start)
	return out
}

func (s *Segment) reposition(start token.Position) (*Segment, token.Position) {
	if s.IsLeaf() {
		end := start.Advance(s.raw)
		return NewRaw(s.typ, s.raw, token.NewMarker(start, end)), end
	}
	children := make([]*Segment, len(s.children))
	pos := start
	for i, c := range s.children {
		children[i], pos = c.reposition(pos)
	}
	return New(s.typ, children...), pos
}

// Validate checks the structural fidelity invariant: every interior
// segment's raw text must equal the concatenation of its children's.
// With Raw computed by concatenation this reduces to checking that no
// interior node is childless while claiming raw text, and recursing.
func (s *Segment) Validate() error {
	for _, c := range s.children {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	if len(s.children) > 0 && s.raw != "" {
		return fmt.Errorf("segment %q carries raw text alongside children", s.typ)
	}
	return nil
}

func (s *Segment) String() string {
	return fmt.Sprintf("<%s: (%s) %q>", s.typ, s.marker.Start, s.Raw())
}
