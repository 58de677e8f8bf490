// Package parser turns SQL text into the concrete syntax tree consumed by
// the lint engine. It is deliberately loose: it recognizes enough SELECT
// structure to give rules realistic shapes, preserves every input byte in
// a leaf segment, and wraps anything it cannot interpret in an unparsable
// segment rather than failing.
package parser

import (
	"github.com/sqlint-dev/sqlint/pkg/segment"
	"github.com/sqlint-dev/sqlint/pkg/token"
)

// clause-opening words at paren depth zero.
var clauseBoundaries = map[string]string{
	"FROM":   segment.TypeFromClause,
	"WHERE":  segment.TypeWhereClause,
	"GROUP":  segment.TypeGroupByClause,
	"ORDER":  segment.TypeOrderByClause,
	"HAVING": segment.TypeWhereClause,
	"LIMIT":  segment.TypeLimitClause,
	"OFFSET": segment.TypeLimitClause,
}

// Parse builds a syntax tree for the given SQL. It never returns an error:
// input that does not look like a SELECT statement is wrapped in an
// unparsable segment so that rules can still see (or skip) it.
func Parse(input string) *segment.Segment {
	toks := lex(input)

	first := firstCode(toks)
	if first == -1 || !isKeywordNamed(toks[first], "SELECT") {
		leaves := leafSegments(toks)
		if len(leaves) == 0 {
			return segment.New(segment.TypeStatement)
		}
		return segment.New(segment.TypeStatement,
			segment.New(segment.TypeUnparsable, leaves...))
	}

	b := &builder{toks: toks}
	return b.buildStatement(first)
}

func firstCode(toks []tok) int {
	for i, t := range toks {
		switch t.kind {
		case tokWhitespace, tokNewline, tokComment:
			continue
		default:
			return i
		}
	}
	return -1
}

// leafSegments converts raw tokens straight into leaf segments.
func leafSegments(toks []tok) []*segment.Segment {
	leaves := make([]*segment.Segment, 0, len(toks))
	for _, t := range toks {
		leaves = append(leaves, leaf(t, segment.TypeSymbol))
	}
	return leaves
}

// leaf converts one token into a leaf segment. wordType is the tag used
// for plain (non-keyword) words in the current context.
func leaf(t tok, wordType string) *segment.Segment {
	m := token.NewMarker(t.pos, t.end())
	typ := segment.TypeSymbol
	switch t.kind {
	case tokWhitespace:
		typ = segment.TypeWhitespace
	case tokNewline:
		typ = segment.TypeNewline
	case tokComment:
		typ = segment.TypeComment
	case tokComma:
		typ = segment.TypeComma
	case tokDot:
		typ = segment.TypeDot
	case tokStar:
		typ = segment.TypeStar
	case tokOperator:
		typ = segment.TypeBinaryOperator
	case tokComparison:
		typ = segment.TypeComparisonOperator
	case tokNumber, tokString:
		typ = segment.TypeLiteral
	case tokWord:
		switch {
		case isKeyword(t.literal):
			typ = segment.TypeKeyword
		case isDataType(t.literal):
			typ = segment.TypeDataTypeIdentifier
		default:
			typ = wordType
		}
	}
	return segment.NewRaw(typ, t.literal, m)
}

type builder struct {
	toks []tok
	i    int
}

func (b *builder) buildStatement(selectIdx int) *segment.Segment {
	var stmtChildren []*segment.Segment

	// Leading trivia before SELECT stays at statement level.
	for b.i < selectIdx {
		stmtChildren = append(stmtChildren, leaf(b.toks[b.i], segment.TypeSymbol))
		b.i++
	}

	var selChildren []*segment.Segment
	clause, trailing := b.buildSelectClause()
	selChildren = append(selChildren, clause)
	selChildren = append(selChildren, trailing...)

	for b.i < len(b.toks) {
		t := b.toks[b.i]
		if t.kind == tokWord {
			if typ, ok := clauseBoundaries[upper(t.literal)]; ok {
				cl, trail := b.buildClause(typ)
				selChildren = append(selChildren, cl)
				selChildren = append(selChildren, trail...)
				continue
			}
		}
		selChildren = append(selChildren, leaf(t, segment.TypeColumnReference))
		b.i++
	}

	stmtChildren = append(stmtChildren,
		segment.New(segment.TypeSelectStatement, selChildren...))
	return segment.New(segment.TypeStatement, stmtChildren...)
}

// buildSelectClause consumes SELECT and its target list. Trailing trivia
// after the last target is returned separately so it can sit at statement
// level, matching where rules expect to find it.
func (b *builder) buildSelectClause() (*segment.Segment, []*segment.Segment) {
	var children []*segment.Segment
	children = append(children, leaf(b.toks[b.i], segment.TypeColumnReference)) // SELECT
	b.i++

	depth := 0
	for b.i < len(b.toks) {
		t := b.toks[b.i]
		if depth == 0 && t.kind == tokWord {
			if _, ok := clauseBoundaries[upper(t.literal)]; ok {
				break
			}
		}
		switch t.kind {
		case tokWhitespace, tokNewline, tokComment, tokComma:
			children = append(children, leaf(t, segment.TypeColumnReference))
			b.i++
		case tokWord:
			if upper(t.literal) == "DISTINCT" || upper(t.literal) == "ALL" {
				children = append(children, leaf(t, segment.TypeColumnReference))
				b.i++
				continue
			}
			children = append(children, b.buildElement(&depth))
		default:
			children = append(children, b.buildElement(&depth))
		}
	}

	trailing := popTrailingTrivia(&children)
	return segment.New(segment.TypeSelectClause, children...), trailing
}

// buildElement consumes one select target: code tokens (and interior
// trivia) up to a top-level comma or clause boundary, with trailing trivia
// pushed back out to the clause.
func (b *builder) buildElement(depth *int) *segment.Segment {
	var elem []tok
	for b.i < len(b.toks) {
		t := b.toks[b.i]
		if *depth == 0 {
			if t.kind == tokComma {
				break
			}
			if t.kind == tokWord {
				if _, ok := clauseBoundaries[upper(t.literal)]; ok {
					break
				}
			}
		}
		if t.kind == tokLParen {
			*depth++
		}
		if t.kind == tokRParen && *depth > 0 {
			*depth--
		}
		elem = append(elem, t)
		b.i++
	}

	// Push trailing trivia back for the clause to own.
	for len(elem) > 0 && isTrivia(elem[len(elem)-1]) {
		b.i--
		elem = elem[:len(elem)-1]
	}

	return segment.New(segment.TypeSelectClauseElem,
		exprSegments(elem, segment.TypeColumnReference)...)
}

// buildClause consumes a keyword-led clause (FROM, WHERE, ...) up to the
// next clause boundary.
func (b *builder) buildClause(typ string) (*segment.Segment, []*segment.Segment) {
	wordType := segment.TypeColumnReference
	if typ == segment.TypeFromClause {
		wordType = segment.TypeTableReference
	}

	var children []*segment.Segment
	children = append(children, leaf(b.toks[b.i], wordType)) // clause keyword
	b.i++

	depth := 0
	var body []tok
	for b.i < len(b.toks) {
		t := b.toks[b.i]
		if depth == 0 && t.kind == tokWord {
			if _, ok := clauseBoundaries[upper(t.literal)]; ok {
				break
			}
		}
		if t.kind == tokLParen {
			depth++
		}
		if t.kind == tokRParen && depth > 0 {
			depth--
		}
		body = append(body, t)
		b.i++
	}
	for len(body) > 0 && isTrivia(body[len(body)-1]) {
		b.i--
		body = body[:len(body)-1]
	}

	children = append(children, exprSegments(body, wordType)...)
	cl := segment.New(typ, children...)
	return cl, nil
}

// exprSegments tags expression tokens, grouping dotted word runs into
// column or table references and detecting wildcard expressions.
func exprSegments(toks []tok, refType string) []*segment.Segment {
	// Wildcard pattern: "*" or "t.*" (ignoring surrounding trivia).
	if star, rest := matchWildcard(toks); star != nil {
		var out []*segment.Segment
		for _, t := range rest.before {
			out = append(out, leaf(t, refType))
		}
		out = append(out, star)
		for _, t := range rest.after {
			out = append(out, leaf(t, refType))
		}
		return out
	}

	var out []*segment.Segment
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.kind == tokWord && !isKeyword(t.literal) && !isDataType(t.literal) {
			// Absorb a dotted run: word (.word)*
			run := []*segment.Segment{leaf(t, refType)}
			for i+2 < len(toks) && toks[i+1].kind == tokDot && toks[i+2].kind == tokWord {
				run = append(run, leaf(toks[i+1], refType), leaf(toks[i+2], refType))
				i += 2
			}
			if len(run) > 1 {
				out = append(out, segment.New(refType, run...))
			} else {
				out = append(out, run[0])
			}
			continue
		}
		out = append(out, leaf(t, refType))
	}
	return out
}

type wildcardRest struct {
	before, after []tok
}

// matchWildcard recognizes a select target that is exactly a wildcard:
// "*" or "qualifier.*", with optional surrounding trivia.
func matchWildcard(toks []tok) (*segment.Segment, wildcardRest) {
	var code []tok
	var codeIdx []int
	for i, t := range toks {
		if !isTrivia(t) {
			code = append(code, t)
			codeIdx = append(codeIdx, i)
		}
	}

	ok := false
	switch len(code) {
	case 1:
		ok = code[0].kind == tokStar
	case 3:
		ok = code[0].kind == tokWord && code[1].kind == tokDot && code[2].kind == tokStar
	}
	if !ok {
		return nil, wildcardRest{}
	}

	var leaves []*segment.Segment
	for _, t := range code {
		leaves = append(leaves, leaf(t, segment.TypeColumnReference))
	}
	wc := segment.New(segment.TypeWildcardExpression, leaves...)
	return wc, wildcardRest{
		before: toks[:codeIdx[0]],
		after:  toks[codeIdx[len(codeIdx)-1]+1:],
	}
}

func popTrailingTrivia(children *[]*segment.Segment) []*segment.Segment {
	cs := *children
	cut := len(cs)
	for cut > 0 && cs[cut-1].IsType(segment.TypeWhitespace, segment.TypeNewline, segment.TypeComment) {
		cut--
	}
	trailing := cs[cut:]
	*children = cs[:cut]
	return trailing
}

func isTrivia(t tok) bool {
	return t.kind == tokWhitespace || t.kind == tokNewline || t.kind == tokComment
}
