// Package reflow rearranges trivia around code points in a syntax tree.
// It inspects a point's sibling run and describes the edits needed to
// move line breaks to the configured side, leaving indentation alone.
package reflow

import (
	"github.com/sqlint-dev/sqlint/pkg/lint"
	"github.com/sqlint-dev/sqlint/pkg/segment"
	"github.com/sqlint-dev/sqlint/pkg/token"
)

// Sequence is a reflow window: one target code segment together with its
// sibling run inside the immediate parent.
type Sequence struct {
	target   *segment.Segment
	siblings []*segment.Segment
	idx      int
}

// FromAroundTarget builds a Sequence around target using the ancestor
// path a rule evaluation received. Returns nil when the target has no
// parent or cannot be located among its siblings.
func FromAroundTarget(target *segment.Segment, parents []*segment.Segment) *Sequence {
	if len(parents) == 0 {
		return nil
	}
	parent := parents[len(parents)-1]
	for i, sib := range parent.Children() {
		if sib == target {
			return &Sequence{target: target, siblings: parent.Children(), idx: i}
		}
	}
	return nil
}

// Rebreak checks which side of the target the nearest line break sits on
// and, when it is on the wrong side for the policy, returns a result that
// relocates the target across the break. Policy is "after" (the target
// belongs after the line break, starting the next line) or "before" (the
// target belongs before it, ending the current line).
func (s *Sequence) Rebreak(policy string) []lint.Result {
	prevCode, prevTrivia := s.scanBack()
	nextCode, nextTrivia := s.scanForward()
	if prevCode == nil || nextCode == nil {
		return nil
	}

	switch policy {
	case "after":
		if !hasNewline(nextTrivia) {
			return nil
		}
		fixes := []lint.Fix{}
		for i := s.idx - 1; i >= 0; i-- {
			sib := s.siblings[i]
			if !sib.IsType(segment.TypeWhitespace) {
				break
			}
			fixes = append(fixes, lint.Delete(sib))
		}
		fixes = append(fixes,
			lint.Delete(s.target),
			lint.CreateBefore(nextCode, detach(s.target), segment.Whitespace(" ")),
		)
		return []lint.Result{{
			Anchor:      s.target,
			Description: "Operators near newlines should be after, not before the newline",
			Fixes:       fixes,
		}}

	case "before":
		if !hasNewline(prevTrivia) {
			return nil
		}
		fixes := []lint.Fix{}
		for i := s.idx + 1; i < len(s.siblings); i++ {
			sib := s.siblings[i]
			if !sib.IsType(segment.TypeWhitespace) {
				break
			}
			fixes = append(fixes, lint.Delete(sib))
		}
		fixes = append(fixes,
			lint.Delete(s.target),
			lint.CreateAfter(prevCode, segment.Whitespace(" "), detach(s.target)),
		)
		return []lint.Result{{
			Anchor:      s.target,
			Description: "Operators near newlines should be before, not after the newline",
			Fixes:       fixes,
		}}
	}
	return nil
}

// scanBack walks from the target towards the start of the sibling run,
// returning the nearest code sibling and the trivia in between.
func (s *Sequence) scanBack() (*segment.Segment, []*segment.Segment) {
	var trivia []*segment.Segment
	for i := s.idx - 1; i >= 0; i-- {
		sib := s.siblings[i]
		if isTrivia(sib) {
			trivia = append(trivia, sib)
			continue
		}
		return sib, trivia
	}
	return nil, trivia
}

func (s *Sequence) scanForward() (*segment.Segment, []*segment.Segment) {
	var trivia []*segment.Segment
	for i := s.idx + 1; i < len(s.siblings); i++ {
		sib := s.siblings[i]
		if isTrivia(sib) {
			trivia = append(trivia, sib)
			continue
		}
		return sib, trivia
	}
	return nil, trivia
}

func isTrivia(seg *segment.Segment) bool {
	return seg.IsType(segment.TypeWhitespace, segment.TypeNewline, segment.TypeComment)
}

func hasNewline(trivia []*segment.Segment) bool {
	for _, t := range trivia {
		if t.IsType(segment.TypeNewline) {
			return true
		}
	}
	return false
}

// detach copies a leaf into unpositioned edit material so the original
// segment's identity stays bound to its delete fix.
func detach(seg *segment.Segment) *segment.Segment {
	return segment.NewRaw(seg.Type(), seg.Raw(), token.Marker{})
}
