package lint

import (
	"github.com/sqlint-dev/sqlint/pkg/segment"
)

// FixOp identifies the kind of structural edit a fix performs.
type FixOp string

// Fix operation kinds.
const (
	OpCreateBefore FixOp = "create_before"
	OpCreateAfter  FixOp = "create_after"
	OpDelete       FixOp = "delete"
	OpReplace      FixOp = "replace"
)

// Fix is a single structural edit: an operation, the anchor segment it
// targets, and (for creation and replacement) the edit segments to insert.
// Anchors are identified by segment identity within one tree snapshot.
type Fix struct {
	Op     FixOp
	Anchor *segment.Segment
	Edits  []*segment.Segment
}

// Delete removes the anchor from its parent.
func Delete(anchor *segment.Segment) Fix {
	return Fix{Op: OpDelete, Anchor: anchor}
}

// Replace substitutes the anchor with one or more edit segments.
func Replace(anchor *segment.Segment, edits ...*segment.Segment) Fix {
	return Fix{Op: OpReplace, Anchor: anchor, Edits: edits}
}

// CreateBefore inserts edit segments as siblings immediately before the
// anchor.
func CreateBefore(anchor *segment.Segment, edits ...*segment.Segment) Fix {
	return Fix{Op: OpCreateBefore, Anchor: anchor, Edits: edits}
}

// CreateAfter inserts edit segments as siblings immediately after the
// anchor.
func CreateAfter(anchor *segment.Segment, edits ...*segment.Segment) Fix {
	return Fix{Op: OpCreateAfter, Anchor: anchor, Edits: edits}
}

// ApplyFixes rebuilds the tree with the given fixes applied. It is a pure
// function over the snapshot: untouched subtrees are shared between the
// old and new tree.
//
// Conflicting fixes are not applied: when two fixes target the same anchor
// the first one (in the given order) wins, and when a fix's anchor sits
// inside a subtree that an earlier fix deleted or replaced it becomes
// unreachable. Both kinds are returned as deferred, to be re-discovered by
// re-running rules against the updated tree.
//
// Position markers on the returned tree are stale; callers reposition it
// before reuse.
func ApplyFixes(root *segment.Segment, fixes []Fix) (newRoot *segment.Segment, applied int, deferred []Fix) {
	if len(fixes) == 0 {
		return root, 0, nil
	}

	byAnchor := make(map[*segment.Segment]Fix, len(fixes))
	for _, f := range fixes {
		if _, ok := byAnchor[f.Anchor]; ok {
			deferred = append(deferred, f)
			continue
		}
		byAnchor[f.Anchor] = f
	}

	consumed := make(map[*segment.Segment]bool, len(byAnchor))
	newRoot = applySegment(root, byAnchor, consumed)

	for _, f := range fixes {
		if got, ok := byAnchor[f.Anchor]; ok && sameFix(got, f) {
			if consumed[f.Anchor] {
				applied++
			} else {
				deferred = append(deferred, f)
			}
		}
	}
	return newRoot, applied, deferred
}

func sameFix(a, b Fix) bool {
	if a.Op != b.Op || a.Anchor != b.Anchor || len(a.Edits) != len(b.Edits) {
		return false
	}
	for i := range a.Edits {
		if a.Edits[i] != b.Edits[i] {
			return false
		}
	}
	return true
}

func applySegment(seg *segment.Segment, byAnchor map[*segment.Segment]Fix, consumed map[*segment.Segment]bool) *segment.Segment {
	if seg.IsLeaf() {
		return seg
	}

	changed := false
	newChildren := make([]*segment.Segment, 0, len(seg.Children()))
	for _, child := range seg.Children() {
		f, ok := byAnchor[child]
		if !ok {
			rebuilt := applySegment(child, byAnchor, consumed)
			if rebuilt != child {
				changed = true
			}
			newChildren = append(newChildren, rebuilt)
			continue
		}

		consumed[child] = true
		changed = true
		switch f.Op {
		case OpDelete:
			// child dropped; fixes anchored beneath it are deferred
		case OpReplace:
			newChildren = append(newChildren, f.Edits...)
		case OpCreateBefore:
			newChildren = append(newChildren, f.Edits...)
			newChildren = append(newChildren, applySegment(child, byAnchor, consumed))
		case OpCreateAfter:
			newChildren = append(newChildren, applySegment(child, byAnchor, consumed))
			newChildren = append(newChildren, f.Edits...)
		}
	}

	if !changed {
		return seg
	}
	return seg.CopyWith(newChildren)
}
