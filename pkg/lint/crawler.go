package lint

import (
	"github.com/sqlint-dev/sqlint/pkg/segment"
)

// CrawlBehaviour decides which segments of a tree a rule is evaluated at.
type CrawlBehaviour interface {
	crawl(root *segment.Segment, visit segment.VisitFunc)
}

// RootOnlyCrawler evaluates a rule exactly once, at the tree root. The
// rule performs its own traversal and gets raw access to the whole tree,
// including unparsable regions.
type RootOnlyCrawler struct{}

func (RootOnlyCrawler) crawl(root *segment.Segment, visit segment.VisitFunc) {
	visit(root, nil)
}

// SegmentSeeker returns a crawl behaviour that evaluates a rule once per
// segment whose type tag is in the given set, in depth-first pre-order.
// Segments inside unparsable regions are never visited.
func SegmentSeeker(types ...string) CrawlBehaviour {
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return segmentSeekerCrawler{types: set}
}

type segmentSeekerCrawler struct {
	types map[string]struct{}
}

func (c segmentSeekerCrawler) crawl(root *segment.Segment, visit segment.VisitFunc) {
	root.RecursiveCrawl(func(seg *segment.Segment, parents []*segment.Segment) bool {
		if seg.IsType(segment.TypeUnparsable) {
			return false
		}
		if _, ok := c.types[seg.Type()]; ok {
			visit(seg, parents)
		}
		return true
	})
}
