package layout

import (
	"strings"

	"github.com/sqlint-dev/sqlint/pkg/lint"
	"github.com/sqlint-dev/sqlint/pkg/segment"
	"github.com/sqlint-dev/sqlint/pkg/token"
)

func init() {
	lint.Register(lint.RuleDef{
		Code:        "L036",
		Name:        "layout.select_targets",
		Description: "Select targets should be on a new line unless there is only one select target.",
		Groups:      []string{"all", "layout"},
		Aliases:     []string{"LT09"},
		Crawl:       lint.SegmentSeeker(segment.TypeSelectClause),
		Eval:        evalSelectTargets,
	})
}

// selectTargetsInfo captures the indexes of the interesting children of a
// select clause: the SELECT keyword, the first newline and whitespace, and
// the select targets themselves.
type selectTargetsInfo struct {
	selectIdx          int
	firstNewLineIdx    int
	firstTargetIdx     int
	firstWhitespaceIdx int
	targets            []*segment.Segment
}

func evalSelectTargets(ctx *lint.Context) ([]lint.Result, error) {
	info := getIndexes(ctx.Segment)
	switch {
	case len(info.targets) == 1:
		return evalSingleTarget(info, ctx.Segment, ctx.ParentStack), nil
	case len(info.targets) > 1:
		return evalMultipleTargets(info, ctx.Segment), nil
	}
	return nil, nil
}

func getIndexes(clause *segment.Segment) selectTargetsInfo {
	info := selectTargetsInfo{
		selectIdx:          -1,
		firstNewLineIdx:    -1,
		firstTargetIdx:     -1,
		firstWhitespaceIdx: -1,
	}
	for i, child := range clause.Children() {
		if child.IsType(segment.TypeSelectClauseElem) {
			info.targets = append(info.targets, child)
			if info.firstTargetIdx == -1 {
				info.firstTargetIdx = i
			}
		}
		if child.IsType(segment.TypeKeyword) &&
			strings.EqualFold(child.Raw(), "SELECT") && info.selectIdx == -1 {
			info.selectIdx = i
		}
		if child.IsType(segment.TypeNewline) && info.firstNewLineIdx == -1 {
			info.firstNewLineIdx = i
		}
		// Ignore whitespace prior to the first newline, e.g. trailing
		// whitespace on the SELECT line itself.
		if child.IsType(segment.TypeWhitespace) &&
			info.firstNewLineIdx != -1 && info.firstWhitespaceIdx == -1 {
			info.firstWhitespaceIdx = i
		}
	}
	return info
}

// evalSingleTarget moves a lone select target up onto the SELECT line.
// Wildcard targets are exempt: "select *" on its own line is common style
// and rewriting it adds nothing.
func evalSingleTarget(info selectTargetsInfo, clause *segment.Segment, parents []*segment.Segment) []lint.Result {
	for _, child := range clause.Children() {
		if !child.IsType(segment.TypeSelectClauseElem) {
			continue
		}
		for _, sub := range child.Children() {
			if sub.IsType(segment.TypeWildcardExpression) {
				return nil
			}
		}
	}

	if !(info.selectIdx < info.firstNewLineIdx && info.firstNewLineIdx < info.firstTargetIdx) {
		return nil
	}

	children := clause.Children()
	target := children[info.firstTargetIdx]
	insert := []*segment.Segment{
		segment.Whitespace(" "),
		segment.NewRaw(target.Type(), target.Raw(), token.Marker{}),
		segment.Newline(),
	}
	fixes := []lint.Fix{
		lint.Replace(children[info.firstNewLineIdx], insert...),
		lint.Delete(target),
	}

	// If the clause is immediately followed by a newline in the parent
	// statement, deleting it avoids leaving an empty line behind.
	if len(parents) > 0 {
		parent := parents[len(parents)-1]
		if parent.IsType(segment.TypeSelectStatement) {
			siblings := parent.Children()
			for i, sib := range siblings {
				if sib != clause {
					continue
				}
				if i+1 < len(siblings) && siblings[i+1].IsType(segment.TypeNewline) {
					fixes = append(fixes, lint.Delete(siblings[i+1]))
				}
				break
			}
		}
	}

	return []lint.Result{{Anchor: clause, Fixes: fixes}}
}

// evalMultipleTargets puts each of several select targets on its own line
// when the clause has no line breaks at all.
func evalMultipleTargets(info selectTargetsInfo, clause *segment.Segment) []lint.Result {
	if info.firstNewLineIdx != -1 {
		return nil
	}

	var fixes []lint.Fix
	children := clause.Children()
	for i, target := range info.targets {
		boundary := children[info.selectIdx]
		if i > 0 {
			boundary = info.targets[i-1]
		}
		for _, ws := range whitespaceAfter(children, boundary) {
			fixes = append(fixes, lint.Delete(ws))
		}
		fixes = append(fixes, lint.CreateBefore(target, segment.Newline()))
	}
	return []lint.Result{{Anchor: clause, Fixes: fixes}}
}

// whitespaceAfter collects whitespace children following start, scanning
// only while the run consists of whitespace and commas.
func whitespaceAfter(children []*segment.Segment, start *segment.Segment) []*segment.Segment {
	var out []*segment.Segment
	seen := false
	for _, child := range children {
		if !seen {
			seen = child == start
			continue
		}
		if child.IsType(segment.TypeWhitespace) {
			out = append(out, child)
			continue
		}
		if child.IsType(segment.TypeComma) {
			continue
		}
		break
	}
	return out
}
