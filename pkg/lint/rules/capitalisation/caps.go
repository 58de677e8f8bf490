// Package capitalisation holds the case-consistency rules. The detection
// engine is shared: each rule feeds the segments it cares about through
// handleSegment with its own policy options.
package capitalisation

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sqlint-dev/sqlint/pkg/lint"
	"github.com/sqlint-dev/sqlint/pkg/segment"
)

// policyOrder lists the concrete policies a "consistent" setting may
// settle on, in preference order. The first policy not yet refuted by the
// segments seen so far is remembered as the current best guess.
var (
	basicPolicies    = []string{"upper", "lower", "capitalise"}
	extendedPolicies = []string{"upper", "lower", "pascal", "capitalise"}
)

var titleCaser = cases.Title(language.English)

// capsConfig is the per-rule slice of configuration the shared engine
// needs.
type capsConfig struct {
	policy      string
	policyOpts  []string
	ignoreWords []string
	descElem    string
}

func newCapsConfig(ctx *lint.Context, policyKey, descElem string, opts []string) capsConfig {
	ignore := lint.SplitCommaSeparated(
		strings.ToLower(lint.GetStringOption(ctx.Config, "ignore_words", "")))
	return capsConfig{
		policy:      lint.GetStringOption(ctx.Config, policyKey, "consistent"),
		policyOpts:  opts,
		ignoreWords: ignore,
		descElem:    descElem,
	}
}

// handleSegment runs the consistency check for one raw segment, recording
// refuted cases in the rule's memory. It returns nil when the segment is
// fine (or ignored) and a result carrying a replace fix otherwise.
func handleSegment(seg *segment.Segment, memory map[string]any, cfg capsConfig) *lint.Result {
	raw := seg.Raw()
	if raw == "" {
		return nil
	}
	if containsFold(cfg.ignoreWords, raw) {
		return nil
	}

	firstLower, found := firstCapitalizableIsLower(raw)
	if !found {
		// Nothing with distinct cases, so the segment can neither
		// violate nor refute any policy.
		return nil
	}

	refuted := refutedCases(memory)
	if firstLower {
		refuted["upper"] = true
		refuted["capitalise"] = true
		refuted["pascal"] = true
		if raw != strings.ToLower(raw) {
			refuted["lower"] = true
		}
	} else {
		refuted["lower"] = true
		if raw != strings.ToUpper(raw) {
			refuted["upper"] = true
		}
		if raw != capitalise(raw) {
			refuted["capitalise"] = true
		}
		if !isAlnum(raw) {
			refuted["pascal"] = true
		}
	}

	var concrete string
	if cfg.policy == "consistent" {
		var possible []string
		for _, p := range cfg.policyOpts {
			if !refuted[p] {
				possible = append(possible, p)
			}
		}
		if len(possible) > 0 {
			memory["latest_possible_case"] = possible[0]
			return nil
		}
		concrete = "upper"
		if latest, ok := memory["latest_possible_case"].(string); ok {
			concrete = latest
		}
	} else {
		if !refuted[cfg.policy] {
			return nil
		}
		concrete = cfg.policy
	}

	fixed := raw
	switch concrete {
	case "upper":
		fixed = strings.ToUpper(raw)
	case "lower":
		fixed = strings.ToLower(raw)
	case "capitalise":
		fixed = capitalise(raw)
	case "pascal":
		fixed = pascalise(raw)
	}
	if fixed == raw {
		return nil
	}

	consistency := ""
	if cfg.policy == "consistent" {
		consistency = "consistently "
	}
	var policyText string
	switch concrete {
	case "upper", "lower":
		policyText = concrete + " case."
	case "capitalise":
		policyText = "capitalised."
	case "pascal":
		policyText = "pascal case."
	}

	edited := segment.NewRaw(seg.Type(), fixed, seg.Marker())
	return &lint.Result{
		Anchor:      seg,
		Description: fmt.Sprintf("%s must be %s%s", cfg.descElem, consistency, policyText),
		Fixes:       []lint.Fix{lint.Replace(seg, edited)},
	}
}

func refutedCases(memory map[string]any) map[string]bool {
	if r, ok := memory["refuted_cases"].(map[string]bool); ok {
		return r
	}
	r := make(map[string]bool)
	memory["refuted_cases"] = r
	return r
}

// firstCapitalizableIsLower finds the first rune with distinct upper and
// lower forms and reports whether it is lower case.
func firstCapitalizableIsLower(raw string) (lower, found bool) {
	for _, r := range raw {
		if unicode.ToLower(r) == unicode.ToUpper(r) {
			continue
		}
		return r != unicode.ToUpper(r), true
	}
	return false, false
}

// capitalise upper-cases the first letter and lower-cases the rest,
// matching the "capitalise" policy.
func capitalise(s string) string {
	return titleCaser.String(strings.ToLower(s))
}

// pascalise upper-cases the first letter of every alphanumeric run,
// leaving other letters alone so existing PascalCase survives.
func pascalise(s string) string {
	out := []rune(s)
	prevAlnum := false
	for i, r := range out {
		alnum := unicode.IsLetter(r) || unicode.IsDigit(r)
		if alnum && !prevAlnum {
			out[i] = unicode.ToUpper(r)
		}
		prevAlnum = alnum
	}
	return string(out)
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
