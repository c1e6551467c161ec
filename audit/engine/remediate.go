package engine

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/bulletin-labs/prahari/audit/lexicon"
	"github.com/bulletin-labs/prahari/audit/match"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Remediate produces a cleaned copy of text with every match handled per
// severity policy: high-severity spans are replaced by the redaction marker
// which is then stripped outright (excised, never softened), medium/low spans
// get the term's configured replacement, or removal when none is configured.
//
// Spans are rewritten in descending start order. This is load-bearing:
// offsets were computed against the original text, and rewriting
// right-to-left keeps every yet-unprocessed offset valid. A span overlapping
// an already-rewritten region is skipped; the rescan in RemediateAndVerify
// still catches anything that survives.
//
// Text with no matches comes back byte-identical.
func Remediate(text string, spans []match.Span, lex *lexicon.Lexicon) string {
	if len(spans) == 0 || lex == nil {
		return text
	}

	sorted := slices.Clone(spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start > sorted[j].Start
	})

	out := text
	limit := len(text) // start of the leftmost rewritten region, original offsets
	for _, sp := range sorted {
		if sp.Start < 0 || sp.End > len(text) || sp.Start >= sp.End {
			continue
		}
		if sp.End > limit {
			continue
		}
		out = out[:sp.Start] + replacementFor(sp, lex) + out[sp.End:]
		limit = sp.Start
	}

	// the marker is itself stripped, so high-severity content disappears
	out = strings.ReplaceAll(out, lex.Marker(), " ")
	out = whitespaceRun.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

func replacementFor(sp match.Span, lex *lexicon.Lexicon) string {
	if sp.Severity == lexicon.SeverityHigh {
		return lex.Marker()
	}
	if term, ok := lex.TermFor(sp.Category, sp.Surface); ok && term.Replacement != "" {
		return term.Replacement
	}
	// no replacement configured: remove, whitespace collapse happens after
	return " "
}

// RemediateAndVerify remediates and then re-scans the cleaned text against
// the same lexicon snapshot. The post-condition: the rescan yields no
// matches, or only matches whose surface forms are on the
// allow-after-cleaning exception list. Anything else is
// ErrRemediationFailed — surfaced, never silently retried, because identical
// input through identical logic cannot converge.
func RemediateAndVerify(text string, spans []match.Span, lex *lexicon.Lexicon) (string, error) {
	cleaned := Remediate(text, spans, lex)
	leftover := match.Scan(cleaned, lex)
	for _, sp := range leftover {
		if !lex.AllowedAfterCleaning(sp.Surface) {
			return cleaned, fmt.Errorf("%w: %q still matches after cleaning", ErrRemediationFailed, sp.Surface)
		}
	}
	return cleaned, nil
}
