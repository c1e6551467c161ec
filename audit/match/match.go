package match

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bulletin-labs/prahari/audit/lexicon"
)

// Span is one occurrence of a lexicon term in the scanned text. Start and End
// are byte offsets into the text, always on rune boundaries. Surface is the
// term's configured surface form, not the matched slice (the two can differ
// in case for Roman terms).
type Span struct {
	Category string           `json:"category"`
	Severity lexicon.Severity `json:"severity"`
	Surface  string           `json:"surface"`
	Start    int              `json:"start"`
	End      int              `json:"end"`
}

// Scan finds every occurrence of every lexicon term in text.
//
// Native-script terms match by plain containment: compound and inflected
// forms in the native script do not tokenize reliably on whitespace, so a hit
// inside a longer word is deliberate policy, not a bug. Roman terms match
// case-insensitively and only on token boundaries (flanked by non-letter
// runes or the text edges), so a short transliteration does not fire inside
// an unrelated longer word.
//
// Output is ordered by ascending start offset; ties keep category declaration
// order. For a fixed (text, lexicon) pair the output is identical across
// calls, which remediation and the tests rely on.
func Scan(text string, lex *lexicon.Lexicon) []Span {
	if text == "" || lex == nil {
		return nil
	}
	var spans []Span
	terms := lex.Terms()
	for i := range terms {
		term := &terms[i]
		if term.Script == lexicon.ScriptNative {
			spans = append(spans, containmentSpans(text, term)...)
		} else {
			spans = append(spans, boundarySpans(text, term)...)
		}
	}
	// stable sort preserves term declaration order for equal offsets
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].Start < spans[j].Start
	})
	return spans
}

// every substring occurrence, non-overlapping with itself
func containmentSpans(text string, term *lexicon.Term) []Span {
	var out []Span
	for off := 0; off < len(text); {
		idx := strings.Index(text[off:], term.Surface)
		if idx < 0 {
			break
		}
		start := off + idx
		end := start + len(term.Surface)
		out = append(out, Span{
			Category: term.Category,
			Severity: term.Severity,
			Surface:  term.Surface,
			Start:    start,
			End:      end,
		})
		off = end
	}
	return out
}

// every case-insensitive occurrence flanked by non-letter runes or text edges
func boundarySpans(text string, term *lexicon.Term) []Span {
	var out []Span
	for _, loc := range term.Pattern().FindAllStringIndex(text, -1) {
		if !onTokenBoundary(text, loc[0], loc[1]) {
			continue
		}
		out = append(out, Span{
			Category: term.Category,
			Severity: term.Severity,
			Surface:  term.Surface,
			Start:    loc[0],
			End:      loc[1],
		})
	}
	return out
}

// boundary = any non-letter rune (digits and punctuation included) or edge
func onTokenBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if unicode.IsLetter(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
