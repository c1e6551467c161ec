package lexicon

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Severity tier of a lexicon term. The zero value means "none" and is only
// used on clean verdicts; configured terms are always Low, Medium, or High.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return "none"
	}
}

func ParseSeverity(raw string) (Severity, error) {
	switch raw {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	default:
		return SeverityNone, fmt.Errorf("unknown severity: %q", raw)
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == "none" {
		*s = SeverityNone
		return nil
	}
	sev, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// Script tags which matching strategy applies to a term: containment for the
// native script, word-boundary for Roman transliterations.
type Script int

const (
	ScriptRoman Script = iota
	ScriptNative
)

func (s Script) String() string {
	if s == ScriptNative {
		return "native"
	}
	return "roman"
}

// A single prohibited term. Script is derived at load time by the script
// classifier, never configured by hand. Replacement is empty for terms whose
// occurrences should be excised rather than softened.
type Term struct {
	Category    string
	Script      Script
	Surface     string
	Severity    Severity
	Replacement string

	// compiled case-insensitive pattern, Roman terms only
	pattern *regexp.Regexp
}

// Pattern returns the compiled case-insensitive regexp for a Roman term, or
// nil for native-script terms (which match by plain containment).
func (t *Term) Pattern() *regexp.Regexp {
	return t.pattern
}

// Lexicon is an immutable snapshot of the prohibited-term configuration for
// one audit batch. It is never mutated after Build; hot reload swaps in a
// whole new snapshot, so in-flight audits are unaffected.
type Lexicon struct {
	version    string
	categories []string
	terms      []Term
	byKey      map[string]*Term
	allowed    map[string]bool
	marker     string
}

// Version is a content hash of the source configuration, used for cache keys
// and reload logging.
func (l *Lexicon) Version() string {
	return l.version
}

// Categories in declaration order. Declaration order is the match-ordering
// tie-breaker, so it is load-bearing, not cosmetic.
func (l *Lexicon) Categories() []string {
	return l.categories
}

// Terms in category declaration order. Callers must treat the slice as
// read-only.
func (l *Lexicon) Terms() []Term {
	return l.terms
}

// Marker is the fixed redaction marker substituted (and then stripped) for
// high-severity matches.
func (l *Lexicon) Marker() string {
	return l.marker
}

func termKey(category, surface string) string {
	return category + "\x00" + surface
}

// TermFor looks up the term entry for a (category, surface form) pair.
func (l *Lexicon) TermFor(category, surface string) (*Term, bool) {
	t, ok := l.byKey[termKey(category, surface)]
	return t, ok
}

// AllowedAfterCleaning reports whether a surface form is on the
// allow-after-cleaning exception list, i.e. it may legitimately survive
// remediation (a replacement string can unavoidably contain it).
func (l *Lexicon) AllowedAfterCleaning(surface string) bool {
	return l.allowed[surface]
}
