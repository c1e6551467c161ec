package keyword

import (
	"fmt"
	"unicode"
)

// Classifier decides whether a term is written in the configured native
// script, or is a Roman/Latin transliteration. The native script is a unicode
// range table, so the same classifier works for Devanagari, Bengali, Tamil,
// etc without code changes.
type Classifier struct {
	native *unicode.RangeTable
}

func NewClassifier(native *unicode.RangeTable) *Classifier {
	return &Classifier{native: native}
}

// NewClassifierForScript looks the script up by unicode name ("Devanagari",
// "Bengali", ...), as listed in unicode.Scripts.
func NewClassifierForScript(name string) (*Classifier, error) {
	rt, ok := unicode.Scripts[name]
	if !ok {
		return nil, fmt.Errorf("unknown unicode script name: %s", name)
	}
	return &Classifier{native: rt}, nil
}

// IsNative reports whether any rune of the term falls in the native script
// range. Terms with no native-script runes at all are Roman transliterations.
func (c *Classifier) IsNative(term string) bool {
	for _, r := range term {
		if unicode.Is(c.native, r) {
			return true
		}
	}
	return false
}
