package keyword

import (
	"log/slog"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText canonicalizes unicode text to NFC form, so that composed and
// decomposed spellings of the same native-script syllable compare equal.
// Lexicon surfaces and audited text both go through this, which is what makes
// containment matching on conjunct/matra sequences reliable.
func NormalizeText(text string) string {
	out, _, err := transform.String(norm.NFC, text)
	if err != nil {
		slog.Warn("unicode normalization error", "err", err)
		return text
	}
	return out
}
