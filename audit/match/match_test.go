package match

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/bulletin-labs/prahari/audit/lexicon"
)

func testLexicon(t *testing.T) *lexicon.Lexicon {
	t.Helper()
	lex, err := lexicon.ParseConfig([]byte(`{
		"categories": [
			{"name": "profanity", "severity": "high", "terms": [
				{"surface": "गाली"}
			]},
			{"name": "casual", "severity": "low", "terms": [
				{"surface": "yaar", "replacement": "mitra"},
				{"surface": "cool"},
				{"surface": "यार", "replacement": "मित्र"}
			]}
		]
	}`))
	assert.NoError(t, err)
	return lex
}

func TestScanCleanText(t *testing.T) {
	assert := assert.New(t)
	lex := testLexicon(t)

	assert.Empty(Scan("", lex))
	assert.Empty(Scan("रायपुर में आज मुख्य समाचार", lex))
	assert.Empty(Scan("a perfectly ordinary sentence", lex))
	assert.Empty(Scan("anything", nil))
}

func TestScanNativeContainment(t *testing.T) {
	assert := assert.New(t)
	lex := testLexicon(t)

	// embedded inside a longer word still matches
	spans := Scan("उसने गालीगलौज शुरू कर दी", lex)
	assert.Len(spans, 1)
	assert.Equal("गाली", spans[0].Surface)
	assert.Equal("profanity", spans[0].Category)
	assert.Equal(lexicon.SeverityHigh, spans[0].Severity)

	// all occurrences reported, not just the first
	spans = Scan("गाली और फिर गाली", lex)
	assert.Len(spans, 2)
	assert.Less(spans[0].Start, spans[1].Start)
}

func TestScanRomanWordBoundary(t *testing.T) {
	assert := assert.New(t)
	lex := testLexicon(t)

	// strict substring of a longer word must not match
	assert.Empty(Scan("the cooling system failed", lex))

	spans := Scan("that was cool, honestly", lex)
	assert.Len(spans, 1)
	assert.Equal("cool", spans[0].Surface)

	// case-insensitive, surface form reported in configured case
	spans = Scan("COOL stuff", lex)
	assert.Len(spans, 1)
	assert.Equal("cool", spans[0].Surface)
	assert.Equal(0, spans[0].Start)
	assert.Equal(4, spans[0].End)

	// digits and punctuation are boundaries
	spans = Scan("cool123 (cool)", lex)
	assert.Len(spans, 2)

	// native-script neighbors are letters, so no boundary
	assert.Empty(Scan("भयcoolनक", lex))
}

func TestScanOrderingDeterminism(t *testing.T) {
	assert := assert.New(t)
	lex := testLexicon(t)

	text := "यार yaar गाली"
	first := Scan(text, lex)
	assert.Len(first, 3)
	// ascending start offsets
	for i := 1; i < len(first); i++ {
		assert.LessOrEqual(first[i-1].Start, first[i].Start)
	}
	for i := 0; i < 10; i++ {
		assert.Equal(first, Scan(text, lex))
	}
}

func TestScanTieBreakByDeclarationOrder(t *testing.T) {
	assert := assert.New(t)

	// same surface in two categories: both report, config order preserved
	lex, err := lexicon.ParseConfig([]byte(`{
		"categories": [
			{"name": "second", "severity": "medium", "terms": [{"surface": "saala"}]},
			{"name": "first", "severity": "low", "terms": [{"surface": "saala"}]}
		]
	}`))
	assert.NoError(err)

	spans := Scan("saala", lex)
	assert.Len(spans, 2)
	assert.Equal("second", spans[0].Category)
	assert.Equal("first", spans[1].Category)
	assert.Equal(spans[0].Start, spans[1].Start)
}

func TestScanOffsetsAreRuneAligned(t *testing.T) {
	assert := assert.New(t)
	lex := testLexicon(t)

	text := "खबर यार की yaar वाली"
	spans := Scan(text, lex)
	assert.Len(spans, 2)
	for _, sp := range spans {
		assert.Less(sp.Start, sp.End)
		assert.GreaterOrEqual(sp.Start, 0)
		assert.LessOrEqual(sp.End, len(text))
		r, _ := utf8.DecodeRuneInString(text[sp.Start:])
		assert.NotEqual(utf8.RuneError, r)
		assert.True(utf8.RuneStart(text[sp.Start]))
		if sp.End < len(text) {
			assert.True(utf8.RuneStart(text[sp.End]))
		}
	}
}

func TestScanOverlapAcrossTerms(t *testing.T) {
	assert := assert.New(t)

	lex, err := lexicon.ParseConfig([]byte(`{
		"categories": [
			{"name": "a", "severity": "low", "terms": [{"surface": "गाली"}]},
			{"name": "b", "severity": "low", "terms": [{"surface": "लीग"}]}
		]
	}`))
	assert.NoError(err)

	// overlapping spans across different terms are all reported
	spans := Scan("गालीग", lex)
	assert.Len(spans, 2)
	assert.Equal("a", spans[0].Category)
	assert.Equal("b", spans[1].Category)
	assert.Greater(spans[1].Start, spans[0].Start)
	assert.Less(spans[1].Start, spans[0].End)
}
