package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bulletin-labs/prahari/audit/lexicon"
	"github.com/bulletin-labs/prahari/audit/match"
)

func TestResolveVerdictClean(t *testing.T) {
	assert := assert.New(t)

	v := ResolveVerdict("item-1", ContentSummary, nil)
	assert.Equal(StatusClean, v.Status)
	assert.Empty(v.Matches)
	assert.Equal(lexicon.SeverityNone, v.OverallSeverity)
	assert.Nil(v.CategoryCounts)
}

func TestResolveVerdictFlagged(t *testing.T) {
	assert := assert.New(t)

	spans := []match.Span{
		{Category: "casual", Severity: lexicon.SeverityLow, Surface: "yaar", Start: 5, End: 9},
		{Category: "profanity", Severity: lexicon.SeverityHigh, Surface: "गाली", Start: 10, End: 22},
		{Category: "casual", Severity: lexicon.SeverityLow, Surface: "cool", Start: 30, End: 34},
	}
	v := ResolveVerdict("item-2", ContentAudioTranscript, spans)
	assert.Equal(StatusFlagged, v.Status)
	assert.Equal(lexicon.SeverityHigh, v.OverallSeverity)
	assert.Equal(spans, v.Matches)
	assert.Equal(map[string]int{"casual": 2, "profanity": 1}, v.CategoryCounts)
}

func TestResolveVerdictSeverityOrder(t *testing.T) {
	assert := assert.New(t)

	spans := []match.Span{
		{Category: "a", Severity: lexicon.SeverityMedium, Surface: "x", Start: 0, End: 1},
		{Category: "b", Severity: lexicon.SeverityLow, Surface: "y", Start: 2, End: 3},
	}
	v := ResolveVerdict("item-3", ContentSummary, spans)
	assert.Equal(lexicon.SeverityMedium, v.OverallSeverity)
}
