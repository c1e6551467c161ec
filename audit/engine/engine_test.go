package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bulletin-labs/prahari/audit/countstore"
	"github.com/bulletin-labs/prahari/audit/lexicon"
	"github.com/bulletin-labs/prahari/audit/lexstore"
)

func TestEngineAuditClean(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	v, err := eng.Audit(ctx, "bulletin-1", ContentSummary, "रायपुर में आज की मुख्य खबरें")
	assert.NoError(err)
	assert.Equal(StatusClean, v.Status)
	assert.Empty(v.Matches)
	assert.NotEmpty(v.LexiconVersion)

	c, err := eng.Counters.GetCount(ctx, "audited", string(ContentSummary), countstore.PeriodTotal)
	assert.NoError(err)
	assert.Equal(1, c)
}

func TestEngineAuditFlagged(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	v, err := eng.Audit(ctx, "bulletin-2", ContentSummary, "यह shocking खबर है यार")
	assert.NoError(err)
	assert.Equal(StatusFlagged, v.Status)
	assert.Equal(lexicon.SeverityMedium, v.OverallSeverity)
	assert.Equal(map[string]int{"sensational": 1, "casual": 1}, v.CategoryCounts)
	assert.Empty(v.CleanedText)

	c, err := eng.Counters.GetCount(ctx, "flagged", string(ContentSummary), countstore.PeriodTotal)
	assert.NoError(err)
	assert.Equal(1, c)
}

func TestEngineAuditDeterministic(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	text := "यह shocking खबर है यार, cool नहीं"
	first, err := eng.Audit(ctx, "bulletin-3", ContentSummary, text)
	assert.NoError(err)
	for i := 0; i < 5; i++ {
		again, err := eng.Audit(ctx, "bulletin-3", ContentSummary, text)
		assert.NoError(err)
		assert.Equal(first.Matches, again.Matches)
	}
}

func TestEngineAuditUnsupportedContentType(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	_, err := eng.Audit(ctx, "bulletin-4", ContentType("video"), "whatever")
	assert.ErrorIs(err, ErrUnsupportedContentType)
	_, err = eng.ProcessContent(ctx, "bulletin-4", ContentType("video"), "whatever")
	assert.ErrorIs(err, ErrUnsupportedContentType)
	_, err = eng.RemediateIfNeeded(ctx, "bulletin-4", ContentType("video"), "whatever")
	assert.ErrorIs(err, ErrUnsupportedContentType)
}

func TestEngineRemediateIfNeeded(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()

	// clean content passes through untouched
	v, err := eng.RemediateIfNeeded(ctx, "bulletin-5", ContentSummary, "सब कुछ सामान्य है")
	assert.NoError(err)
	assert.Equal(StatusClean, v.Status)
	assert.Empty(v.CleanedText)

	// the lexicon scenario: high native term excised, low Roman replaced
	v, err = eng.RemediateIfNeeded(ctx, "bulletin-6", ContentSummary, "गाली yaar")
	assert.NoError(err)
	assert.Equal(StatusFlagged, v.Status)
	assert.Equal(lexicon.SeverityHigh, v.OverallSeverity)
	assert.Equal("mitra", v.CleanedText)
}

func TestEngineProcessContentStateMachine(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	notifier := &CaptureNotifier{}
	eng.Notifier = notifier

	// clean: single attempt, terminal Clean
	report, err := eng.ProcessContent(ctx, "bulletin-7", ContentSummary, "आज की खबरें")
	assert.NoError(err)
	assert.Equal(StateClean, report.FinalState)
	assert.Len(report.Attempts, 1)
	assert.Empty(report.Verdict.CleanedText)

	// flagged then remediated: two attempts, terminal Clean with cleaned text
	report, err = eng.ProcessContent(ctx, "bulletin-8", ContentSummary, "यह बहुत shocking मामला है")
	assert.NoError(err)
	assert.Equal(StateClean, report.FinalState)
	assert.Len(report.Attempts, 2)
	assert.Equal(StatusFlagged, report.Verdict.Status)
	assert.Equal("यह बहुत चिंताजनक मामला है", report.Verdict.CleanedText)
	assert.Equal(1, report.Attempts[0].Number)
	assert.Equal(2, report.Attempts[1].Number)
	assert.Equal(StatusClean, report.Attempts[1].Verdict.Status)

	assert.Len(notifier.Reports, 2)
}

func TestEngineProcessContentRemediationFailed(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	// a replacement that reintroduces the flagged term cannot converge; the
	// orchestrator must land on the terminal failure state, not loop
	lex, err := lexicon.ParseConfig([]byte(`{
		"categories": [
			{"name": "casual", "severity": "low", "terms": [
				{"surface": "bhai", "replacement": "arre bhai"}
			]}
		]
	}`))
	assert.NoError(err)

	eng := EngineTestFixture()
	eng.Lexicons = lexstore.NewMemLexiconStore(lex)
	notifier := &CaptureNotifier{}
	eng.Notifier = notifier

	report, err := eng.ProcessContent(ctx, "bulletin-9", ContentSummary, "sun bhai")
	assert.NoError(err)
	assert.Equal(StateRemediationFailed, report.FinalState)
	assert.Len(report.Attempts, 2)
	assert.Equal(StatusFlagged, report.Attempts[1].Verdict.Status)
	assert.Empty(report.Verdict.CleanedText)
	assert.Len(notifier.Reports, 1)

	// running the same content again is still a bounded two attempts
	report, err = eng.ProcessContent(ctx, "bulletin-9", ContentSummary, "sun bhai")
	assert.NoError(err)
	assert.Equal(StateRemediationFailed, report.FinalState)
	assert.Len(report.Attempts, 2)
}

func TestEngineProcessAudio(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	synth := &CaptureSynthesizer{}
	eng.Synthesizer = synth
	eng.Transcriber = &CannedTranscriber{Transcripts: map[string]string{
		"audio-1": "रायपुर में आज की खबरें",
		"audio-2": "यह बहुत shocking खबर है",
	}}

	// clean transcript: original text handed straight to synthesis
	report, err := eng.ProcessAudio(ctx, "audio-1")
	assert.NoError(err)
	assert.Equal(StateClean, report.FinalState)
	assert.Equal(ContentAudioTranscript, report.ContentType)
	assert.Len(synth.Requests, 1)
	assert.Equal("रायपुर में आज की खबरें", synth.Requests[0].Text)

	// flagged transcript: cleaned text handed to synthesis
	report, err = eng.ProcessAudio(ctx, "audio-2")
	assert.NoError(err)
	assert.Equal(StateClean, report.FinalState)
	assert.Len(synth.Requests, 2)
	assert.Equal("यह बहुत चिंताजनक खबर है", synth.Requests[1].Text)

	// unknown content: transcription error propagates, nothing synthesized
	_, err = eng.ProcessAudio(ctx, "audio-404")
	assert.Error(err)
	assert.Len(synth.Requests, 2)
}

func TestEngineAuditBatch(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	items := make([]ContentItem, 20)
	for i := range items {
		text := "सामान्य खबर"
		if i%3 == 0 {
			text = "यह shocking खबर है"
		}
		items[i] = ContentItem{
			ContentID:   fmt.Sprintf("bulletin-%d", i),
			ContentType: ContentSummary,
			Text:        text,
		}
	}

	reports, err := eng.AuditBatch(ctx, items, 4)
	assert.NoError(err)
	assert.Len(reports, 20)
	for i, report := range reports {
		assert.Equal(items[i].ContentID, report.ContentID)
		assert.Equal(StateClean, report.FinalState)
		if i%3 == 0 {
			assert.Equal(StatusFlagged, report.Verdict.Status)
			assert.NotEmpty(report.Verdict.CleanedText)
		} else {
			assert.Equal(StatusClean, report.Verdict.Status)
		}
	}
}

func TestEngineScanCache(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	text := "यह shocking खबर है"

	first, err := eng.Audit(ctx, "bulletin-10", ContentSummary, text)
	assert.NoError(err)
	// second pass hits the cache; spans must be byte-identical
	second, err := eng.Audit(ctx, "bulletin-11", ContentSummary, text)
	assert.NoError(err)
	assert.Equal(first.Matches, second.Matches)
	assert.Equal(first.LexiconVersion, second.LexiconVersion)
}
