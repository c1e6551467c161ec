package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bulletin-labs/prahari/audit/cachestore"
	"github.com/bulletin-labs/prahari/audit/countstore"
	"github.com/bulletin-labs/prahari/audit/lexicon"
	"github.com/bulletin-labs/prahari/audit/lexstore"
)

const testLexiconJSON = `{
	"redaction_marker": "[सामग्री फ़िल्टर की गई]",
	"allow_after_cleaning": ["mitra"],
	"categories": [
		{"name": "profanity", "severity": "high", "terms": [
			{"surface": "गाली"},
			{"surface": "harami"}
		]},
		{"name": "sensational", "severity": "medium", "terms": [
			{"surface": "सनसनीखेज", "replacement": "महत्वपूर्ण"},
			{"surface": "shocking", "replacement": "चिंताजनक"}
		]},
		{"name": "casual", "severity": "low", "terms": [
			{"surface": "yaar", "replacement": "mitra"},
			{"surface": "यार", "replacement": "मित्र"},
			{"surface": "cool"}
		]}
	]
}`

func MustLoadTestLexicon() *lexicon.Lexicon {
	lex, err := lexicon.ParseConfig([]byte(testLexiconJSON))
	if err != nil {
		panic(err)
	}
	return lex
}

func EngineTestFixture() Engine {
	return Engine{
		Logger:   slog.Default(),
		Lexicons: lexstore.NewMemLexiconStore(MustLoadTestLexicon()),
		Counters: countstore.NewMemCountStore(),
		Cache:    cachestore.NewMemCacheStore(100, time.Hour),
	}
}

// CannedTranscriber serves fixed transcripts by content ID.
type CannedTranscriber struct {
	Transcripts map[string]string
}

func (t *CannedTranscriber) Transcribe(ctx context.Context, contentID string) (string, error) {
	out, ok := t.Transcripts[contentID]
	if !ok {
		return "", fmt.Errorf("no transcript for content: %s", contentID)
	}
	return out, nil
}

// CaptureSynthesizer records synthesis requests for assertions.
type CaptureSynthesizer struct {
	mu       sync.Mutex
	Requests []SynthesisRequest
}

type SynthesisRequest struct {
	ContentID string
	Text      string
}

func (s *CaptureSynthesizer) Synthesize(ctx context.Context, contentID string, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests = append(s.Requests, SynthesisRequest{ContentID: contentID, Text: text})
	return nil
}

// CaptureNotifier records reports handed to the alerting collaborator.
type CaptureNotifier struct {
	mu      sync.Mutex
	Reports []*Report
}

func (n *CaptureNotifier) SendReport(ctx context.Context, report *Report) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Reports = append(n.Reports, report)
	return nil
}
