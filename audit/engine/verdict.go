package engine

import (
	"time"

	"github.com/bulletin-labs/prahari/audit/lexicon"
	"github.com/bulletin-labs/prahari/audit/match"
)

type ContentType string

const (
	ContentSummary         ContentType = "summary"
	ContentAudioTranscript ContentType = "audio_transcript"
)

type Status string

const (
	StatusClean   Status = "clean"
	StatusFlagged Status = "flagged"
)

// Orchestrator states for one content item. Clean and RemediationFailed are
// terminal.
type State string

const (
	StatePending           State = "pending"
	StateScanning          State = "scanning"
	StateFlagged           State = "flagged"
	StateRemediating       State = "remediating"
	StateRescanning        State = "rescanning"
	StateClean             State = "clean"
	StateRemediationFailed State = "remediation-failed"
)

// Verdict is the outcome of scanning one piece of content against one
// lexicon snapshot. CleanedText is set only when remediation ran.
type Verdict struct {
	ContentID       string           `json:"content_id"`
	ContentType     ContentType      `json:"content_type"`
	Status          Status           `json:"status"`
	Matches         []match.Span     `json:"matches,omitempty"`
	OverallSeverity lexicon.Severity `json:"overall_severity,omitempty"`
	CategoryCounts  map[string]int   `json:"category_counts,omitempty"`
	CleanedText     string           `json:"cleaned_text,omitempty"`
	LexiconVersion  string           `json:"lexicon_version,omitempty"`
}

// Attempt is one orchestrator pass over a content item. Attempts live only
// for the duration of the audit run; retention is the caller's concern.
type Attempt struct {
	ContentID  string    `json:"content_id"`
	Number     int       `json:"attempt_number"`
	Verdict    Verdict   `json:"verdict"`
	ProducedAt time.Time `json:"produced_at"`
}

// Report is the orchestrator's structured output for one content item,
// consumed by external alerting. Verdict is the verdict on the original
// text; Attempts include the rescan of remediated text when one happened.
type Report struct {
	ContentID   string      `json:"content_id"`
	ContentType ContentType `json:"content_type"`
	FinalState  State       `json:"final_state"`
	Verdict     Verdict     `json:"verdict"`
	Attempts    []Attempt   `json:"attempts"`
}

func (r *Report) addAttempt(v Verdict) {
	r.Attempts = append(r.Attempts, Attempt{
		ContentID:  r.ContentID,
		Number:     len(r.Attempts) + 1,
		Verdict:    v,
		ProducedAt: time.Now(),
	})
}

// ResolveVerdict aggregates match spans into a verdict: Clean iff no spans,
// otherwise Flagged with the maximum severity across spans. The per-category
// counts are informational for reporting and never affect status.
func ResolveVerdict(contentID string, ctype ContentType, spans []match.Span) Verdict {
	v := Verdict{
		ContentID:   contentID,
		ContentType: ctype,
		Status:      StatusClean,
	}
	if len(spans) == 0 {
		return v
	}
	v.Status = StatusFlagged
	v.Matches = spans
	v.CategoryCounts = make(map[string]int, len(spans))
	for _, sp := range spans {
		v.CategoryCounts[sp.Category]++
		if sp.Severity > v.OverallSeverity {
			v.OverallSeverity = sp.Severity
		}
	}
	return v
}
