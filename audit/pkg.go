package audit

import (
	"github.com/bulletin-labs/prahari/audit/countstore"
	"github.com/bulletin-labs/prahari/audit/engine"
)

type Engine = engine.Engine
type EngineConfig = engine.EngineConfig
type Verdict = engine.Verdict
type Attempt = engine.Attempt
type Report = engine.Report
type ContentItem = engine.ContentItem

type ContentType = engine.ContentType
type Status = engine.Status
type State = engine.State

type Notifier = engine.Notifier
type SlackNotifier = engine.SlackNotifier
type Transcriber = engine.Transcriber
type Synthesizer = engine.Synthesizer

var (
	ContentSummary         = engine.ContentSummary
	ContentAudioTranscript = engine.ContentAudioTranscript

	StatusClean   = engine.StatusClean
	StatusFlagged = engine.StatusFlagged

	StateClean             = engine.StateClean
	StateRemediationFailed = engine.StateRemediationFailed

	ErrUnsupportedContentType = engine.ErrUnsupportedContentType
	ErrRemediationFailed      = engine.ErrRemediationFailed

	PeriodTotal = countstore.PeriodTotal
	PeriodDay   = countstore.PeriodDay
	PeriodHour  = countstore.PeriodHour
)
