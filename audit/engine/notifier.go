package engine

import (
	"context"
)

// Interface for a type that can deliver audit reports to a human-facing
// channel. The engine hands over structured data only; rendering is the
// notifier's concern.
type Notifier interface {
	SendReport(ctx context.Context, report *Report) error
}

// Transcriber is the external speech-to-text collaborator. Language and
// model selection are its concern, not the audit core's.
type Transcriber interface {
	Transcribe(ctx context.Context, contentID string) (string, error)
}

// Synthesizer is the external text-to-speech collaborator. The orchestrator
// never touches audio bytes; a clean transcript verdict is only a signal
// that the text is safe to (re)synthesize.
type Synthesizer interface {
	Synthesize(ctx context.Context, contentID string, text string) error
}
