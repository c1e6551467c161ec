package engine

import "errors"

var (
	// ErrUnsupportedContentType is returned when the orchestrator is invoked
	// with a content type it has no policy for, before any scanning happens.
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// ErrRemediationFailed means the cleaned text still matched terms outside
	// the allow-after-cleaning list. Remediation is deterministic, so this is
	// terminal: retrying with identical input cannot converge.
	ErrRemediationFailed = errors.New("remediation failed to converge")
)
