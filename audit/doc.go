// Content audit engine for news-bulletin text and audio transcripts.
//
// This package (`github.com/bulletin-labs/prahari/audit`) contains a
// deterministic keyword/pattern moderation engine for generated bulletin
// content in two scripts: the configured native script (Devanagari by
// default) matched by containment, and Roman transliterations matched on
// word boundaries. Flagged content is remediated by severity tier (replace,
// or excise for high severity) and re-validated, driving a bounded
// regenerate-validate loop for audio transcripts. Verdicts and per-category
// counts are collected for external alerting; the engine never formats
// human-facing notifications itself.
//
// See `cmd/prahari` for a daemon built on this package.
package audit
