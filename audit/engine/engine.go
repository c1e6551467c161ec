package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bulletin-labs/prahari/audit/cachestore"
	"github.com/bulletin-labs/prahari/audit/countstore"
	"github.com/bulletin-labs/prahari/audit/helpers"
	"github.com/bulletin-labs/prahari/audit/keyword"
	"github.com/bulletin-labs/prahari/audit/lexicon"
	"github.com/bulletin-labs/prahari/audit/lexstore"
	"github.com/bulletin-labs/prahari/audit/match"
)

// Runtime for auditing bulletin content: scanning against a lexicon
// snapshot, resolving verdicts, remediating flagged text, and driving the
// regenerate-validate loop for audio transcripts.
//
// Scanning and remediation are pure functions over immutable inputs, so one
// Engine can audit independent content items from many goroutines at once.
// The only shared state lives behind the store interfaces.
type Engine struct {
	Logger   *slog.Logger
	Lexicons lexstore.LexiconStore
	Counters countstore.CountStore
	// optional scan-result cache (nil disables caching)
	Cache cachestore.CacheStore
	// optional alert delivery (nil disables notifications)
	Notifier Notifier
	// external collaborators for audio content (optional for text-only use)
	Transcriber Transcriber
	Synthesizer Synthesizer
	Config      EngineConfig
}

type EngineConfig struct {
	DisableCaching bool
}

func (eng *Engine) logger() *slog.Logger {
	if eng.Logger == nil {
		return slog.Default()
	}
	return eng.Logger
}

func supportedContentType(ctype ContentType) bool {
	switch ctype {
	case ContentSummary, ContentAudioTranscript:
		return true
	}
	return false
}

// Audit scans one piece of content against the current lexicon snapshot and
// returns the verdict. It never modifies text; see RemediateIfNeeded and
// ProcessContent for remediation.
func (eng *Engine) Audit(ctx context.Context, contentID string, ctype ContentType, text string) (*Verdict, error) {
	if !supportedContentType(ctype) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContentType, ctype)
	}
	lex, err := eng.Lexicons.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading lexicon snapshot: %w", err)
	}
	v := eng.auditWith(ctx, lex, contentID, ctype, keyword.NormalizeText(text))
	return &v, nil
}

// auditWith runs one scan pass against a fixed snapshot. All public entry
// points funnel through here, so counters and metrics stay consistent. The
// text must already be normalized.
func (eng *Engine) auditWith(ctx context.Context, lex *lexicon.Lexicon, contentID string, ctype ContentType, text string) Verdict {
	start := time.Now()
	spans := eng.scan(ctx, lex, text)
	v := ResolveVerdict(contentID, ctype, spans)
	v.LexiconVersion = lex.Version()
	auditDuration.WithLabelValues(string(ctype)).Observe(time.Since(start).Seconds())
	eng.recordVerdict(ctx, &v)
	return v
}

// scan consults the result cache before matching. Scan output is fully
// deterministic for a (lexicon version, text) pair, so cached spans are
// exact, including for clean text.
func (eng *Engine) scan(ctx context.Context, lex *lexicon.Lexicon, text string) []match.Span {
	if eng.Cache == nil || eng.Config.DisableCaching {
		return match.Scan(text, lex)
	}
	key := lex.Version() + "/" + helpers.HashOfString(text)
	cached, err := eng.Cache.Get(ctx, "scan", key)
	if err != nil {
		eng.logger().Warn("scan cache read failed", "err", err)
	} else if cached != "" {
		var spans []match.Span
		if err := json.Unmarshal([]byte(cached), &spans); err == nil {
			scanCacheHitCount.Inc()
			return spans
		}
	}

	spans := match.Scan(text, lex)
	out, err := json.Marshal(spans)
	if err == nil {
		if err := eng.Cache.Set(ctx, "scan", key, string(out)); err != nil {
			eng.logger().Warn("scan cache write failed", "err", err)
		}
	}
	return spans
}

func (eng *Engine) recordVerdict(ctx context.Context, v *Verdict) {
	auditCount.WithLabelValues(string(v.ContentType), string(v.Status)).Inc()
	for _, sp := range v.Matches {
		termMatchCount.WithLabelValues(sp.Category, sp.Severity.String()).Inc()
	}
	if eng.Counters == nil {
		return
	}
	if err := eng.Counters.Increment(ctx, "audited", string(v.ContentType)); err != nil {
		eng.logger().Warn("incrementing audit counter failed", "err", err)
	}
	if v.Status != StatusFlagged {
		return
	}
	if err := eng.Counters.Increment(ctx, "flagged", string(v.ContentType)); err != nil {
		eng.logger().Warn("incrementing audit counter failed", "err", err)
	}
	for cat := range v.CategoryCounts {
		if err := eng.Counters.IncrementDistinct(ctx, "flagged-category", cat, v.ContentID); err != nil {
			eng.logger().Warn("incrementing audit counter failed", "err", err)
		}
	}
}

// RemediateIfNeeded audits, and when the verdict is Flagged additionally
// remediates and verifies, returning the verdict with CleanedText set. A
// verdict plus ErrRemediationFailed means manual intervention is required.
func (eng *Engine) RemediateIfNeeded(ctx context.Context, contentID string, ctype ContentType, text string) (*Verdict, error) {
	if !supportedContentType(ctype) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContentType, ctype)
	}
	lex, err := eng.Lexicons.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading lexicon snapshot: %w", err)
	}
	text = keyword.NormalizeText(text)
	v := eng.auditWith(ctx, lex, contentID, ctype, text)
	if v.Status == StatusClean {
		return &v, nil
	}
	cleaned, err := RemediateAndVerify(text, v.Matches, lex)
	if err != nil {
		remediationCount.WithLabelValues("failed").Inc()
		return &v, err
	}
	remediationCount.WithLabelValues("cleaned").Inc()
	v.CleanedText = cleaned
	return &v, nil
}

// ProcessContent drives the full state machine for one content item:
// Pending -> Scanning -> {Clean, Flagged}, and for flagged content
// Remediating -> Rescanning -> {Clean, RemediationFailed}. Exactly one
// remediation pass is attempted; a failed rescan is terminal. The same
// lexicon snapshot is used for every phase, and rescanning runs against the
// cleaned text, strictly after remediation.
func (eng *Engine) ProcessContent(ctx context.Context, contentID string, ctype ContentType, text string) (*Report, error) {
	if !supportedContentType(ctype) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContentType, ctype)
	}
	lex, err := eng.Lexicons.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading lexicon snapshot: %w", err)
	}
	logger := eng.logger().With("contentID", contentID, "contentType", string(ctype))
	text = keyword.NormalizeText(text)

	report := &Report{
		ContentID:   contentID,
		ContentType: ctype,
		FinalState:  StateScanning,
	}
	v := eng.auditWith(ctx, lex, contentID, ctype, text)
	report.addAttempt(v)
	report.Verdict = v
	if v.Status == StatusClean {
		report.FinalState = StateClean
		logger.Info("content audit clean", "lexicon", lex.Version())
		eng.notify(ctx, report)
		return report, nil
	}

	logger.Info("content audit flagged",
		"severity", v.OverallSeverity.String(),
		"matches", len(v.Matches),
		"lexicon", lex.Version())

	report.FinalState = StateRemediating
	cleaned := Remediate(text, v.Matches, lex)

	report.FinalState = StateRescanning
	rescan := eng.auditWith(ctx, lex, contentID, ctype, cleaned)
	report.addAttempt(rescan)

	if remediationConverged(&rescan, lex) {
		report.FinalState = StateClean
		report.Verdict.CleanedText = cleaned
		remediationCount.WithLabelValues("cleaned").Inc()
		if eng.Counters != nil {
			if err := eng.Counters.Increment(ctx, "remediated", string(ctype)); err != nil {
				logger.Warn("incrementing audit counter failed", "err", err)
			}
		}
		logger.Info("content remediated")
	} else {
		report.FinalState = StateRemediationFailed
		remediationCount.WithLabelValues("failed").Inc()
		if eng.Counters != nil {
			if err := eng.Counters.Increment(ctx, "remediation-failed", string(ctype)); err != nil {
				logger.Warn("incrementing audit counter failed", "err", err)
			}
		}
		logger.Warn("content remediation failed, manual review needed")
	}
	eng.notify(ctx, report)
	return report, nil
}

// the rescan may only contain matches from the allow-after-cleaning list
func remediationConverged(rescan *Verdict, lex *lexicon.Lexicon) bool {
	for _, sp := range rescan.Matches {
		if !lex.AllowedAfterCleaning(sp.Surface) {
			return false
		}
	}
	return true
}

// ProcessAudio runs the transcript pipeline for one audio content item:
// fetch the transcript from the transcription collaborator, audit it like
// any text, and on a clean terminal state hand the safe text to the
// synthesis collaborator. Audio bytes are never touched here.
func (eng *Engine) ProcessAudio(ctx context.Context, contentID string) (*Report, error) {
	if eng.Transcriber == nil {
		return nil, fmt.Errorf("no transcription collaborator configured")
	}
	transcript, err := eng.Transcriber.Transcribe(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("transcribing audio content: %w", err)
	}
	report, err := eng.ProcessContent(ctx, contentID, ContentAudioTranscript, transcript)
	if err != nil {
		return nil, err
	}
	if report.FinalState == StateClean && eng.Synthesizer != nil {
		safe := report.Verdict.CleanedText
		if safe == "" {
			safe = keyword.NormalizeText(transcript)
		}
		if err := eng.Synthesizer.Synthesize(ctx, contentID, safe); err != nil {
			return report, fmt.Errorf("requesting audio resynthesis: %w", err)
		}
	}
	return report, nil
}

// ContentItem is one unit of work for batch auditing.
type ContentItem struct {
	ContentID   string      `json:"content_id"`
	ContentType ContentType `json:"content_type"`
	Text        string      `json:"text"`
}

// AuditBatch processes independent content items concurrently, e.g. the
// day's bulletin segments. Results are positionally aligned with items.
func (eng *Engine) AuditBatch(ctx context.Context, items []ContentItem, concurrency int) ([]*Report, error) {
	reports := make([]*Report, len(items))
	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			report, err := eng.ProcessContent(ctx, item.ContentID, item.ContentType, item.Text)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (eng *Engine) notify(ctx context.Context, report *Report) {
	if eng.Notifier == nil {
		return
	}
	if err := eng.Notifier.SendReport(ctx, report); err != nil {
		notifyErrorCount.Inc()
		eng.logger().Warn("sending audit notification failed", "contentID", report.ContentID, "err", err)
	}
}
