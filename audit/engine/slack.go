package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/bulletin-labs/prahari/util"
)

// SlackNotifier delivers audit reports to a slack channel via "incoming
// webhook". Delivery is rate-limited; reports over the limit are dropped
// rather than queued, since the structured report is also available from the
// audit API and counters.
type SlackNotifier struct {
	WebhookURL string
	Client     *http.Client
	Limiter    *rate.Limiter
}

func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{
		WebhookURL: webhookURL,
		Client:     util.RobustHTTPClient(),
		Limiter:    rate.NewLimiter(rate.Every(time.Second), 10),
	}
}

var _ Notifier = (*SlackNotifier)(nil)

func (n *SlackNotifier) SendReport(ctx context.Context, report *Report) error {
	if !n.Limiter.Allow() {
		return fmt.Errorf("slack notification dropped, rate limit exceeded")
	}
	return n.sendSlackMsg(ctx, slackBody(report))
}

type SlackWebhookBody struct {
	Text string `json:"text"`
}

// Sends a simple slack message to a channel via "incoming webhook".
//
// The slack incoming webhook must be already configured in the slack
// workplace.
func (n *SlackNotifier) sendSlackMsg(ctx context.Context, msg string) error {
	body, err := json.Marshal(SlackWebhookBody{Text: msg})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.WebhookURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")
	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	if resp.StatusCode != 200 || buf.String() != "ok" {
		return fmt.Errorf("failed slack webhook POST request. status=%d", resp.StatusCode)
	}
	return nil
}

func slackBody(report *Report) string {
	var msg string
	switch report.FinalState {
	case StateClean:
		if report.Verdict.CleanedText != "" {
			msg = "⚠️ Content Audit: flagged, cleaned ⚠️\n"
		} else {
			msg = "✅ Content Audit: clean\n"
		}
	case StateRemediationFailed:
		msg = "🚨 Content Audit: remediation failed, manual review needed 🚨\n"
	default:
		msg = fmt.Sprintf("Content Audit: %s\n", report.FinalState)
	}
	msg += fmt.Sprintf("`%s` (%s)\n", report.ContentID, report.ContentType)
	if report.Verdict.Status == StatusFlagged {
		msg += fmt.Sprintf("Severity: `%s`\n", report.Verdict.OverallSeverity)
		cats := make([]string, 0, len(report.Verdict.CategoryCounts))
		for cat := range report.Verdict.CategoryCounts {
			cats = append(cats, cat)
		}
		sort.Strings(cats)
		for _, cat := range cats {
			msg += fmt.Sprintf("Category `%s`: %d\n", cat, report.Verdict.CategoryCounts[cat])
		}
	}
	msg += fmt.Sprintf("Attempts: %d\n", len(report.Attempts))
	return msg
}
