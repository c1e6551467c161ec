package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var auditDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "prahari_audit_duration_sec",
	Help: "Total duration of content audit passes",
}, []string{"type"})

var auditCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "prahari_audits_processed",
	Help: "Number of content audits processed",
}, []string{"type", "status"})

var termMatchCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "prahari_term_matches",
	Help: "Number of lexicon term matches found",
}, []string{"category", "severity"})

var remediationCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "prahari_remediations",
	Help: "Number of remediation passes, by outcome",
}, []string{"outcome"})

var scanCacheHitCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "prahari_scan_cache_hits",
	Help: "Number of scans served from the result cache",
})

var notifyErrorCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "prahari_notification_errors",
	Help: "Number of alert notifications which failed to send",
})
