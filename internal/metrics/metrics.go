package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "issuetracker_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "issuetracker_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	issuesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "issuetracker_issues_created_total",
		Help: "Number of issues filed",
	})

	messagesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "issuetracker_messages_created_total",
		Help: "Number of conversation messages posted",
	})

	attachmentsStored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "issuetracker_attachments_stored_total",
		Help: "Attachment uploads by result",
	}, []string{"result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func IssueCreated() {
	issuesCreated.Inc()
}

func MessageCreated() {
	messagesCreated.Inc()
}

// ObserveAttachment counts an upload as "stored" or "rejected".
func ObserveAttachment(result string) {
	attachmentsStored.WithLabelValues(result).Inc()
}
