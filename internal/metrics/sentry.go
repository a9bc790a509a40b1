package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	// HTTP status code threshold for considering a request successful
	successStatusCodeThreshold = http.StatusBadRequest
)

// SentryMetrics handles custom metrics for Sentry
type SentryMetrics struct {
	enabled bool
}

// NewSentryMetrics creates a new Sentry metrics client
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{
		enabled: true, // Always enabled if Sentry is configured
	}
}

// RecordAPIRequest records API request metrics
func (m *SentryMetrics) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "api.request")
	defer span.Finish()

	span.SetTag("endpoint", endpoint)
	span.SetTag("status_code", fmt.Sprintf("%d", statusCode))
	span.SetTag("success", fmt.Sprintf("%t", statusCode < successStatusCodeThreshold))

	span.SetData("duration_ms", duration.Milliseconds())
	span.SetData("endpoint", endpoint)
	span.SetData("status_code", statusCode)

	if statusCode < successStatusCodeThreshold {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}

	span.Description = fmt.Sprintf("API Request: %s", endpoint)
}

// RecordGeneration attaches the composition result to the request transaction
// and records a child span with the score axes
func (m *SentryMetrics) RecordGeneration(ctx context.Context, g Generation) {
	if !m.enabled {
		return
	}

	if transaction := sentry.TransactionFromContext(ctx); transaction != nil {
		transaction.SetTag("melody.scale", g.Scale)
		transaction.SetTag("melody.shape", g.Shape)
		transaction.SetTag("melody.refined", fmt.Sprintf("%t", g.Refined))
		transaction.SetData("melody.notes", g.Notes)
		transaction.SetData("melody.overall", g.Overall)
	}

	span := sentry.StartSpan(ctx, "melody.compose")
	defer span.Finish()

	span.SetTag("scale", g.Scale)
	span.SetTag("shape", g.Shape)
	span.SetTag("refined", fmt.Sprintf("%t", g.Refined))
	span.SetData("notes", g.Notes)
	span.SetData("duration_ms", g.Duration.Milliseconds())
	for axis, value := range g.Axes() {
		span.SetData("score."+axis, value)
	}

	span.Status = sentry.SpanStatusOK
	span.Description = fmt.Sprintf("Compose: %s %s", g.Scale, g.Shape)
}
