// Package delivery sends log entries to the ingest service with bounded,
// classified retries.
package delivery

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vietddude/logship/internal/core/domain"
	"github.com/vietddude/logship/internal/metrics"
	"github.com/vietddude/logship/internal/payload"
)

// Transport executes one delivery attempt.
type Transport interface {
	Send(ctx context.Context, body []byte, licenseKey string) (statusCode int, err error)
}

// Engine delivers one request at a time through a Transport.
type Engine struct {
	transport Transport
	policy    Policy
}

// NewEngine creates a delivery engine.
func NewEngine(transport Transport, policy Policy) *Engine {
	return &Engine{transport: transport, policy: policy}
}

// Deliver sends one request and returns its terminal result.
// The payload is built once and reused for every attempt.
func (e *Engine) Deliver(
	ctx context.Context,
	req domain.DeliveryRequest,
	cred payload.Credential,
) domain.DeliveryResult {
	log := slog.With(
		"entry_id", uuid.NewString(),
		"request_id", req.Context.RequestID,
		"size", req.Entry.Len(),
	)

	body, err := payload.Build(req)
	if err != nil {
		log.Error("Failed to build payload", "error", err)
		result := domain.DeliveryResult{Status: domain.ResultRejected, Reason: err.Error()}
		metrics.DeliveriesTotal.WithLabelValues(string(result.Status)).Inc()
		return result
	}

	policy := e.policy
	inner := policy.OnAttempt
	policy.OnAttempt = func(state domain.RetryState, outcome domain.AttemptOutcome, wait time.Duration) {
		metrics.AttemptsTotal.WithLabelValues(outcome.Kind.String()).Inc()
		if outcome.Kind.Retryable() {
			log.Warn("Delivery attempt failed",
				"attempt", state.Attempts,
				"outcome", outcome.Kind.String(),
				"status", outcome.StatusCode,
				"reason", outcome.Reason,
			)
			if wait > 0 {
				log.Info("Retrying", "in", wait)
			}
		}
		if inner != nil {
			inner(state, outcome, wait)
		}
	}

	start := time.Now()
	result := policy.Run(ctx, func(ctx context.Context) (int, error) {
		return e.transport.Send(ctx, body, cred.Value())
	})

	metrics.DeliveriesTotal.WithLabelValues(string(result.Status)).Inc()
	metrics.DeliveryLatency.WithLabelValues(string(result.Status)).Observe(time.Since(start).Seconds())

	switch result.Status {
	case domain.ResultDelivered:
		log.Info("Log entry sent", "status", result.Last.StatusCode, "attempts", result.Attempts)
	case domain.ResultRejected:
		log.Error("Log entry rejected",
			"status", result.Last.StatusCode,
			"reason", result.Reason,
		)
	case domain.ResultExhausted:
		log.Error("Retry limit reached, failed to send log entry",
			"attempts", result.Attempts,
			"reason", result.Reason,
		)
	}
	return result
}
