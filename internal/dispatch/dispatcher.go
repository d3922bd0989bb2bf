// Package dispatch turns one invocation event into log entries and delivers
// them in source order.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vietddude/logship/internal/core/domain"
	"github.com/vietddude/logship/internal/metrics"
	"github.com/vietddude/logship/internal/payload"
	"github.com/vietddude/logship/internal/source"
)

var (
	// ErrEntriesExhausted means at least one entry ran out of retries.
	ErrEntriesExhausted = errors.New("log entries not delivered after retries")
	// ErrEntriesRejected means at least one entry was refused by the ingest service.
	ErrEntriesRejected = errors.New("log entries rejected by ingest service")
)

// ObjectFetcher reads an object from blob storage.
type ObjectFetcher interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
}

// CredentialSource resolves the license key for an invocation.
type CredentialSource interface {
	Resolve(ctx context.Context) (payload.Credential, error)
}

// Deliverer delivers one request to completion.
type Deliverer interface {
	Deliver(ctx context.Context, req domain.DeliveryRequest, cred payload.Credential) domain.DeliveryResult
}

// Report summarises one dispatched invocation.
type Report struct {
	Source    domain.SourceKind `json:"source"`
	Entries   int               `json:"entries"`
	Delivered int               `json:"delivered"`
	Rejected  int               `json:"rejected"`
	Exhausted int               `json:"exhausted"`
}

// Err converts per-entry failures into an invocation error.
// Rejections only count when failOnRejected is set.
func (r Report) Err(failOnRejected bool) error {
	var errs []error
	if r.Exhausted > 0 {
		errs = append(errs, fmt.Errorf("%w: %d of %d", ErrEntriesExhausted, r.Exhausted, r.Entries))
	}
	if failOnRejected && r.Rejected > 0 {
		errs = append(errs, fmt.Errorf("%w: %d of %d", ErrEntriesRejected, r.Rejected, r.Entries))
	}
	return errors.Join(errs...)
}

// Dispatcher extracts entries from an event and delivers them one by one.
type Dispatcher struct {
	fetcher     ObjectFetcher
	credentials CredentialSource
	deliverer   Deliverer
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(fetcher ObjectFetcher, credentials CredentialSource, deliverer Deliverer) *Dispatcher {
	return &Dispatcher{
		fetcher:     fetcher,
		credentials: credentials,
		deliverer:   deliverer,
	}
}

// Dispatch processes one invocation event. Unsupported events are logged and
// produce an empty report. A returned error means the invocation could not be
// processed at all (credential or extraction failure); per-entry failures are
// only reflected in the report.
func (d *Dispatcher) Dispatch(ctx context.Context, event []byte, inv domain.InvocationContext) (Report, error) {
	kind := source.Detect(event)
	report := Report{Source: kind}
	metrics.InvocationsTotal.WithLabelValues(string(kind)).Inc()

	log := slog.With("request_id", inv.RequestID, "source", string(kind))

	if kind == domain.SourceUnsupported {
		log.Warn("Event source not supported", "event", string(event))
		return report, nil
	}

	cred, err := d.credentials.Resolve(ctx)
	if err != nil {
		metrics.CredentialFailures.Inc()
		return report, fmt.Errorf("resolve license key: %w", err)
	}

	entries, err := d.extract(ctx, kind, event, log)
	if err != nil {
		return report, err
	}
	report.Entries = len(entries)
	metrics.EntriesExtracted.WithLabelValues(string(kind)).Add(float64(len(entries)))
	log.Info("Dispatching log entries", "entries", len(entries))

	for _, entry := range entries {
		result := d.deliverer.Deliver(ctx, domain.DeliveryRequest{Context: inv, Entry: entry}, cred)
		switch result.Status {
		case domain.ResultDelivered:
			report.Delivered++
		case domain.ResultRejected:
			report.Rejected++
		case domain.ResultExhausted:
			report.Exhausted++
		}
	}

	log.Info("Dispatch finished",
		"delivered", report.Delivered,
		"rejected", report.Rejected,
		"exhausted", report.Exhausted,
	)
	return report, nil
}

func (d *Dispatcher) extract(
	ctx context.Context,
	kind domain.SourceKind,
	event []byte,
	log *slog.Logger,
) ([]domain.LogEntry, error) {
	switch kind {
	case domain.SourceCloudWatchBatch:
		entry, err := CloudWatchEntry(event)
		if err != nil {
			return nil, err
		}
		return []domain.LogEntry{entry}, nil

	case domain.SourceS3ObjectCreated:
		bucket, key, err := S3Location(event)
		if err != nil {
			return nil, err
		}
		log.Debug("Fetching log object", "bucket", bucket, "key", key)

		raw, err := d.fetcher.Fetch(ctx, bucket, key)
		if err != nil {
			return nil, fmt.Errorf("fetch s3://%s/%s: %w", bucket, key, err)
		}
		return ObjectEntries(key, raw)
	}
	return nil, nil
}
