package domain

import (
	"fmt"
	"time"
)

// OutcomeKind is the disposition of a single delivery attempt.
type OutcomeKind int

// The zero value is OutcomeUnknown so an outcome that was never classified
// cannot read as a success.
const (
	OutcomeUnknown OutcomeKind = iota
	OutcomeSuccess
	OutcomeClientFault
	OutcomeRateLimited
	OutcomeTransientFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeUnknown:
		return "unknown"
	case OutcomeSuccess:
		return "success"
	case OutcomeClientFault:
		return "client_fault"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeTransientFailure:
		return "transient_failure"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Retryable reports whether another attempt may succeed.
func (k OutcomeKind) Retryable() bool {
	return k == OutcomeRateLimited || k == OutcomeTransientFailure
}

// AttemptOutcome is the classified result of one network attempt.
type AttemptOutcome struct {
	Kind       OutcomeKind
	StatusCode int // 0 when no response was received
	Reason     string
	Err        error // transport error, if any
}

// RetryState tracks the attempt loop of one DeliveryRequest.
type RetryState struct {
	Attempts int
	Backoff  time.Duration
}

// ResultStatus is the terminal status of one entry's delivery.
type ResultStatus string

const (
	ResultDelivered ResultStatus = "delivered"
	ResultRejected  ResultStatus = "rejected"
	ResultExhausted ResultStatus = "exhausted"
)

// DeliveryResult is produced exactly once per LogEntry.
type DeliveryResult struct {
	Status   ResultStatus
	Reason   string
	Attempts int
	Last     AttemptOutcome
}

// Delivered reports whether the entry reached the ingest service.
func (r DeliveryResult) Delivered() bool {
	return r.Status == ResultDelivered
}
