package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/vietddude/logship/internal/core/domain"
)

// RetryConfig defines retry behavior.
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	BackoffMultiple float64
	// RateLimitMultiple scales the wait that follows a 429. 1 means no extra delay.
	RateLimitMultiple float64
}

// DefaultRetryConfig provides sensible defaults.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts:       3,
	InitialDelay:      1 * time.Second,
	BackoffMultiple:   2.0,
	RateLimitMultiple: 1.0,
}

// Attempt performs one transport call and returns the status code received,
// or an error when no response was received at all.
type Attempt func(ctx context.Context) (statusCode int, err error)

// SleepFunc blocks for d. It returns an error if the wait was cut short.
type SleepFunc func(ctx context.Context, d time.Duration) error

// AttemptHook observes every classified attempt. wait is the delay before the
// next attempt, or zero when the loop is about to end.
type AttemptHook func(state domain.RetryState, outcome domain.AttemptOutcome, wait time.Duration)

// Policy drives a bounded exponential-backoff attempt loop.
type Policy struct {
	Config    RetryConfig
	Classify  Classifier
	Sleep     SleepFunc
	OnAttempt AttemptHook
}

// NewPolicy creates a policy using the default classifier and a context-aware sleep.
func NewPolicy(cfg RetryConfig) Policy {
	return Policy{
		Config:   cfg,
		Classify: Classify,
		Sleep:    SleepContext,
	}
}

// Run calls attempt until it succeeds, is rejected, or the attempt budget is spent.
// It always returns exactly one terminal result.
func (p Policy) Run(ctx context.Context, attempt Attempt) domain.DeliveryResult {
	classify := p.Classify
	if classify == nil {
		classify = Classify
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	state := domain.RetryState{Backoff: p.Config.InitialDelay}
	var last domain.AttemptOutcome

	for state.Attempts < p.Config.MaxAttempts {
		if state.Attempts > 0 {
			wait := p.nextWait(state, last)
			if err := sleep(ctx, wait); err != nil {
				return domain.DeliveryResult{
					Status:   domain.ResultExhausted,
					Reason:   fmt.Sprintf("backoff interrupted after %d attempts: %v", state.Attempts, err),
					Attempts: state.Attempts,
					Last:     last,
				}
			}
			state.Backoff = time.Duration(float64(state.Backoff) * p.Config.BackoffMultiple)
		}

		state.Attempts++
		statusCode, err := attempt(ctx)
		last = classify(statusCode, err)

		if p.OnAttempt != nil {
			var wait time.Duration
			if last.Kind.Retryable() && state.Attempts < p.Config.MaxAttempts {
				wait = p.nextWait(state, last)
			}
			p.OnAttempt(state, last, wait)
		}

		switch last.Kind {
		case domain.OutcomeSuccess:
			return domain.DeliveryResult{
				Status:   domain.ResultDelivered,
				Attempts: state.Attempts,
				Last:     last,
			}
		case domain.OutcomeClientFault:
			return domain.DeliveryResult{
				Status:   domain.ResultRejected,
				Reason:   last.Reason,
				Attempts: state.Attempts,
				Last:     last,
			}
		}
		// RateLimited and TransientFailure: continue loop
	}

	return domain.DeliveryResult{
		Status:   domain.ResultExhausted,
		Reason:   fmt.Sprintf("retry limit reached after %d attempts", state.Attempts),
		Attempts: state.Attempts,
		Last:     last,
	}
}

func (p Policy) nextWait(state domain.RetryState, last domain.AttemptOutcome) time.Duration {
	if last.Kind == domain.OutcomeRateLimited && p.Config.RateLimitMultiple > 1 {
		return time.Duration(float64(state.Backoff) * p.Config.RateLimitMultiple)
	}
	return state.Backoff
}

// SleepContext waits for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
