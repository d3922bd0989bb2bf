package delivery

import (
	"fmt"
	"net/http"

	"github.com/vietddude/logship/internal/core/domain"
)

// Classifier maps the raw result of one transport attempt to an outcome.
type Classifier func(statusCode int, err error) domain.AttemptOutcome

// Classify is the default Classifier for the ingest service.
//
// A non-nil err means no response was received and is always transient.
// 4xx responses other than 429 will not succeed without a code or
// configuration change and are reported as client faults.
func Classify(statusCode int, err error) domain.AttemptOutcome {
	if err != nil {
		return domain.AttemptOutcome{
			Kind:   domain.OutcomeTransientFailure,
			Reason: err.Error(),
			Err:    err,
		}
	}

	out := domain.AttemptOutcome{StatusCode: statusCode}
	switch {
	case statusCode >= 200 && statusCode < 300:
		out.Kind = domain.OutcomeSuccess
	case statusCode == http.StatusBadRequest:
		out.Kind = domain.OutcomeClientFault
		out.Reason = "unexpected payload"
	case statusCode == http.StatusForbidden:
		out.Kind = domain.OutcomeClientFault
		out.Reason = "review your license key"
	case statusCode == http.StatusNotFound:
		out.Kind = domain.OutcomeClientFault
		out.Reason = "review the region endpoint"
	case statusCode == http.StatusTooManyRequests:
		out.Kind = domain.OutcomeRateLimited
		out.Reason = "too many requests"
	case statusCode >= 400 && statusCode < 500:
		out.Kind = domain.OutcomeClientFault
		out.Reason = fmt.Sprintf("client error %d", statusCode)
	default:
		// 5xx, and anything the service should never send (1xx, 3xx)
		out.Kind = domain.OutcomeTransientFailure
		out.Reason = fmt.Sprintf("server error %d", statusCode)
	}
	return out
}
