package delivery

import (
	"errors"
	"testing"

	"github.com/vietddude/logship/internal/core/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		code   int
		err    error
		expect domain.OutcomeKind
		reason string
	}{
		{200, nil, domain.OutcomeSuccess, ""},
		{202, nil, domain.OutcomeSuccess, ""},
		{400, nil, domain.OutcomeClientFault, "unexpected payload"},
		{403, nil, domain.OutcomeClientFault, "review your license key"},
		{404, nil, domain.OutcomeClientFault, "review the region endpoint"},
		{429, nil, domain.OutcomeRateLimited, "too many requests"},
		{413, nil, domain.OutcomeClientFault, "client error 413"},
		{499, nil, domain.OutcomeClientFault, "client error 499"},
		{500, nil, domain.OutcomeTransientFailure, "server error 500"},
		{503, nil, domain.OutcomeTransientFailure, "server error 503"},
		{302, nil, domain.OutcomeTransientFailure, "server error 302"},
		{0, errors.New("connection reset by peer"), domain.OutcomeTransientFailure, "connection reset by peer"},
	}

	for _, tt := range tests {
		got := Classify(tt.code, tt.err)
		if got.Kind != tt.expect {
			t.Errorf("Classify(%d, %v) = %v, want %v", tt.code, tt.err, got.Kind, tt.expect)
		}
		if got.Reason != tt.reason {
			t.Errorf("Classify(%d, %v) reason = %q, want %q", tt.code, tt.err, got.Reason, tt.reason)
		}
	}
}

func TestClassify_ErrorWinsOverStatus(t *testing.T) {
	boom := errors.New("timeout")
	got := Classify(200, boom)
	if got.Kind != domain.OutcomeTransientFailure {
		t.Errorf("expected transient failure, got %v", got.Kind)
	}
	if !errors.Is(got.Err, boom) {
		t.Errorf("expected transport error to be kept, got %v", got.Err)
	}
}
