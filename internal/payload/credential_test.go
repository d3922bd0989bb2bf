package payload

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
)

type stubDecrypter struct {
	plain []byte
	err   error
	got   []byte
	calls int
}

func (s *stubDecrypter) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	s.calls++
	s.got = ciphertext
	return s.plain, s.err
}

func TestCredentialResolver_Resolve(t *testing.T) {
	d := &stubDecrypter{plain: []byte("license-123")}
	r := NewCredentialResolver(d, base64.StdEncoding.EncodeToString([]byte("cipher")))

	cred, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cred.Value() != "license-123" {
		t.Errorf("expected license-123, got %q", cred.Value())
	}
	if string(d.got) != "cipher" {
		t.Errorf("expected decoded ciphertext, got %q", d.got)
	}
}

func TestCredentialResolver_Errors(t *testing.T) {
	boom := errors.New("kms unavailable")

	tests := []struct {
		name      string
		encrypted string
		dec       *stubDecrypter
		want      error
		wantCalls int
	}{
		{"empty", "  ", &stubDecrypter{}, ErrEmptyLicenseKey, 0},
		{"bad base64", "not base64!", &stubDecrypter{}, nil, 0},
		{"decrypt fails", "Y2lwaGVy", &stubDecrypter{err: boom}, boom, 1},
		{"empty plaintext", "Y2lwaGVy", &stubDecrypter{}, ErrEmptyPlaintext, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCredentialResolver(tt.dec, tt.encrypted).Resolve(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if tt.dec.calls != tt.wantCalls {
				t.Errorf("expected %d decrypt calls, got %d", tt.wantCalls, tt.dec.calls)
			}
		})
	}
}

func TestCredential_Redacted(t *testing.T) {
	cred := NewCredential("secret")
	if got := fmt.Sprint(cred); got != "[redacted]" {
		t.Errorf("credential leaked through fmt: %q", got)
	}
	if got := cred.LogValue().String(); got != "[redacted]" {
		t.Errorf("credential leaked through slog: %q", got)
	}
}
