package payload

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var (
	// ErrEmptyLicenseKey is returned when there is no ciphertext to decrypt.
	ErrEmptyLicenseKey = errors.New("encrypted license key is empty")
	// ErrEmptyPlaintext is returned when decryption yields nothing.
	ErrEmptyPlaintext = errors.New("decrypted license key is empty")
)

// Decrypter turns a ciphertext blob into plaintext, typically through KMS.
type Decrypter interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

// Credential is a decrypted license key. It never prints its value.
type Credential struct {
	value string
}

// NewCredential wraps a plaintext license key.
func NewCredential(value string) Credential {
	return Credential{value: value}
}

// Value returns the plaintext key for use in request headers.
func (c Credential) Value() string { return c.value }

func (c Credential) String() string { return "[redacted]" }

// LogValue implements slog.LogValuer.
func (c Credential) LogValue() slog.Value { return slog.StringValue("[redacted]") }

// CredentialResolver decrypts the configured license key.
type CredentialResolver struct {
	decrypter Decrypter
	encrypted string
}

// NewCredentialResolver creates a resolver for a base64-encoded ciphertext.
func NewCredentialResolver(decrypter Decrypter, encrypted string) *CredentialResolver {
	return &CredentialResolver{
		decrypter: decrypter,
		encrypted: strings.TrimSpace(encrypted),
	}
}

// Resolve decodes and decrypts the license key. Errors are not retryable.
func (r *CredentialResolver) Resolve(ctx context.Context) (Credential, error) {
	if r.encrypted == "" {
		return Credential{}, ErrEmptyLicenseKey
	}

	blob, err := base64.StdEncoding.DecodeString(r.encrypted)
	if err != nil {
		return Credential{}, fmt.Errorf("decode license key: %w", err)
	}

	plain, err := r.decrypter.Decrypt(ctx, blob)
	if err != nil {
		return Credential{}, fmt.Errorf("decrypt license key: %w", err)
	}
	if len(plain) == 0 {
		return Credential{}, ErrEmptyPlaintext
	}

	return NewCredential(string(plain)), nil
}
