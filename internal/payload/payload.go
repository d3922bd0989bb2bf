// Package payload builds the wire body sent to the ingest service and
// resolves the license key that authenticates it.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/gzip"
	"github.com/vietddude/logship/internal/core/domain"
)

type envelope struct {
	Context domain.InvocationContext `json:"context"`
	Entry   string                   `json:"entry"`
}

// Marshal serializes a request to its canonical JSON form.
func Marshal(req domain.DeliveryRequest) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// Log lines routinely contain <, > and &; keep them readable.
	enc.SetEscapeHTML(false)
	if err := enc.Encode(envelope{Context: req.Context, Entry: req.Entry.Text()}); err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Build serializes and gzip-compresses a request. The gzip header carries no
// name or modification time, so equal requests yield identical bytes.
func Build(req domain.DeliveryRequest) ([]byte, error) {
	raw, err := Marshal(req)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("compress payload: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress payload: %w", err)
	}
	return buf.Bytes(), nil
}
