// Package source classifies invocation events by the trigger that produced them.
package source

import (
	"encoding/json"
	"strings"

	"github.com/vietddude/logship/internal/core/domain"
)

type cloudWatchEnvelope struct {
	Data string `json:"data"`
}

type s3Record struct {
	EventName string `json:"eventName"`
	S3        *struct {
		Bucket struct {
			Name string `json:"name"`
		} `json:"bucket"`
		Object struct {
			Key string `json:"key"`
		} `json:"object"`
	} `json:"s3"`
}

// Detect reports which supported trigger produced event.
// Anything it cannot recognise, including invalid JSON or an envelope missing
// the fields extraction needs, is SourceUnsupported.
func Detect(event []byte) domain.SourceKind {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(event, &top); err != nil {
		return domain.SourceUnsupported
	}

	if raw, ok := top["awslogs"]; ok {
		var cw cloudWatchEnvelope
		if err := json.Unmarshal(raw, &cw); err != nil || cw.Data == "" {
			return domain.SourceUnsupported
		}
		return domain.SourceCloudWatchBatch
	}

	raw, ok := top["Records"]
	if !ok {
		return domain.SourceUnsupported
	}
	// Only the first record matters; later ones may have any shape.
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil || len(records) == 0 {
		return domain.SourceUnsupported
	}

	var first s3Record
	if err := json.Unmarshal(records[0], &first); err != nil || first.S3 == nil {
		return domain.SourceUnsupported
	}
	if first.S3.Bucket.Name == "" || first.S3.Object.Key == "" {
		return domain.SourceUnsupported
	}
	if strings.Contains(first.EventName, "ObjectCreated") {
		return domain.SourceS3ObjectCreated
	}
	return domain.SourceUnsupported
}
