package dispatch

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/klauspost/compress/gzip"
	"github.com/vietddude/logship/internal/core/domain"
)

var (
	ErrEmptyCloudWatchData = errors.New("awslogs.data is empty")
	ErrNoS3Record          = errors.New("event has no S3 record")
	ErrInvalidUTF8         = errors.New("log data is not valid UTF-8")
)

// CloudWatchEntry decodes a CloudWatch Logs subscription event into a single entry.
// The decompressed text is delivered as-is, without parsing its JSON.
func CloudWatchEntry(event []byte) (domain.LogEntry, error) {
	var cw events.CloudwatchLogsEvent
	if err := json.Unmarshal(event, &cw); err != nil {
		return domain.LogEntry{}, fmt.Errorf("parse cloudwatch event: %w", err)
	}
	if cw.AWSLogs.Data == "" {
		return domain.LogEntry{}, ErrEmptyCloudWatchData
	}

	compressed, err := base64.StdEncoding.DecodeString(cw.AWSLogs.Data)
	if err != nil {
		return domain.LogEntry{}, fmt.Errorf("decode awslogs.data: %w", err)
	}
	data, err := gunzip(compressed)
	if err != nil {
		return domain.LogEntry{}, fmt.Errorf("decompress awslogs.data: %w", err)
	}
	if !utf8.Valid(data) {
		return domain.LogEntry{}, ErrInvalidUTF8
	}
	return domain.NewLogEntryBytes(data), nil
}

// S3Location returns the bucket and URL-decoded key of the first record.
func S3Location(event []byte) (bucket, key string, err error) {
	var s3e events.S3Event
	if err := json.Unmarshal(event, &s3e); err != nil {
		return "", "", fmt.Errorf("parse s3 event: %w", err)
	}
	if len(s3e.Records) == 0 {
		return "", "", ErrNoS3Record
	}

	entity := s3e.Records[0].S3
	// Notification keys are form-encoded: spaces arrive as '+'.
	key, err = url.QueryUnescape(entity.Object.Key)
	if err != nil {
		return "", "", fmt.Errorf("decode object key %q: %w", entity.Object.Key, err)
	}
	return entity.Bucket.Name, key, nil
}

// IsCompressed reports whether an object key names a gzip file.
func IsCompressed(key string) bool {
	i := strings.LastIndexByte(key, '.')
	return i >= 0 && key[i+1:] == "gz"
}

// ObjectEntries turns raw object bytes into one entry per line.
func ObjectEntries(key string, raw []byte) ([]domain.LogEntry, error) {
	data := raw
	if IsCompressed(key) {
		var err error
		if data, err = gunzip(raw); err != nil {
			return nil, fmt.Errorf("decompress %s: %w", key, err)
		}
	}
	return SplitLines(data), nil
}

// SplitLines splits data on \n, \r\n and \r. A trailing terminator does not
// produce an empty final entry; blank lines in the middle are kept.
func SplitLines(data []byte) []domain.LogEntry {
	var entries []domain.LogEntry
	for len(data) > 0 {
		i := bytes.IndexAny(data, "\r\n")
		if i < 0 {
			entries = append(entries, domain.NewLogEntryBytes(data))
			break
		}
		entries = append(entries, domain.NewLogEntryBytes(data[:i]))

		next := i + 1
		if data[i] == '\r' && next < len(data) && data[next] == '\n' {
			next++
		}
		data = data[next:]
	}
	return entries
}

func gunzip(b []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
