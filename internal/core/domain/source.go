package domain

// SourceKind identifies which trigger produced an invocation event.
type SourceKind string

const (
	SourceUnsupported     SourceKind = "unsupported"
	SourceCloudWatchBatch SourceKind = "cloudwatch_logs"
	SourceS3ObjectCreated SourceKind = "s3_object_created"
)
