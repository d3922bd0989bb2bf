package domain

// InvocationContext describes the execution that received a batch.
// It is attached to every delivered entry for traceability.
type InvocationContext struct {
	FunctionName       string `json:"function_name"`
	InvokedFunctionARN string `json:"invoked_function_arn"`
	LogGroupName       string `json:"log_group_name"`
	LogStreamName      string `json:"log_stream_name"`

	// RequestID is only used for log correlation and never leaves the process.
	RequestID string `json:"-"`
}
