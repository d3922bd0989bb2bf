package domain

// LogEntry is one unit of log text delivered as a single request.
// The zero value is an empty entry.
type LogEntry struct {
	text string
}

// NewLogEntry creates an entry from text.
func NewLogEntry(text string) LogEntry {
	return LogEntry{text: text}
}

// NewLogEntryBytes creates an entry from raw bytes. The bytes are copied.
func NewLogEntryBytes(b []byte) LogEntry {
	return LogEntry{text: string(b)}
}

// Text returns the entry content.
func (e LogEntry) Text() string {
	return e.text
}

// Len returns the entry size in bytes.
func (e LogEntry) Len() int {
	return len(e.text)
}

// DeliveryRequest pairs an entry with the invocation that produced it.
type DeliveryRequest struct {
	Context InvocationContext
	Entry   LogEntry
}
