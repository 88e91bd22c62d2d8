package audit

import "time"

// Record is one conversion attempt's metadata.
type Record struct {
	ID         string    `json:"id"`
	TraceID    string    `json:"trace_id"`
	Subject    string    `json:"subject"`
	Operation  string    `json:"operation"`
	FromFormat string    `json:"from_format"`
	ToFormat   string    `json:"to_format"`
	InputBytes int64     `json:"input_bytes"`
	DurationMs int64     `json:"duration_ms"`
	Status     string    `json:"status"`
	ErrorCode  string    `json:"error_code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Operation names recorded in the trail.
const (
	OpText   = "text"
	OpFile   = "file"
	OpBase64 = "base64"
	OpBatch  = "batch"
	OpStream = "stream"
)

// Statuses recorded in the trail.
const (
	StatusOK    = "ok"
	StatusError = "error"
)
