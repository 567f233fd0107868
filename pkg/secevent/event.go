package secevent

import "time"

// Event is a single security-log entry. Immutable once logged.
type Event struct {
	ID         string    `json:"id"`
	Time       time.Time `json:"time"`
	IP         string    `json:"ip"`
	UserID     string    `json:"user_id,omitempty"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	Method     string    `json:"method"`
	StatusCode int       `json:"status_code,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	Suspicious bool      `json:"suspicious,omitempty"`
}

// Well-known actions emitted by the pipeline.
const (
	ActionBlocked     = "blocked"
	ActionRateLimited = "rate_limited"
	ActionDenied      = "denied"
)
