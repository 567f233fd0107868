package gateway

import (
	"encoding/json"
	"net/http"
	"time"
)

// Machine-readable error codes returned to clients.
const (
	CodeSuspiciousActivity     = "SUSPICIOUS_ACTIVITY"
	CodeRateLimitExceeded      = "RATE_LIMIT_EXCEEDED"
	CodeAuthenticationRequired = "AUTHENTICATION_REQUIRED"
	CodeForbidden              = "FORBIDDEN"
	CodeInternalError          = "INTERNAL_ERROR"
)

type errorBody struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	Timestamp  string `json:"timestamp"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeErrorRetry(w, status, message, code, 0)
}

func writeErrorRetry(w http.ResponseWriter, status int, message, code string, retryAfter int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error:      message,
		Code:       code,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		RetryAfter: retryAfter,
	})
}
