package gateway

import (
	"net/http"
	"strconv"
	"time"
)

// timingWriter stamps X-Response-Time when the status line is written
// and remembers the status code for access logging.
type timingWriter struct {
	http.ResponseWriter
	start       time.Time
	status      int
	wroteHeader bool
}

func newTimingWriter(w http.ResponseWriter, start time.Time) *timingWriter {
	return &timingWriter{ResponseWriter: w, start: start, status: http.StatusOK}
}

func (t *timingWriter) WriteHeader(status int) {
	if t.wroteHeader {
		return
	}
	t.wroteHeader = true
	t.status = status
	ms := time.Since(t.start).Milliseconds()
	t.Header().Set("X-Response-Time", strconv.FormatInt(ms, 10)+"ms")
	t.ResponseWriter.WriteHeader(status)
}

func (t *timingWriter) Write(b []byte) (int, error) {
	if !t.wroteHeader {
		t.WriteHeader(http.StatusOK)
	}
	return t.ResponseWriter.Write(b)
}
