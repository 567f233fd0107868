package clientip_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ecooverlay/server/pkg/clientip"
)

func newRequest(remoteAddr string, headers map[string]string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	r.RemoteAddr = remoteAddr
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return r
}

func TestExtractor_GetIP_TrustedProxy(t *testing.T) {
	t.Parallel()

	e := clientip.New(clientip.Config{TrustProxyHeaders: true})

	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		want    string
	}{
		{
			name:    "first forwarded entry wins",
			remote:  "10.0.0.1:443",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"},
			want:    "203.0.113.7",
		},
		{
			name:    "real ip fallback",
			remote:  "10.0.0.1:443",
			headers: map[string]string{"X-Real-IP": "198.51.100.3"},
			want:    "198.51.100.3",
		},
		{
			name:    "cloudflare fallback",
			remote:  "10.0.0.1:443",
			headers: map[string]string{"CF-Connecting-IP": "192.0.2.9"},
			want:    "192.0.2.9",
		},
		{
			name:    "garbage forwarded falls through to remote",
			remote:  "192.0.2.1:55001",
			headers: map[string]string{"X-Forwarded-For": "not-an-ip"},
			want:    "192.0.2.1",
		},
		{
			name:   "remote addr when no headers",
			remote: "192.0.2.1:55001",
			want:   "192.0.2.1",
		},
		{
			name:   "unparseable remote addr",
			remote: "garbage",
			want:   clientip.Unknown,
		},
		{
			name:    "ipv6 normalization",
			remote:  "10.0.0.1:443",
			headers: map[string]string{"X-Forwarded-For": "2001:db8:0:0:0:0:0:1"},
			want:    "2001:db8::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, e.GetIP(newRequest(tt.remote, tt.headers)))
		})
	}
}

func TestExtractor_GetIP_UntrustedProxy(t *testing.T) {
	t.Parallel()

	e := clientip.New(clientip.Config{TrustProxyHeaders: false})

	r := newRequest("192.0.2.1:55001", map[string]string{
		"X-Forwarded-For": "203.0.113.7",
		"X-Real-IP":       "198.51.100.3",
	})

	assert.Equal(t, "192.0.2.1", e.GetIP(r), "spoofable headers must be ignored")
}

func TestMiddleware_StoresIPInContext(t *testing.T) {
	t.Parallel()

	e := clientip.New(clientip.Config{TrustProxyHeaders: true})

	var got string
	h := clientip.Middleware(e)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = clientip.GetIPFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newRequest("192.0.2.1:55001", nil))

	assert.Equal(t, "192.0.2.1", got)
}

func TestGetIPFromContext_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, clientip.Unknown, clientip.GetIPFromContext(t.Context()))
}
