package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Unknown is returned when no valid address can be determined.
const Unknown = "unknown"

// Extractor resolves the client IP for a request according to a fixed,
// documented trust policy.
type Extractor struct {
	trustProxyHeaders bool
}

// Config holds extractor settings populated from the environment.
type Config struct {
	// TrustProxyHeaders must only be enabled when every request path to this
	// service passes through a proxy that controls the forwarding headers.
	TrustProxyHeaders bool `env:"CLIENT_IP_TRUST_PROXY" envDefault:"true"`
}

// New returns an Extractor with the given config.
func New(cfg Config) *Extractor {
	return &Extractor{trustProxyHeaders: cfg.TrustProxyHeaders}
}

// GetIP returns the client IP for the request.
//
// With proxy trust enabled the header priority is:
//  1. X-Forwarded-For (first entry)
//  2. X-Real-IP
//  3. CF-Connecting-IP
//  4. RemoteAddr
//
// Without proxy trust only RemoteAddr is consulted. Returns Unknown when
// nothing parses as an IP.
func (e *Extractor) GetIP(r *http.Request) string {
	if e.trustProxyHeaders {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			if ip := parseIP(first); ip != "" {
				return ip
			}
		}
		if ip := parseIP(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
		if ip := parseIP(r.Header.Get("CF-Connecting-IP")); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := parseIP(host); ip != "" {
		return ip
	}
	return Unknown
}

// parseIP validates and normalizes an IP string, returning "" when invalid.
func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
