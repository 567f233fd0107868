package security

import (
	"net/http"
	"strings"
)

// Config holds the CORS origin allow-list.
type Config struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// DefaultOrigins are used when the allow-list is not configured.
var DefaultOrigins = []string{
	"http://localhost:3000",
	"https://ecooverlay.app",
	"https://www.ecooverlay.app",
}

const (
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization, X-Requested-With"
	corsMaxAge       = "86400"
)

// CORS decides whether an Origin header is trusted and writes the
// corresponding response headers. An origin is trusted when it matches
// an allow-list entry exactly, or when an entry starting with "." is a
// suffix of the origin host. Untrusted origins receive no CORS headers.
type CORS struct {
	exact    map[string]struct{}
	suffixes []string
}

// NewCORS builds a CORS policy from cfg, falling back to DefaultOrigins
// when cfg lists none.
func NewCORS(cfg Config) *CORS {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = DefaultOrigins
	}

	c := &CORS{exact: make(map[string]struct{}, len(origins))}
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if strings.HasPrefix(origin, ".") {
			c.suffixes = append(c.suffixes, origin)
			continue
		}
		c.exact[origin] = struct{}{}
	}
	return c
}

// AllowOrigin reports whether origin is on the allow-list.
func (c *CORS) AllowOrigin(origin string) bool {
	if origin == "" {
		return false
	}
	if _, ok := c.exact[origin]; ok {
		return true
	}

	host := origin
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	for _, suffix := range c.suffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}

// Apply writes CORS headers for the request's Origin when it is
// allow-listed. It never reflects an unknown Origin.
func (c *CORS) Apply(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if !c.AllowOrigin(origin) {
		return
	}

	h := w.Header()
	h.Set("Access-Control-Allow-Origin", origin)
	h.Set("Access-Control-Allow-Credentials", "true")
	h.Set("Access-Control-Allow-Methods", corsAllowMethods)
	h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
	h.Set("Access-Control-Max-Age", corsMaxAge)
	h.Add("Vary", "Origin")
}

// Preflight answers an OPTIONS request: CORS headers for trusted
// origins and 204 in all cases.
func (c *CORS) Preflight(w http.ResponseWriter, r *http.Request) {
	c.Apply(w, r)
	w.WriteHeader(http.StatusNoContent)
}
