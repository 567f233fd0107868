package ratelimit

import (
	"strings"
	"time"
)

// Result contains the outcome of a rate limit check.
type Result struct {
	// Allowed indicates whether the request is allowed.
	Allowed bool

	// Limit is the maximum number of requests allowed in the window.
	Limit int

	// Remaining is the number of requests remaining in the current window.
	Remaining int

	// ResetAt is the time when capacity becomes available again.
	ResetAt time.Time
}

// RetryAfter returns how long to wait before the next request is allowed.
// Returns 0 if the current request was allowed.
func (r Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return time.Until(r.ResetAt)
}

// Tier is a named rate-limiting policy: an independent counter namespace
// with its own trailing window and quota.
type Tier struct {
	Name        string        `yaml:"name" json:"name"`
	MaxRequests int           `yaml:"max_requests" json:"maxRequests"`
	Window      time.Duration `yaml:"window" json:"window"`
}

// Tiers is the full tier table. A request path matches exactly one tier.
type Tiers struct {
	API      Tier `yaml:"api" json:"api"`
	Auth     Tier `yaml:"auth" json:"auth"`
	Export   Tier `yaml:"export" json:"export"`
	Webhook  Tier `yaml:"webhook" json:"webhook"`
	ScanFree Tier `yaml:"scan_free" json:"scanFree"`
}

// DefaultTiers returns the production tier table.
func DefaultTiers() Tiers {
	return Tiers{
		API:      Tier{Name: "api", MaxRequests: 100, Window: 15 * time.Minute},
		Auth:     Tier{Name: "auth", MaxRequests: 5, Window: 15 * time.Minute},
		Export:   Tier{Name: "export", MaxRequests: 3, Window: 24 * time.Hour},
		Webhook:  Tier{Name: "webhook", MaxRequests: 1000, Window: time.Minute},
		ScanFree: Tier{Name: "scan-free", MaxRequests: 50, Window: 24 * time.Hour},
	}
}

// TierFor selects the tier for a request path. First hit wins; anything
// unmatched falls into the general API tier.
func (t Tiers) TierFor(path string) Tier {
	switch {
	case strings.Contains(path, "/api/auth") || strings.Contains(path, "/sign-"):
		return t.Auth
	case strings.Contains(path, "/api/export"):
		return t.Export
	case strings.Contains(path, "/api/webhooks"):
		return t.Webhook
	case strings.Contains(path, "/api/scan"):
		return t.ScanFree
	default:
		return t.API
	}
}

// MaxWindow returns the largest configured window. The memory store's sweep
// uses it to decide when an identifier is certainly stale.
func (t Tiers) MaxWindow() time.Duration {
	maxW := t.API.Window
	for _, tier := range []Tier{t.Auth, t.Export, t.Webhook, t.ScanFree} {
		if tier.Window > maxW {
			maxW = tier.Window
		}
	}
	return maxW
}

// Key composes the storage key for a tier and identifier. Identifiers are
// "clientIP:path" so throttling is coarse per-route, not per-user.
func Key(tier Tier, identifier string) string {
	return tier.Name + ":" + identifier
}
