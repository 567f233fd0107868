package ratelimit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ecooverlay/server/pkg/ratelimit"
)

func TestTiers_TierFor(t *testing.T) {
	t.Parallel()

	tiers := ratelimit.DefaultTiers()

	tests := []struct {
		path string
		want string
	}{
		{"/api/auth/session", "auth"},
		{"/sign-in", "auth"},
		{"/sign-up/verify", "auth"},
		{"/api/export", "export"},
		{"/api/export/footprints", "export"},
		{"/api/webhooks/paddle", "webhook"},
		{"/api/scan", "scan-free"},
		{"/api/product/012345678905", "api"},
		{"/api/products/search", "api"},
		{"/api/health", "api"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tiers.TierFor(tt.path).Name)
		})
	}
}

func TestTiers_Defaults(t *testing.T) {
	t.Parallel()

	tiers := ratelimit.DefaultTiers()

	assert.Equal(t, 100, tiers.API.MaxRequests)
	assert.Equal(t, 15*time.Minute, tiers.API.Window)
	assert.Equal(t, 5, tiers.Auth.MaxRequests)
	assert.Equal(t, 3, tiers.Export.MaxRequests)
	assert.Equal(t, 24*time.Hour, tiers.Export.Window)
	assert.Equal(t, 1000, tiers.Webhook.MaxRequests)
	assert.Equal(t, time.Minute, tiers.Webhook.Window)
	assert.Equal(t, 50, tiers.ScanFree.MaxRequests)
}

func TestTiers_MaxWindow(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 24*time.Hour, ratelimit.DefaultTiers().MaxWindow())
}

func TestKey(t *testing.T) {
	t.Parallel()

	tier := ratelimit.Tier{Name: "auth"}
	assert.Equal(t, "auth:203.0.113.7:/api/auth/login", ratelimit.Key(tier, "203.0.113.7:/api/auth/login"))
}

func TestResult_RetryAfter(t *testing.T) {
	t.Parallel()

	allowed := ratelimit.Result{Allowed: true, ResetAt: time.Now().Add(time.Hour)}
	assert.Equal(t, time.Duration(0), allowed.RetryAfter())

	denied := ratelimit.Result{Allowed: false, ResetAt: time.Now().Add(time.Minute)}
	assert.Greater(t, denied.RetryAfter(), time.Duration(0))
}
