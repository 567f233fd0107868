package ratelimit_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecooverlay/server/pkg/ratelimit"
)

func writeTiersFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tiers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadTiersFile_OverlaysDefaults(t *testing.T) {
	t.Parallel()

	path := writeTiersFile(t, `
api:
  max_requests: 200
  window: 10m
auth:
  max_requests: 10
`)

	tiers, err := ratelimit.LoadTiersFile(path)
	require.NoError(t, err)

	assert.Equal(t, 200, tiers.API.MaxRequests)
	assert.Equal(t, 10*time.Minute, tiers.API.Window)
	assert.Equal(t, "api", tiers.API.Name, "name kept from defaults")

	assert.Equal(t, 10, tiers.Auth.MaxRequests)
	assert.Equal(t, 15*time.Minute, tiers.Auth.Window, "window kept from defaults")

	// Untouched tiers stay at their defaults.
	assert.Equal(t, 3, tiers.Export.MaxRequests)
	assert.Equal(t, 1000, tiers.Webhook.MaxRequests)
}

func TestLoadTiersFile_RejectsInvalidWindow(t *testing.T) {
	t.Parallel()

	path := writeTiersFile(t, `
api:
  window: soon
`)

	_, err := ratelimit.LoadTiersFile(path)
	assert.Error(t, err)
}

func TestLoadTiersFile_RejectsNonPositiveQuota(t *testing.T) {
	t.Parallel()

	path := writeTiersFile(t, `
export:
  max_requests: -1
`)

	_, err := ratelimit.LoadTiersFile(path)
	assert.ErrorIs(t, err, ratelimit.ErrInvalidLimit)
}

func TestLoadTiersFile_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := ratelimit.LoadTiersFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
