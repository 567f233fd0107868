package billing_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecooverlay/server/modules/billing"
	"github.com/ecooverlay/server/pkg/rbac"
)

const webhookSecret = "pdl_ntfset_test_secret"

// signPayload produces a Paddle-Signature header value for body.
func signPayload(t *testing.T, body string) string {
	t.Helper()
	ts := fmt.Sprintf("%d", time.Now().Unix())
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	_, err := mac.Write([]byte(ts + ":" + body))
	require.NoError(t, err)
	return "ts=" + ts + ";h1=" + hex.EncodeToString(mac.Sum(nil))
}

type recordingInvalidator struct {
	invalidated []string
}

func (r *recordingInvalidator) Invalidate(userID string) {
	r.invalidated = append(r.invalidated, userID)
}

func newWebhook(t *testing.T, store billing.Store, cache billing.Invalidator) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := billing.NewService(store, cache, log)
	wh, err := billing.NewWebhook(billing.Config{WebhookSecret: webhookSecret}, svc)
	require.NoError(t, err)
	return wh.Handle()
}

func post(t *testing.T, handler http.Handler, body, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/paddle", strings.NewReader(body))
	if signature != "" {
		req.Header.Set("Paddle-Signature", signature)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestNewWebhookRequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := billing.NewWebhook(billing.Config{}, nil)
	assert.ErrorIs(t, err, billing.ErrMissingWebhookSecret)
}

func TestWebhookSignature(t *testing.T) {
	t.Parallel()

	store := rbac.NewMemoryRoleStore()
	handler := newWebhook(t, store, nil)
	body := `{"event_type":"subscription.activated","data":{"status":"active","custom_data":{"user_id":"user-1"}}}`

	t.Run("missing signature", func(t *testing.T) {
		rec := post(t, handler, body, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("forged signature", func(t *testing.T) {
		rec := post(t, handler, body, "ts=1;h1=deadbeef")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tampered body", func(t *testing.T) {
		sig := signPayload(t, body)
		rec := post(t, handler, strings.Replace(body, "user-1", "user-2", 1), sig)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestWebhookTransitions(t *testing.T) {
	t.Parallel()

	activated := func(userID string) string {
		return `{"event_type":"subscription.activated","data":{"status":"active","custom_data":{"user_id":"` + userID + `"}}}`
	}
	canceled := func(userID string) string {
		return `{"event_type":"subscription.canceled","data":{"status":"canceled","custom_data":{"user_id":"` + userID + `"}}}`
	}

	t.Run("activation grants premium tier", func(t *testing.T) {
		t.Parallel()

		store := rbac.NewMemoryRoleStore()
		require.NoError(t, store.Set(context.Background(), "user-1", rbac.Grant{Role: rbac.RoleUser}))
		cache := &recordingInvalidator{}
		handler := newWebhook(t, store, cache)

		body := activated("user-1")
		rec := post(t, handler, body, signPayload(t, body))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"received":true}`, rec.Body.String())

		grant, err := store.Get(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, rbac.RoleUser, grant.Role, "role must survive subscription changes")
		assert.Equal(t, rbac.SubscriptionPremium, grant.Subscription)
		assert.Equal(t, []string{"user-1"}, cache.invalidated)
	})

	t.Run("cancellation reverts to free", func(t *testing.T) {
		t.Parallel()

		store := rbac.NewMemoryRoleStore()
		require.NoError(t, store.Set(context.Background(), "user-1", rbac.Grant{
			Role:         rbac.RolePremium,
			Subscription: rbac.SubscriptionPremium,
		}))
		handler := newWebhook(t, store, nil)

		body := canceled("user-1")
		rec := post(t, handler, body, signPayload(t, body))
		require.Equal(t, http.StatusOK, rec.Code)

		grant, err := store.Get(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, rbac.RolePremium, grant.Role)
		assert.Empty(t, grant.Subscription)
	})

	t.Run("unknown user starts from base role", func(t *testing.T) {
		t.Parallel()

		store := rbac.NewMemoryRoleStore()
		handler := newWebhook(t, store, nil)

		body := activated("new-user")
		rec := post(t, handler, body, signPayload(t, body))
		require.Equal(t, http.StatusOK, rec.Code)

		grant, err := store.Get(context.Background(), "new-user")
		require.NoError(t, err)
		assert.Equal(t, rbac.RoleUser, grant.Role)
		assert.Equal(t, rbac.SubscriptionPremium, grant.Subscription)
	})

	t.Run("irrelevant events are acknowledged without changes", func(t *testing.T) {
		t.Parallel()

		store := rbac.NewMemoryRoleStore()
		handler := newWebhook(t, store, nil)

		body := `{"event_type":"transaction.completed","data":{"status":"completed","custom_data":{"user_id":"user-1"}}}`
		rec := post(t, handler, body, signPayload(t, body))
		require.Equal(t, http.StatusOK, rec.Code)

		_, err := store.Get(context.Background(), "user-1")
		assert.ErrorIs(t, err, rbac.ErrUserNotFound)
	})

	t.Run("missing user id is rejected", func(t *testing.T) {
		t.Parallel()

		store := rbac.NewMemoryRoleStore()
		handler := newWebhook(t, store, nil)

		body := `{"event_type":"subscription.activated","data":{"status":"active","custom_data":{}}}`
		rec := post(t, handler, body, signPayload(t, body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
