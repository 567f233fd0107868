package billing

import (
	"encoding/json"
	"log/slog"
	"net/http"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
	"github.com/go-chi/chi/v5"

	"github.com/ecooverlay/server/pkg/logger"
	"github.com/ecooverlay/server/pkg/rbac"
)

// webhookEvent is the slice of a Paddle event the handler acts on. The
// user ID travels in custom_data, set when the checkout was created.
type webhookEvent struct {
	EventType string `json:"event_type"`
	Data      struct {
		Status     string `json:"status"`
		CustomData struct {
			UserID string `json:"user_id"`
		} `json:"custom_data"`
	} `json:"data"`
}

// Webhook verifies and applies Paddle subscription events.
type Webhook struct {
	verifier *paddle.WebhookVerifier
	svc      *Service
}

// NewWebhook builds the webhook endpoint from cfg.
func NewWebhook(cfg Config, svc *Service) (*Webhook, error) {
	if cfg.WebhookSecret == "" {
		return nil, ErrMissingWebhookSecret
	}
	return &Webhook{
		verifier: paddle.NewWebhookVerifier(cfg.WebhookSecret),
		svc:      svc,
	}, nil
}

// Handle returns the router mounted under the webhooks prefix.
func (wh *Webhook) Handle() http.Handler {
	r := chi.NewRouter()
	r.Post("/paddle", wh.serve)
	return r
}

func (wh *Webhook) serve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	valid, err := wh.verifier.Verify(r)
	if err != nil || !valid {
		wh.svc.log.WarnContext(ctx, "webhook signature rejected", logger.Error(err))
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var event webhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "malformed payload", http.StatusBadRequest)
		return
	}

	subscription, relevant := transitionFor(event)
	if !relevant {
		// Unhandled event types are acknowledged so Paddle stops
		// retrying them.
		writeReceived(w)
		return
	}

	userID := event.Data.CustomData.UserID
	if userID == "" {
		wh.svc.log.WarnContext(ctx, "webhook event without user id",
			slog.String("event_type", event.EventType))
		http.Error(w, "missing user id", http.StatusBadRequest)
		return
	}

	if err := wh.svc.Apply(ctx, userID, subscription); err != nil {
		wh.svc.log.ErrorContext(ctx, "failed to apply subscription transition",
			logger.Error(err),
			logger.UserID(userID),
		)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeReceived(w)
}

// transitionFor maps a Paddle event to the subscription tier it
// implies. Active subscriptions grant the premium tier; cancellation,
// pausing, and payment trouble revert to free.
func transitionFor(event webhookEvent) (subscription string, relevant bool) {
	switch event.EventType {
	case "subscription.created", "subscription.activated", "subscription.updated", "subscription.resumed":
		switch event.Data.Status {
		case "active", "trialing":
			return rbac.SubscriptionPremium, true
		default:
			return "", true
		}
	case "subscription.canceled", "subscription.paused", "subscription.past_due":
		return "", true
	default:
		return "", false
	}
}

func writeReceived(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]bool{"received": true})
}
