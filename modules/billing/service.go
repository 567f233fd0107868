package billing

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ecooverlay/server/pkg/logger"
	"github.com/ecooverlay/server/pkg/rbac"
)

// Config holds the Paddle webhook settings. An empty secret disables
// the billing endpoint.
type Config struct {
	WebhookSecret string `env:"PADDLE_WEBHOOK_SECRET"`
}

// Enabled reports whether a webhook secret is configured.
func (c Config) Enabled() bool { return c.WebhookSecret != "" }

var (
	ErrMissingWebhookSecret = errors.New("billing.missing_webhook_secret")
	ErrInvalidSignature     = errors.New("billing.invalid_signature")
	ErrMalformedPayload     = errors.New("billing.malformed_payload")
	ErrMissingUserID        = errors.New("billing.missing_user_id")
)

// Store is the slice of the user store the billing module needs: read
// a grant to preserve the user's role, write it back with the new
// subscription tier.
type Store interface {
	rbac.RoleStore
	rbac.RoleWriter
}

// Invalidator drops a cached grant after a transition is applied.
type Invalidator interface {
	Invalidate(userID string)
}

// Service applies subscription transitions from verified webhooks.
type Service struct {
	store Store
	cache Invalidator
	log   *slog.Logger
}

// NewService builds a Service over the user store. cache may be nil
// when no authorizer cache is in play, for example in tests.
func NewService(store Store, cache Invalidator, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, cache: cache, log: log}
}

// Apply records the subscription tier for userID, preserving the
// stored role. Unknown users start from the base role.
func (s *Service) Apply(ctx context.Context, userID, subscription string) error {
	grant, err := s.store.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, rbac.ErrUserNotFound) {
			return err
		}
		grant = rbac.Grant{Role: rbac.RoleUser}
	}

	grant.Subscription = subscription
	if err := s.store.Set(ctx, userID, grant); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(userID)
	}

	s.log.InfoContext(ctx, "subscription transition applied",
		logger.UserID(userID),
		slog.String("subscription", subscription),
	)
	return nil
}
