package gateway

import (
	"log/slog"

	"github.com/ecooverlay/server/pkg/clientip"
	"github.com/ecooverlay/server/pkg/identity"
	"github.com/ecooverlay/server/pkg/ratelimit"
	"github.com/ecooverlay/server/pkg/routes"
	"github.com/ecooverlay/server/pkg/secevent"
	"github.com/ecooverlay/server/pkg/security"
	"github.com/ecooverlay/server/pkg/threat"
)

// Gateway holds the pipeline's collaborators.
type Gateway struct {
	classifier *routes.Classifier
	detector   *threat.Detector
	limiter    *ratelimit.Limiter
	extractor  *clientip.Extractor
	resolver   identity.Resolver
	cors       *security.CORS
	events     *secevent.Logger
	log        *slog.Logger
}

// Option configures the Gateway.
type Option func(*Gateway)

// WithClassifier overrides the route classifier.
func WithClassifier(c *routes.Classifier) Option {
	return func(g *Gateway) {
		if c != nil {
			g.classifier = c
		}
	}
}

// WithDetector overrides the threat detector.
func WithDetector(d *threat.Detector) Option {
	return func(g *Gateway) {
		if d != nil {
			g.detector = d
		}
	}
}

// WithExtractor overrides the client IP extractor.
func WithExtractor(e *clientip.Extractor) Option {
	return func(g *Gateway) {
		if e != nil {
			g.extractor = e
		}
	}
}

// WithCORS overrides the CORS policy.
func WithCORS(c *security.CORS) Option {
	return func(g *Gateway) {
		if c != nil {
			g.cors = c
		}
	}
}

// WithEvents overrides the security-event logger.
func WithEvents(l *secevent.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.events = l
		}
	}
}

// WithLogger overrides the application logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.log = l
		}
	}
}

// New builds a Gateway around the rate limiter and session resolver.
// All other collaborators default to their standard configuration.
func New(limiter *ratelimit.Limiter, resolver identity.Resolver, opts ...Option) *Gateway {
	g := &Gateway{
		classifier: routes.NewClassifier(),
		detector:   threat.NewDetector(),
		limiter:    limiter,
		extractor:  clientip.New(clientip.Config{TrustProxyHeaders: true}),
		resolver:   resolver,
		cors:       security.NewCORS(security.Config{}),
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.events == nil {
		g.events = secevent.NewLogger(g.log)
	}
	return g
}
