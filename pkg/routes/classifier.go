package routes

import (
	"path"
	"strings"
)

// Class is the coarse routing category of a request path.
type Class int

const (
	// Public routes bypass the session gate entirely.
	Public Class = iota
	// ProtectedAPI routes require a resolved identity and return JSON errors.
	ProtectedAPI
	// ProtectedPage routes require a resolved identity and serve pages.
	ProtectedPage
)

// String returns a stable name for logging.
func (c Class) String() string {
	switch c {
	case Public:
		return "public"
	case ProtectedAPI:
		return "protected_api"
	case ProtectedPage:
		return "protected_page"
	default:
		return "unknown"
	}
}

// staticExtensions mirrors the asset types the edge matcher excludes from
// middleware processing.
var staticExtensions = map[string]struct{}{
	".html": {}, ".htm": {}, ".css": {}, ".js": {}, ".jpg": {}, ".jpeg": {},
	".webp": {}, ".png": {}, ".gif": {}, ".svg": {}, ".ttf": {}, ".woff": {},
	".woff2": {}, ".ico": {}, ".csv": {}, ".doc": {}, ".docx": {}, ".xls": {},
	".xlsx": {}, ".zip": {}, ".webmanifest": {},
}

// Classifier maps request paths to a Class.
type Classifier struct {
	publicExact    []string
	publicPrefixes []string
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithPublicExact adds exact-match public paths.
func WithPublicExact(paths ...string) Option {
	return func(c *Classifier) {
		c.publicExact = append(c.publicExact, paths...)
	}
}

// WithPublicPrefixes adds prefix-match public paths.
func WithPublicPrefixes(prefixes ...string) Option {
	return func(c *Classifier) {
		c.publicPrefixes = append(c.publicPrefixes, prefixes...)
	}
}

// NewClassifier returns a Classifier preloaded with the default public route
// set: the landing page, auth pages and endpoints, the health check and the
// machine-readable API description.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		publicExact:    []string{"/", "/api/health", "/api/openapi"},
		publicPrefixes: []string{"/sign-in", "/sign-up", "/api/auth"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the Class for the given request path.
func (c *Classifier) Classify(p string) Class {
	for _, exact := range c.publicExact {
		if p == exact {
			return Public
		}
	}
	for _, prefix := range c.publicPrefixes {
		if strings.HasPrefix(p, prefix) {
			return Public
		}
	}
	if strings.HasPrefix(p, "/api/") {
		return ProtectedAPI
	}
	return ProtectedPage
}

// IsAPI reports whether the path belongs to the API surface, public or not.
// Rate limiting applies to API routes regardless of their session class.
func (c *Classifier) IsAPI(p string) bool {
	return strings.HasPrefix(p, "/api/")
}

// IsStatic reports whether the path looks like a static asset that should
// skip the pipeline altogether.
func (c *Classifier) IsStatic(p string) bool {
	if strings.HasPrefix(p, "/_next/") {
		return true
	}
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return false
	}
	// .json is data, not an asset
	if ext == ".json" {
		return false
	}
	_, ok := staticExtensions[ext]
	return ok
}
