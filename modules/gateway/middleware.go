package gateway

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ecooverlay/server/pkg/clientip"
	"github.com/ecooverlay/server/pkg/identity"
	"github.com/ecooverlay/server/pkg/logger"
	"github.com/ecooverlay/server/pkg/ratelimit"
	"github.com/ecooverlay/server/pkg/routes"
	"github.com/ecooverlay/server/pkg/secevent"
	"github.com/ecooverlay/server/pkg/security"
)

// signInPath receives redirected page requests that lack a session.
const signInPath = "/sign-in"

// Middleware runs the full governance pipeline around next.
func (g *Gateway) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if g.classifier.IsStatic(path) {
			next.ServeHTTP(w, r)
			return
		}

		tw := newTimingWriter(w, time.Now())

		ip := g.extractor.GetIP(r)
		r = r.WithContext(clientip.SetIPToContext(r.Context(), ip))
		ctx := r.Context()

		defer func() {
			if rec := recover(); rec != nil {
				g.log.ErrorContext(ctx, "handler panic",
					slog.Any("panic", rec),
					slog.String("path", path),
					logger.ClientIP(ip),
				)
				if !tw.wroteHeader {
					writeError(tw, http.StatusInternalServerError, "Internal server error", CodeInternalError)
				}
			}
		}()

		security.ApplyHeaders(tw)
		g.cors.Apply(tw, r)

		if r.Method == http.MethodOptions {
			tw.WriteHeader(http.StatusNoContent)
			return
		}

		if signature, suspicious := g.detector.Scan(path, r.UserAgent()); suspicious {
			g.events.Log(ctx, secevent.Event{
				IP:         ip,
				Action:     secevent.ActionBlocked,
				Resource:   path,
				Method:     r.Method,
				StatusCode: http.StatusForbidden,
				UserAgent:  r.UserAgent(),
				Suspicious: true,
			})
			g.log.WarnContext(ctx, "suspicious request blocked",
				logger.ClientIP(ip),
				logger.Signature(signature),
				slog.String("path", path),
			)
			writeError(tw, http.StatusForbidden, "Forbidden", CodeSuspiciousActivity)
			return
		}

		// The session gate runs before the limiter so a rejected
		// request leaves no counter behind for its identifier.
		class := g.classifier.Classify(path)
		if class != routes.Public {
			userID, err := g.resolver.Resolve(r)
			if err != nil {
				if class == routes.ProtectedPage {
					dest := signInPath + "?redirect_url=" + url.QueryEscape(r.URL.RequestURI())
					http.Redirect(tw, r, dest, http.StatusFound)
					return
				}
				writeError(tw, http.StatusUnauthorized, "Authentication required", CodeAuthenticationRequired)
				return
			}
			r = r.WithContext(identity.WithUserID(r.Context(), userID))
		}

		if g.classifier.IsAPI(path) && !g.allowRate(tw, r, ip) {
			return
		}

		next.ServeHTTP(tw, r)

		if g.classifier.IsAPI(path) {
			g.log.DebugContext(r.Context(), "request completed",
				slog.String("method", r.Method),
				slog.String("path", path),
				slog.Int("status", tw.status),
				slog.Duration("duration", time.Since(tw.start)),
				logger.ClientIP(ip),
			)
		}
	})
}

// allowRate applies the tiered limit for an API path. It reports false
// after writing the 429 response. A limiter that cannot reach either
// of its stores fails open with an error log rather than blocking
// legitimate traffic on infrastructure trouble.
func (g *Gateway) allowRate(w http.ResponseWriter, r *http.Request, ip string) bool {
	path := r.URL.Path
	tier := g.limiter.Tiers().TierFor(path)

	res, err := g.limiter.Check(r.Context(), tier, ip+":"+path)
	if err != nil {
		g.log.ErrorContext(r.Context(), "rate limit check failed",
			logger.Error(err),
			logger.Tier(tier.Name),
			logger.ClientIP(ip),
		)
		return true
	}

	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

	if res.Allowed {
		return true
	}

	retryAfter := retrySeconds(res)
	h.Set("Retry-After", strconv.Itoa(retryAfter))

	g.events.Log(r.Context(), secevent.Event{
		IP:         ip,
		Action:     secevent.ActionRateLimited,
		Resource:   path,
		Method:     r.Method,
		StatusCode: http.StatusTooManyRequests,
		UserAgent:  r.UserAgent(),
	})
	g.log.WarnContext(r.Context(), "rate limit exceeded",
		logger.Tier(tier.Name),
		logger.ClientIP(ip),
		slog.String("path", path),
	)
	writeErrorRetry(w, http.StatusTooManyRequests, "Too many requests", CodeRateLimitExceeded, retryAfter)
	return false
}

// retrySeconds converts the window reset into whole seconds, never
// less than one so clients do not hammer on sub-second retries.
func retrySeconds(res ratelimit.Result) int {
	secs := int(res.RetryAfter().Round(time.Second).Seconds())
	return max(secs, 1)
}
