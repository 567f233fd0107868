package clientip

import "net/http"

// Middleware resolves the client IP once and stores it in the request
// context for downstream stages.
func Middleware(e *Extractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := SetIPToContext(r.Context(), e.GetIP(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
