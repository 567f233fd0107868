package clientip

import "context"

type clientIPContextKey struct{}

// SetIPToContext stores the resolved client IP in the context.
func SetIPToContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

// GetIPFromContext retrieves the client IP from the context, or Unknown when
// no middleware resolved one.
func GetIPFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPContextKey{}).(string); ok {
		return ip
	}
	return Unknown
}
