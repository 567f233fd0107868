// Package clientip extracts the client IP address used for rate-limit
// identifiers and security-event logging.
//
// Proxy headers are spoofable by anyone who can reach the origin directly,
// so header trust is an explicit deployment decision rather than a default:
// the extractor only consults X-Forwarded-For, X-Real-IP and
// CF-Connecting-IP when constructed with TrustProxyHeaders enabled, which is
// only safe when the service is reachable exclusively through a proxy that
// strips or overwrites those headers. Without trust, the TCP peer address is
// authoritative.
//
// The middleware resolves the IP once per request and stores it in the
// context so later stages agree on a single value.
package clientip
