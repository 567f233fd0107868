// Package identity resolves the authenticated user behind an incoming
// request. A Resolver inspects the request's bearer token or session
// cookie and yields the user ID; the gateway uses it to gate protected
// routes. Token validation is HMAC-SHA256 with temporal claim checks.
package identity
