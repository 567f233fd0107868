// Package gateway runs every inbound request through the governance
// pipeline: static assets skip it, preflight requests are answered
// directly, then threat detection, tiered rate limiting, and the
// session gate decide whether the request reaches its handler. All
// responses leave with the security-header set, CORS headers for
// trusted origins, and an X-Response-Time measurement.
//
// Blocked requests are answered with a JSON body carrying a stable
// machine-readable code and are recorded as security events.
package gateway
