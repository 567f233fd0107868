// Package security finalizes outgoing responses: it applies the fixed
// security-header set, computes CORS headers against an explicit origin
// allow-list and answers preflight requests.
//
// CORS origins are matched exactly or by domain suffix (entries starting
// with "."); arbitrary Origin values are never echoed back. A request from
// an unlisted origin simply receives no Access-Control-Allow-Origin header.
package security
