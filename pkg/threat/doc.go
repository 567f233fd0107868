// Package threat flags requests whose path or user agent matches a known
// attack signature.
//
// The detector holds a fixed, ordered list of named signatures (directory
// traversal, script injection, SQL union probes, code evaluation, command
// injection). The first matching signature wins. The detector never
// sanitizes input; it only classifies, and the pipeline converts a positive
// classification into a 403 before any further work is done.
//
// All patterns compile under Go's RE2 engine, so a scan is linear in the
// input length with no backtracking blowup. The detector runs on every
// request, authenticated or not, and is safe for concurrent use.
package threat
