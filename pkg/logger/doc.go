// Package logger builds the application's slog.Logger. It supports
// JSON and text output, static attributes, and context extractors that
// inject request-scoped values (request ID, client IP) into every
// record at log time.
package logger
