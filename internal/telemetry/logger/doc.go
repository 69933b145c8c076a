// Package logger provides structured logging for the preview servers.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, text/JSON handlers, level parsing
//   - context.go: request ID propagation
//
// Log lines go to stderr by default so that stdout carries only the
// operator banner.
package logger
