// Package logger provides structured logging for RosterTrace.
//
// Loggers are plain *slog.Logger values built on a shared level variable so
// the level can be changed at runtime (config hot reload):
//
//   - logger.go: handler construction, format and level selection
//   - context.go: request-scoped logger and request id propagation
//   - redact.go: masking of credentials in attribute values
package logger
