// Package logger provides structured logging for NetKeep.
//
// It wraps log/slog:
//
//   - logger.go: handler construction, level control, the default logger
//   - context.go: context propagation of the logger, request and cycle IDs
//   - redact.go: masking of credentials (Wi-Fi passwords, PSKs)
//
// Wi-Fi passwords pass through several layers (settings store, selector,
// management API); any attribute whose key looks like a credential is
// replaced before it reaches the output.
package logger
