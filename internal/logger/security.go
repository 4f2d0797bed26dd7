// Package logger provides security event logging for the mailroom backend.
package logger

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// SecurityLogger emits structured security events. Credentials and other
// sensitive values never pass through it, only metadata about the attempt.
type SecurityLogger struct {
	logger *slog.Logger
}

// NewSecurityLogger creates a SecurityLogger writing JSON to stdout.
func NewSecurityLogger() *SecurityLogger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return &SecurityLogger{logger: slog.New(handler)}
}

// NewSecurityLoggerWithHandler creates a SecurityLogger over a custom handler.
func NewSecurityLoggerWithHandler(handler slog.Handler) *SecurityLogger {
	return &SecurityLogger{logger: slog.New(handler)}
}

// event emits one warn-level record tagged with its event_type and a UTC
// timestamp. All the specific loggers below funnel through here so every
// event shares the same shape.
func (s *SecurityLogger) event(msg, eventType string, attrs ...slog.Attr) {
	record := make([]slog.Attr, 0, len(attrs)+2)
	record = append(record, slog.String("event_type", eventType))
	record = append(record, attrs...)
	record = append(record, slog.Time("timestamp", time.Now().UTC()))
	s.logger.LogAttrs(context.Background(), slog.LevelWarn, msg, record...)
}

// AuthFailure records a rejected API key. The key itself is never logged.
func (s *SecurityLogger) AuthFailure(ip, path, reason string) {
	s.event("authentication_failure", "auth_failure",
		slog.String("ip", ip),
		slog.String("path", path),
		slog.String("reason", reason),
	)
}

// RateLimitExceeded records a caller pushed past the request budget.
func (s *SecurityLogger) RateLimitExceeded(ip, path string) {
	s.event("rate_limit_exceeded", "rate_limit",
		slog.String("ip", ip),
		slog.String("path", path),
	)
}

// PathTraversalAttempt records a request that tried to escape the image store.
func (s *SecurityLogger) PathTraversalAttempt(ip, path, attemptedPath string) {
	s.event("path_traversal_attempt", "path_traversal",
		slog.String("ip", ip),
		slog.String("path", path),
		slog.String("attempted_path", attemptedPath),
	)
}

// InvalidOrigin records a websocket upgrade refused for its Origin header.
func (s *SecurityLogger) InvalidOrigin(ip, origin string) {
	s.event("invalid_origin", "invalid_origin",
		slog.String("ip", ip),
		slog.String("origin", origin),
	)
}

// Warn logs a general security warning.
func (s *SecurityLogger) Warn(msg string, args ...any) {
	s.logger.Warn(msg, args...)
}

// GetLogger returns the underlying slog.Logger.
func (s *SecurityLogger) GetLogger() *slog.Logger {
	return s.logger
}
