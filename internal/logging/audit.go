package logging

import (
	"context"
	"log/slog"

	"github.com/kunalkv2000/reset-password/domain"
)

// AuditLogger writes audit events as structured log records
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates an audit logger on top of logger
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger.With(slog.String("component", "audit"))}
}

var _ domain.AuditLogger = (*AuditLogger)(nil)

// LogEvent implements domain.AuditLogger
func (a *AuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	attrs := []slog.Attr{
		slog.String("event_type", string(event.EventType)),
		slog.Bool("success", event.Success),
		slog.Time("timestamp", event.Timestamp),
	}
	if event.UserID != "" {
		attrs = append(attrs, slog.String("user_id", event.UserID))
	}
	if event.Email != "" {
		attrs = append(attrs, slog.String("email", event.Email))
	}
	if event.ErrorMsg != "" {
		attrs = append(attrs, slog.String("error", event.ErrorMsg))
	}
	if len(event.Metadata) > 0 {
		attrs = append(attrs, slog.Any("metadata", event.Metadata))
	}

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	a.logger.LogAttrs(ctx, level, "audit event", attrs...)
	return nil
}
