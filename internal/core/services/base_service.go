package services

import (
	"context"
	"log/slog"

	"github.com/vitaops/vita/internal/core/domain"
	"github.com/vitaops/vita/internal/core/ports"
	"github.com/vitaops/vita/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Notifier ports.Notifier
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Notify reports a human-readable status message. Send failures are logged
// and swallowed: a broken notification channel must never fail a financial
// operation.
func (s *BaseService) Notify(ctx context.Context, channel domain.Channel, message string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Send(ctx, channel, message); err != nil {
		s.LogDebug(ctx, "Notification send failed",
			slog.String("channel", string(channel)),
			slog.String("error", err.Error()))
	}
}
