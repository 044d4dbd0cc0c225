package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/middleware"
)

// sequenceCounterName is the shared counter every ledger entry draws its
// operation number from. One counter across all flows keeps operation numbers
// strictly increasing system-wide, not per account.
const sequenceCounterName = "TransactionSequences"

// BaseService provides logging helpers shared by all services.
type BaseService struct{}

// GetLogger returns the request-scoped logger from the context.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting.
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting.
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// monthRange returns the half-open calendar-month window containing t: the
// first day at 00:00:00 up to but excluding the first day of the next month.
// Half-open bounds leave no sub-second gap at month end.
func monthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}
