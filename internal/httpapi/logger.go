package httpapi

import (
	"context"

	"github.com/MarkoPoloResearchLab/realstay/pkg/booking"
	"go.uber.org/zap"
)

// ZapOperationLogger writes booking operation logs as structured zap entries.
type ZapOperationLogger struct {
	logger *zap.Logger
}

// NewZapOperationLogger returns an OperationLogger backed by logger.
func NewZapOperationLogger(logger *zap.Logger) *ZapOperationLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapOperationLogger{logger: logger}
}

// LogOperation implements booking.OperationLogger.
func (operationLogger *ZapOperationLogger) LogOperation(_ context.Context, entry booking.OperationLog) {
	fields := []zap.Field{
		zap.String("operation", entry.Operation),
		zap.String("status", entry.Status),
		zap.String("user_id", entry.UserID.String()),
	}
	if listingID := entry.ListingID.String(); listingID != "" {
		fields = append(fields, zap.String("listing_id", listingID))
	}
	if bookingID := entry.BookingID.String(); bookingID != "" {
		fields = append(fields, zap.String("booking_id", bookingID))
	}
	if entry.Amount != 0 {
		fields = append(fields, zap.Int64("amount", entry.Amount.Int64()))
	}
	if entry.PaymentMethod != "" {
		fields = append(fields, zap.String("payment_method", entry.PaymentMethod.String()))
	}
	if entry.Error != nil {
		operationLogger.logger.Warn("booking operation failed", append(fields, zap.Error(entry.Error))...)
		return
	}
	operationLogger.logger.Info("booking operation", fields...)
}
