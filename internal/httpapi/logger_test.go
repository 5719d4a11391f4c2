package httpapi

import (
	"context"
	"errors"
	"testing"

	"github.com/MarkoPoloResearchLab/realstay/pkg/booking"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapOperationLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	operationLogger := NewZapOperationLogger(zap.New(core))
	userID, err := booking.NewUserID("guest-user")
	if err != nil {
		t.Fatalf("user id: %v", err)
	}

	operationLogger.LogOperation(context.Background(), booking.OperationLog{
		Operation:     "book",
		UserID:        userID,
		Amount:        22000,
		PaymentMethod: booking.PaymentMethodWallet,
		Status:        "ok",
	})
	operationLogger.LogOperation(context.Background(), booking.OperationLog{
		Operation: "cancel",
		UserID:    userID,
		Status:    "error",
		Error:     errors.New("boom"),
	})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[0].ContextMap()["amount"] != int64(22000) {
		t.Fatalf("unexpected success entry: %+v", entries[0])
	}
	if entries[0].ContextMap()["payment_method"] != "metamask" {
		t.Fatalf("expected payment method field, got %v", entries[0].ContextMap())
	}
	if _, ok := entries[0].ContextMap()["listing_id"]; ok {
		t.Fatal("expected empty listing id to be omitted")
	}
	if entries[1].Level != zapcore.WarnLevel || entries[1].ContextMap()["error"] != "boom" {
		t.Fatalf("unexpected failure entry: %+v", entries[1])
	}
}

func TestNewZapOperationLoggerToleratesNil(t *testing.T) {
	operationLogger := NewZapOperationLogger(nil)
	operationLogger.LogOperation(context.Background(), booking.OperationLog{Operation: "profile", Status: "ok"})
}
