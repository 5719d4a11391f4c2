package booking

import (
	"errors"
	"fmt"
)

// Domain-level error values returned by the booking service.
var (
	ErrListingNotFound         = errors.New("listing not found")
	ErrRoomNotFound            = errors.New("room not found")
	ErrBookingNotFound         = errors.New("booking not found")
	ErrProfileNotFound         = errors.New("profile not found")
	ErrDuplicateRecord         = errors.New("record already exists")
	ErrListingHasBookings      = errors.New("listing has bookings")
	ErrRoomListingMismatch     = errors.New("room does not belong to listing")
	ErrSessionRequired         = errors.New("session required")
	ErrForbidden               = errors.New("forbidden")
	ErrSelectionIncomplete     = errors.New("selection incomplete")
	ErrInvalidStayRange        = errors.New("invalid stay range")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrReviewNotEligible       = errors.New("review requires a confirmed booking")
	ErrEmptyComment            = errors.New("missing comment")
	ErrWalletUnavailable       = errors.New("wallet not found")
	ErrWalletRequestFailed     = errors.New("wallet request failed")
	ErrPaymentInProgress       = errors.New("payment in progress")
	ErrDialogClosed            = errors.New("payment dialog closed")
	ErrInvalidPaymentChoice    = errors.New("invalid payment choice")
	ErrInvalidUserID           = errors.New("invalid user id")
	ErrInvalidListingID        = errors.New("invalid listing id")
	ErrInvalidRoomID           = errors.New("invalid room id")
	ErrInvalidBookingID        = errors.New("invalid booking id")
	ErrInvalidReviewID         = errors.New("invalid review id")
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrInvalidGuestCount       = errors.New("invalid guest count")
	ErrInvalidRating           = errors.New("invalid rating")
	ErrInvalidBookingStatus    = errors.New("invalid booking status")
	ErrInvalidListingSort      = errors.New("invalid listing sort")
	ErrInvalidListing          = errors.New("invalid listing")
	ErrInvalidRoom             = errors.New("invalid room")
	ErrInvalidHostApplication  = errors.New("invalid host application")
	ErrInvalidServiceConfig    = errors.New("invalid service config")
)

// OperationError wraps a failure with a stable operation code.
type OperationError struct {
	operation string
	subject   string
	code      string
	err       error
}

// Error returns the formatted error message.
func (operationError OperationError) Error() string {
	return fmt.Sprintf("%s.%s.%s: %v", operationError.operation, operationError.subject, operationError.code, operationError.err)
}

// Unwrap returns the underlying error.
func (operationError OperationError) Unwrap() error {
	return operationError.err
}

// Operation returns the operation segment.
func (operationError OperationError) Operation() string {
	return operationError.operation
}

// Subject returns the subject segment.
func (operationError OperationError) Subject() string {
	return operationError.subject
}

// Code returns the stable error code segment.
func (operationError OperationError) Code() string {
	return operationError.code
}

// WrapError wraps an error with operation, subject, and code metadata.
func WrapError(operation string, subject string, code string, err error) error {
	if err == nil {
		return nil
	}
	return OperationError{
		operation: operation,
		subject:   subject,
		code:      code,
		err:       err,
	}
}
