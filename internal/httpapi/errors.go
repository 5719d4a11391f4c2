package httpapi

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/MarkoPoloResearchLab/realstay/pkg/booking"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	errorCodeUnauthorized      = "unauthorized"
	errorCodeForbidden         = "forbidden"
	errorCodeNotFound          = "not_found"
	errorCodeInvalidPayload    = "invalid_payload"
	errorCodeInvalidRequest    = "invalid_request"
	errorCodeReviewNotEligible = "review_not_eligible"
	errorCodeWalletUnavailable = "wallet_unavailable"
	errorCodePaymentFailed     = "payment_failed"
	errorCodePaymentConflict   = "payment_conflict"
	errorCodeInvalidTransition = "invalid_transition"
	errorCodeDuplicate         = "duplicate"
	errorCodeListingInUse      = "listing_in_use"
	errorCodeStore             = "store_error"

	messageMissingSession    = "missing session"
	messageWalletUnavailable = "MetaMask not found"
	messageStoreFailure      = "record store unavailable"
)

var (
	notFoundErrors = []error{
		booking.ErrListingNotFound,
		booking.ErrRoomNotFound,
		booking.ErrBookingNotFound,
		booking.ErrProfileNotFound,
	}
	validationErrors = []error{
		booking.ErrSelectionIncomplete,
		booking.ErrInvalidStayRange,
		booking.ErrEmptyComment,
		booking.ErrRoomListingMismatch,
		booking.ErrInvalidPaymentChoice,
		booking.ErrInvalidUserID,
		booking.ErrInvalidListingID,
		booking.ErrInvalidRoomID,
		booking.ErrInvalidBookingID,
		booking.ErrInvalidAmount,
		booking.ErrInvalidGuestCount,
		booking.ErrInvalidRating,
		booking.ErrInvalidListingSort,
		booking.ErrInvalidListing,
		booking.ErrInvalidRoom,
		booking.ErrInvalidHostApplication,
	}
	conflictErrors = []error{
		booking.ErrPaymentInProgress,
		booking.ErrDialogClosed,
	}
)

func (handler *httpHandler) respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrSessionRequired):
		body := errorResponse(errorCodeUnauthorized, messageMissingSession)
		body["redirect"] = booking.RouteAuth
		ctx.JSON(http.StatusUnauthorized, body)
	case errors.Is(err, booking.ErrForbidden):
		ctx.JSON(http.StatusForbidden, errorResponse(errorCodeForbidden, err.Error()))
	case errors.Is(err, booking.ErrReviewNotEligible):
		ctx.JSON(http.StatusForbidden, errorResponse(errorCodeReviewNotEligible, booking.ErrReviewNotEligible.Error()))
	case errors.Is(err, booking.ErrWalletUnavailable):
		ctx.JSON(http.StatusFailedDependency, errorResponse(errorCodeWalletUnavailable, messageWalletUnavailable))
	case errors.Is(err, booking.ErrWalletRequestFailed):
		ctx.JSON(http.StatusPaymentRequired, errorResponse(errorCodePaymentFailed, err.Error()))
	case errors.Is(err, booking.ErrInvalidStatusTransition):
		ctx.JSON(http.StatusConflict, errorResponse(errorCodeInvalidTransition, booking.ErrInvalidStatusTransition.Error()))
	case errors.Is(err, booking.ErrDuplicateRecord):
		ctx.JSON(http.StatusConflict, errorResponse(errorCodeDuplicate, booking.ErrDuplicateRecord.Error()))
	case errors.Is(err, booking.ErrListingHasBookings):
		ctx.JSON(http.StatusConflict, errorResponse(errorCodeListingInUse, booking.ErrListingHasBookings.Error()))
	case matchesAny(err, conflictErrors):
		ctx.JSON(http.StatusConflict, errorResponse(errorCodePaymentConflict, err.Error()))
	case matchesAny(err, notFoundErrors):
		ctx.JSON(http.StatusNotFound, errorResponse(errorCodeNotFound, err.Error()))
	case matchesAny(err, validationErrors):
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidRequest, err.Error()))
	default:
		handler.logger.Error("booking request failed", zap.String("path", ctx.FullPath()), zap.Error(err))
		ctx.JSON(http.StatusBadGateway, errorResponse(errorCodeStore, messageStoreFailure))
	}
}

// respondBindingError reports payload decoding and field validation failures.
func respondBindingError(ctx *gin.Context, err error) {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidPayload, describeFieldErrors(fieldErrors)))
		return
	}
	ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidPayload, "expected JSON body"))
}

func describeFieldErrors(fieldErrors validator.ValidationErrors) string {
	descriptions := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		description := fieldError.Field() + " failed " + fieldError.Tag()
		if fieldError.Param() != "" {
			description += "=" + fieldError.Param()
		}
		descriptions = append(descriptions, description)
	}
	return strings.Join(descriptions, "; ")
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var registerFieldNamesOnce sync.Once

// registerJSONFieldNames makes binding errors name fields by their JSON keys.
func registerJSONFieldNames() {
	registerFieldNamesOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		engine.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})
	})
}
