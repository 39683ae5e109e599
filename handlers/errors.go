package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	bookingSvc "reserva/services/booking"
)

// statusForCode maps engine error codes onto HTTP statuses. Availability
// rejections are 422 so clients can distinguish "bad request shape" from
// "valid request, slot not bookable".
func statusForCode(code string) int {
	switch code {
	case bookingSvc.CodeValidation:
		return http.StatusBadRequest
	case bookingSvc.CodeNotFound:
		return http.StatusNotFound
	case bookingSvc.CodeSlotConflict,
		bookingSvc.CodeLockTimeout,
		bookingSvc.CodeInvalidTransition,
		bookingSvc.CodeStaleVersion:
		return http.StatusConflict
	case bookingSvc.CodeNoProfile,
		bookingSvc.CodeDayUnavailable,
		bookingSvc.CodeDateException,
		bookingSvc.CodePastSlot,
		bookingSvc.CodeNotInSlot:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeBookingError renders an engine error as JSON. Unknown errors are
// logged and masked as 500s.
func writeBookingError(c *gin.Context, err error) {
	var engineErr *bookingSvc.Error
	if !errors.As(err, &engineErr) {
		getLogger(c).Error("unhandled booking error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	body := gin.H{
		"error": engineErr.Message,
		"code":  engineErr.Code,
	}
	if len(engineErr.Alternatives) > 0 {
		body["alternatives"] = engineErr.Alternatives
	}
	if engineErr.CurrentStatus != "" {
		body["current_status"] = engineErr.CurrentStatus
	}
	if engineErr.Retryable() {
		body["retryable"] = true
	}
	c.JSON(statusForCode(engineErr.Code), body)
}
