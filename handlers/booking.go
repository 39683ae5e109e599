package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reserva/middleware"
	"reserva/models"
	bookingSvc "reserva/services/booking"
)

// CreateBookingHandler reserves a slot and returns the created booking.
func CreateBookingHandler(svc bookingSvc.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}

		booked, err := svc.CreateBooking(c.Request.Context(), req)
		if err != nil {
			writeBookingError(c, err)
			return
		}

		getLogger(c).Info("booking created",
			zap.String("bookingNumber", booked.BookingNumber),
			zap.String("provider", booked.ProviderRef))
		c.JSON(http.StatusCreated, booked)
	}
}

// GetBookingHandler returns one booking by ID.
func GetBookingHandler(svc bookingSvc.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		booked, err := svc.GetBooking(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeBookingError(c, err)
			return
		}
		c.JSON(http.StatusOK, booked)
	}
}

// AcceptBookingHandler confirms a pending booking.
func AcceptBookingHandler(svc bookingSvc.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, _ := middleware.ActorFrom(c)
		booked, err := svc.Accept(c.Request.Context(), c.Param("id"), actor)
		if err != nil {
			writeBookingError(c, err)
			return
		}
		c.JSON(http.StatusOK, booked)
	}
}

// RejectBookingHandler declines a pending booking, refunding per policy.
func RejectBookingHandler(svc bookingSvc.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.StatusActionRequest
		_ = c.ShouldBindJSON(&req)

		actor, _ := middleware.ActorFrom(c)
		booked, err := svc.Reject(c.Request.Context(), c.Param("id"), actor, req.Reason)
		if err != nil {
			writeBookingError(c, err)
			return
		}
		c.JSON(http.StatusOK, booked)
	}
}

// StartBookingHandler marks a confirmed booking as in progress.
func StartBookingHandler(svc bookingSvc.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, _ := middleware.ActorFrom(c)
		booked, err := svc.Start(c.Request.Context(), c.Param("id"), actor)
		if err != nil {
			writeBookingError(c, err)
			return
		}
		c.JSON(http.StatusOK, booked)
	}
}

// CompleteBookingHandler finishes an in-progress booking.
func CompleteBookingHandler(svc bookingSvc.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.StatusActionRequest
		_ = c.ShouldBindJSON(&req)

		actor, _ := middleware.ActorFrom(c)
		booked, err := svc.Complete(c.Request.Context(), c.Param("id"), actor, req.ActualDurationMinutes)
		if err != nil {
			writeBookingError(c, err)
			return
		}
		c.JSON(http.StatusOK, booked)
	}
}

// CancelBookingHandler cancels an active booking and computes the refund.
func CancelBookingHandler(svc bookingSvc.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.StatusActionRequest
		_ = c.ShouldBindJSON(&req)

		actor, _ := middleware.ActorFrom(c)
		booked, err := svc.Cancel(c.Request.Context(), c.Param("id"), actor, req.Reason)
		if err != nil {
			writeBookingError(c, err)
			return
		}
		c.JSON(http.StatusOK, booked)
	}
}

// NoShowBookingHandler records a customer no-show on a confirmed booking.
func NoShowBookingHandler(svc bookingSvc.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.StatusActionRequest
		_ = c.ShouldBindJSON(&req)

		actor, _ := middleware.ActorFrom(c)
		booked, err := svc.MarkNoShow(c.Request.Context(), c.Param("id"), actor, req.Reason)
		if err != nil {
			writeBookingError(c, err)
			return
		}
		c.JSON(http.StatusOK, booked)
	}
}

// AddMessageHandler appends a message to the booking thread.
func AddMessageHandler(svc bookingSvc.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AddMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}

		actor, _ := middleware.ActorFrom(c)
		booked, err := svc.AddMessage(c.Request.Context(), c.Param("id"), actor, req.Text)
		if err != nil {
			writeBookingError(c, err)
			return
		}
		c.JSON(http.StatusOK, booked)
	}
}
