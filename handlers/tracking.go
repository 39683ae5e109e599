package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	bookingSvc "reserva/services/booking"
)

// TrackBookingHandler is the public status lookup by booking number. It
// exposes only the tracking view, never the full booking document.
func TrackBookingHandler(svc bookingSvc.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		number := c.Param("bookingNumber")
		if number == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "booking number is required"})
			return
		}

		view, err := svc.Track(c.Request.Context(), number)
		if err != nil {
			writeBookingError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
