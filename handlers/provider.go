package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reserva/models"
	providerSvc "reserva/services/provider"
)

// SetupScheduleHandler replaces the provider's weekly availability.
func SetupScheduleHandler(svc providerSvc.ScheduleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SetupScheduleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}

		providerID := c.Param("providerId")
		if err := svc.SetupSchedule(c.Request.Context(), providerID, req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"provider_id": providerID, "status": "updated"})
	}
}

// AddExceptionHandler creates or replaces a date exception.
func AddExceptionHandler(svc providerSvc.ScheduleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AddExceptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}

		providerID := c.Param("providerId")
		if err := svc.AddException(c.Request.Context(), providerID, req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"provider_id": providerID, "date": req.Date, "kind": req.Kind})
	}
}

// AddBlockedPeriodHandler closes an interval on one date.
func AddBlockedPeriodHandler(svc providerSvc.ScheduleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AddBlockedPeriodRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}

		block, err := svc.AddBlockedPeriod(c.Request.Context(), c.Param("providerId"), req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, block)
	}
}

// DayAvailabilityHandler lists bookable start times for a date and duration.
func DayAvailabilityHandler(svc providerSvc.ScheduleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		date := c.Query("date")
		if date == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
			return
		}
		duration, err := strconv.Atoi(c.DefaultQuery("duration", "60"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "duration must be an integer"})
			return
		}

		slots, err := svc.DayAvailability(c.Request.Context(), c.Param("providerId"), date, duration)
		if err != nil {
			if errors.Is(err, providerSvc.ErrNoSchedule) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			getLogger(c).Warn("availability lookup failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if slots == nil {
			slots = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"date": date, "available_times": slots})
	}
}
