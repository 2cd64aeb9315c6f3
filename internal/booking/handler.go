package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/auth"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/wallet"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Book godoc
// @Summary      Book charging slot
// @Description  Prices the slot and pays for it from the wallet in one step.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        stationID  path      string                true  "Station ID"
// @Param        request    body      CreateBookingRequest  true  "Slot details"
// @Success      201        {object}  Booking
// @Failure      400        {object}  gin.H
// @Failure      402        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Router       /stations/{stationID}/book [post]
func (h *Handler) Book(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	stationID := c.Param("stationID")

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if _, err := time.Parse("2006-01-02", req.BookingDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking date must be YYYY-MM-DD"})
		return
	}
	if _, err := time.Parse("15:04", req.BookingTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking time must be HH:MM"})
		return
	}

	booking, err := h.service.Book(c.Request.Context(), userID, stationID, req.BookingDate, req.BookingTime, req.DurationHours, req.ChargerIndex)
	if err != nil {
		switch {
		case errors.Is(err, ErrStationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Station not found"})
		case errors.Is(err, ErrInsufficientFunds), errors.Is(err, wallet.ErrInsufficientBalance):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient wallet balance"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		}
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// Cancel godoc
// @Summary      Cancel booking
// @Description  Cancels a confirmed booking and refunds the wallet.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Router       /bookings/{bookingID}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	booking, err := h.service.Cancel(c.Request.Context(), userID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, ErrAlreadyCancelled):
			c.JSON(http.StatusConflict, gin.H{"error": "Booking already cancelled"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel booking"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking cancelled",
		"refund":  booking.TotalAmount,
	})
}

// Upcoming godoc
// @Summary      My upcoming bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   BookingWithStation
// @Failure      500  {object}  gin.H
// @Router       /bookings [get]
func (h *Handler) Upcoming(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookings, err := h.service.Upcoming(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// History godoc
// @Summary      My charging history
// @Description  Past confirmed bookings with session aggregates.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  gin.H
// @Failure      500  {object}  gin.H
// @Router       /bookings/history [get]
func (h *Handler) History(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookings, stats, err := h.service.History(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch charging history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"stats":    stats,
	})
}

// ListAll godoc
// @Summary      All bookings
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   BookingWithUser
// @Failure      500  {object}  gin.H
// @Router       /admin/bookings [get]
func (h *Handler) ListAll(c *gin.Context) {
	bookings, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}
