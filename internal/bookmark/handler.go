package bookmark

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/auth"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/logger"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/notification"
)

type Handler struct {
	repo      Repository
	notifRepo notification.Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{
		repo:      NewRepository(db),
		notifRepo: notification.NewRepository(db),
	}
}

// Add godoc
// @Summary      Bookmark station
// @Tags         bookmarks
// @Security     BearerAuth
// @Produce      json
// @Param        stationID  path      string  true  "Station ID"
// @Success      201        {object}  Bookmark
// @Failure      409        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /stations/{stationID}/bookmark [post]
func (h *Handler) Add(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	stationID := c.Param("stationID")

	b, err := h.repo.Add(c.Request.Context(), userID, stationID)
	if err != nil {
		if err == ErrAlreadyBookmarked {
			c.JSON(http.StatusConflict, gin.H{"error": "Already bookmarked"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to bookmark station"})
		return
	}

	if err := h.notifRepo.Create(c.Request.Context(), userID, &stationID, "You bookmarked a station"); err != nil {
		logger.Errorf("Failed to record bookmark notification for user %d: %v", userID, err)
	}

	c.JSON(http.StatusCreated, b)
}

// Remove godoc
// @Summary      Remove bookmark
// @Tags         bookmarks
// @Security     BearerAuth
// @Produce      json
// @Param        stationID  path      string  true  "Station ID"
// @Success      200        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /stations/{stationID}/bookmark [delete]
func (h *Handler) Remove(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.repo.Remove(c.Request.Context(), userID, c.Param("stationID")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove bookmark"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bookmark removed"})
}

// ListMine godoc
// @Summary      My bookmarked stations
// @Tags         bookmarks
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   BookmarkedStation
// @Failure      500  {object}  gin.H
// @Router       /me/bookmarks [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookmarks, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookmarks"})
		return
	}

	c.JSON(http.StatusOK, bookmarks)
}
