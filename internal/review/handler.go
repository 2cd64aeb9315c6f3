package review

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/auth"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{
		repo: NewRepository(db),
	}
}

// AddReview godoc
// @Summary      Add station review
// @Tags         reviews
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        stationID  path      string            true  "Station ID"
// @Param        request    body      AddReviewRequest  true  "Review"
// @Success      201        {object}  Review
// @Failure      400        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /stations/{stationID}/reviews [post]
func (h *Handler) AddReview(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
		return
	}

	rev, err := h.repo.AddReview(c.Request.Context(), c.Param("stationID"), userID, req.Rating, strings.TrimSpace(req.ReviewText))
	if err != nil {
		if err == ErrInvalidRating {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add review"})
		return
	}

	c.JSON(http.StatusCreated, rev)
}

// ListStationReviews godoc
// @Summary      Station reviews
// @Description  Returns reviews for a station with the average rating.
// @Tags         reviews
// @Produce      json
// @Param        stationID  path      string  true  "Station ID"
// @Success      200        {object}  map[string]interface{}
// @Failure      500        {object}  gin.H
// @Router       /stations/{stationID}/reviews [get]
func (h *Handler) ListStationReviews(c *gin.Context) {
	stationID := c.Param("stationID")

	reviews, err := h.repo.ListByStation(c.Request.Context(), stationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	avg, err := h.repo.AverageRating(c.Request.Context(), stationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch average rating"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":        reviews,
		"average_rating": avg,
	})
}

// ListMyReviews godoc
// @Summary      My reviews
// @Tags         reviews
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   ReviewWithStation
// @Failure      500  {object}  gin.H
// @Router       /me/reviews [get]
func (h *Handler) ListMyReviews(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	reviews, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// AddComment godoc
// @Summary      Add station comment
// @Tags         comments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        stationID  path      string             true  "Station ID"
// @Param        request    body      AddCommentRequest  true  "Comment"
// @Success      201        {object}  Comment
// @Failure      400        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /stations/{stationID}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.CommentText) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment cannot be empty"})
		return
	}

	com, err := h.repo.AddComment(c.Request.Context(), c.Param("stationID"), userID, strings.TrimSpace(req.CommentText))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}

	c.JSON(http.StatusCreated, com)
}

// ListStationComments godoc
// @Summary      Station comments
// @Tags         comments
// @Produce      json
// @Param        stationID  path      string  true  "Station ID"
// @Success      200        {array}   CommentWithAuthor
// @Failure      500        {object}  gin.H
// @Router       /stations/{stationID}/comments [get]
func (h *Handler) ListStationComments(c *gin.Context) {
	comments, err := h.repo.ListComments(c.Request.Context(), c.Param("stationID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, comments)
}
