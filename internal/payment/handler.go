package payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/auth"
)

type Handler struct {
	repo    Repository
	service Service
}

func NewHandler(repo Repository, service Service) *Handler {
	return &Handler{
		repo:    repo,
		service: service,
	}
}

// Submit godoc
// @Summary      Submit wallet top-up request
// @Description  Records a payment for admin verification. The wallet is credited once approved.
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      SubmitPaymentRequest  true  "Payment details"
// @Success      201      {object}  PaymentRequest
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /wallet/topup [post]
func (h *Handler) Submit(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		return
	}

	request, err := h.service.Submit(c.Request.Context(), userID, req.Amount, req.TransactionRef, req.Method)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit payment request"})
		return
	}

	c.JSON(http.StatusCreated, request)
}

// ListMine godoc
// @Summary      My payment requests
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   PaymentRequest
// @Failure      500  {object}  gin.H
// @Router       /wallet/topup [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	requests, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment requests"})
		return
	}

	c.JSON(http.StatusOK, requests)
}

// ListPending godoc
// @Summary      Pending payment requests
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   PaymentRequestWithUser
// @Failure      500  {object}  gin.H
// @Router       /admin/payments/pending [get]
func (h *Handler) ListPending(c *gin.Context) {
	requests, err := h.repo.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment requests"})
		return
	}

	c.JSON(http.StatusOK, requests)
}

// ListAll godoc
// @Summary      All payment requests
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   PaymentRequestWithUser
// @Failure      500  {object}  gin.H
// @Router       /admin/payments [get]
func (h *Handler) ListAll(c *gin.Context) {
	requests, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment requests"})
		return
	}

	c.JSON(http.StatusOK, requests)
}

// Approve godoc
// @Summary      Approve payment request
// @Description  Credits the requested amount to the user's wallet.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        requestID  path      int                    true   "Payment request ID"
// @Param        request    body      ResolvePaymentRequest  false  "Admin notes"
// @Success      200        {object}  api.MessageResponse
// @Failure      404        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Router       /admin/payments/{requestID}/approve [post]
func (h *Handler) Approve(c *gin.Context) {
	h.resolve(c, StatusApproved)
}

// Reject godoc
// @Summary      Reject payment request
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        requestID  path      int                    true   "Payment request ID"
// @Param        request    body      ResolvePaymentRequest  false  "Admin notes"
// @Success      200        {object}  api.MessageResponse
// @Failure      404        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Router       /admin/payments/{requestID}/reject [post]
func (h *Handler) Reject(c *gin.Context) {
	h.resolve(c, StatusRejected)
}

func (h *Handler) resolve(c *gin.Context, status string) {
	requestID, err := strconv.Atoi(c.Param("requestID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var req ResolvePaymentRequest
	c.ShouldBindJSON(&req)

	if status == StatusApproved {
		err = h.service.Approve(c.Request.Context(), requestID, req.AdminNotes)
	} else {
		err = h.service.Reject(c.Request.Context(), requestID, req.AdminNotes)
	}

	if err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment request not found"})
		case errors.Is(err, ErrAlreadyResolved):
			c.JSON(http.StatusConflict, gin.H{"error": "Payment request already resolved"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve payment request"})
		}
		return
	}

	message := "Payment request approved"
	if status == StatusRejected {
		message = "Payment request rejected"
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}
