package payment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/email"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/logger"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/metrics"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/notification"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/user"
)

type Service interface {
	Submit(ctx context.Context, userID int, amount decimal.Decimal, transactionRef, method string) (*PaymentRequest, error)
	Approve(ctx context.Context, requestID int, adminNotes string) error
	Reject(ctx context.Context, requestID int, adminNotes string) error
}

type service struct {
	paymentRepo      Repository
	userRepo         user.Repository
	notificationRepo notification.Repository
	emailService     *email.Service
}

func NewService(
	paymentRepo Repository,
	userRepo user.Repository,
	notificationRepo notification.Repository,
	emailService *email.Service,
) Service {
	return &service{
		paymentRepo:      paymentRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		emailService:     emailService,
	}
}

func (s *service) Submit(ctx context.Context, userID int, amount decimal.Decimal, transactionRef, method string) (*PaymentRequest, error) {
	request, err := s.paymentRepo.Create(ctx, userID, amount, transactionRef, method)
	if err != nil {
		return nil, err
	}

	metrics.RecordPaymentRequest(StatusPending)

	if err := s.notificationRepo.Create(ctx, userID, nil,
		fmt.Sprintf("Payment request of ₹%s submitted and awaiting verification", amount.StringFixed(2))); err != nil {
		logger.Errorf("Failed to create notification for payment request %d: %v", request.ID, err)
	}

	return request, nil
}

// Approve credits the wallet exactly once. The repository resolves the
// request and applies the credit in a single transaction, and its
// pending guard rejects a request that was already approved or rejected
// before any money moves.
func (s *service) Approve(ctx context.Context, requestID int, adminNotes string) error {
	request, err := s.paymentRepo.Approve(ctx, requestID, adminNotes)
	if err != nil {
		return err
	}

	metrics.RecordPaymentRequest(StatusApproved)

	amount := request.Amount.StringFixed(2)
	if err := s.notificationRepo.Create(ctx, request.UserID, nil,
		fmt.Sprintf("Your payment of ₹%s has been approved and added to your wallet", amount)); err != nil {
		logger.Errorf("Failed to create approval notification for request %d: %v", requestID, err)
	}

	if u, err := s.userRepo.FindByID(ctx, request.UserID); err == nil {
		s.emailService.SendPaymentApproved(ctx, u.Email, u.Name, amount)
	}

	return nil
}

func (s *service) Reject(ctx context.Context, requestID int, adminNotes string) error {
	request, err := s.paymentRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}

	if err := s.paymentRepo.Resolve(ctx, requestID, StatusRejected, adminNotes); err != nil {
		return err
	}

	metrics.RecordPaymentRequest(StatusRejected)

	amount := request.Amount.StringFixed(2)
	if err := s.notificationRepo.Create(ctx, request.UserID, nil,
		fmt.Sprintf("Your payment of ₹%s was rejected. Contact support if you believe this is a mistake", amount)); err != nil {
		logger.Errorf("Failed to create rejection notification for request %d: %v", requestID, err)
	}

	if u, err := s.userRepo.FindByID(ctx, request.UserID); err == nil {
		s.emailService.SendPaymentRejected(ctx, u.Email, u.Name, amount, adminNotes)
	}

	return nil
}
