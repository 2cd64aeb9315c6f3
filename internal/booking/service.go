package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/email"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/logger"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/metrics"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/notification"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/station"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/user"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/wallet"
)

var (
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrStationNotFound   = errors.New("station not found")
)

type Service interface {
	Book(ctx context.Context, userID int, stationID, bookingDate, bookingTime string, durationHours float64, chargerIndex int) (*Booking, error)
	Cancel(ctx context.Context, userID, bookingID int) (*Booking, error)
	Upcoming(ctx context.Context, userID int) ([]BookingWithStation, error)
	History(ctx context.Context, userID int) ([]BookingWithStation, *ChargingStats, error)
	ListAll(ctx context.Context) ([]BookingWithUser, error)
}

type service struct {
	bookingRepo      Repository
	stationRepo      station.Repository
	userRepo         user.Repository
	notificationRepo notification.Repository
	emailService     *email.Service
}

func NewService(
	bookingRepo Repository,
	stationRepo station.Repository,
	userRepo user.Repository,
	notificationRepo notification.Repository,
	emailService *email.Service,
) Service {
	return &service{
		bookingRepo:      bookingRepo,
		stationRepo:      stationRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		emailService:     emailService,
	}
}

func (s *service) Book(ctx context.Context, userID int, stationID, bookingDate, bookingTime string, durationHours float64, chargerIndex int) (*Booking, error) {
	st, err := s.stationRepo.GetByID(ctx, stationID)
	if err != nil {
		if errors.Is(err, station.ErrStationNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}

	totalAmount := price(st, durationHours, chargerIndex)
	description := fmt.Sprintf("Booking at %s on %s %s", st.Name, bookingDate, bookingTime)

	booking, err := s.bookingRepo.Create(ctx, userID, stationID, bookingDate, bookingTime, durationHours, totalAmount, description)
	if err != nil {
		if errors.Is(err, wallet.ErrInsufficientBalance) {
			metrics.RecordBooking("rejected")
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}

	metrics.RecordBooking(StatusConfirmed)

	if err := s.notificationRepo.Create(ctx, userID, &stationID,
		fmt.Sprintf("Booking confirmed at %s for %s %s", st.Name, bookingDate, bookingTime)); err != nil {
		logger.Errorf("Failed to create booking notification for booking %d: %v", booking.ID, err)
	}

	if u, err := s.userRepo.FindByID(ctx, userID); err == nil {
		s.emailService.SendBookingConfirmation(ctx, u.Email, u.Name, st.Name, bookingDate, bookingTime)
	}

	return booking, nil
}

func (s *service) Cancel(ctx context.Context, userID, bookingID int) (*Booking, error) {
	booking, err := s.bookingRepo.Cancel(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}

	metrics.RecordBookingCancellation()

	refund := booking.TotalAmount.StringFixed(2)
	if err := s.notificationRepo.Create(ctx, userID, &booking.StationID,
		fmt.Sprintf("Booking #%d cancelled. ₹%s refunded to your wallet", booking.ID, refund)); err != nil {
		logger.Errorf("Failed to create cancellation notification for booking %d: %v", booking.ID, err)
	}

	if u, err := s.userRepo.FindByID(ctx, userID); err == nil {
		s.emailService.SendBookingCancellation(ctx, u.Email, u.Name, booking.ID, refund)
	}

	return booking, nil
}

func (s *service) Upcoming(ctx context.Context, userID int) ([]BookingWithStation, error) {
	return s.bookingRepo.Upcoming(ctx, userID)
}

func (s *service) History(ctx context.Context, userID int) ([]BookingWithStation, *ChargingStats, error) {
	return s.bookingRepo.History(ctx, userID)
}

func (s *service) ListAll(ctx context.Context) ([]BookingWithUser, error) {
	return s.bookingRepo.ListAll(ctx)
}

// price multiplies the station tariff by the selected charger's power
// rating and the session length. When the tariff or power figure is
// unusable it falls back to a flat 100 per hour.
func price(st *station.Station, durationHours float64, chargerIndex int) decimal.Decimal {
	fallback := decimal.NewFromFloat(100 * durationHours)

	if !st.PricePerKWh.IsPositive() {
		return fallback
	}

	powerKW, ok := chargerPower(st.PowerKWEach, chargerIndex)
	if !ok {
		return fallback
	}

	return st.PricePerKWh.
		Mul(decimal.NewFromFloat(powerKW)).
		Mul(decimal.NewFromFloat(durationHours)).
		Round(2)
}

func chargerPower(powerKWEach string, chargerIndex int) (float64, bool) {
	parts := strings.Split(powerKWEach, ",")
	if chargerIndex < 0 || chargerIndex >= len(parts) {
		chargerIndex = 0
	}

	powerKW, err := strconv.ParseFloat(strings.TrimSpace(parts[chargerIndex]), 64)
	if err != nil || powerKW <= 0 {
		return 0, false
	}

	return powerKW, true
}
