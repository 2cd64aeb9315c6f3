package booking

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, userID int, stationID, bookingDate, bookingTime string, durationHours float64, totalAmount decimal.Decimal, description string) (*Booking, error)
	Cancel(ctx context.Context, bookingID, userID int) (*Booking, error)
	GetByID(ctx context.Context, bookingID int) (*Booking, error)
	Upcoming(ctx context.Context, userID int) ([]BookingWithStation, error)
	History(ctx context.Context, userID int) ([]BookingWithStation, *ChargingStats, error)
	ListAll(ctx context.Context) ([]BookingWithUser, error)
}
