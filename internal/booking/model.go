package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"

	PaymentPaid = "paid"
)

// Booking is a paid charging-slot reservation. BookingDate and
// BookingTime are kept as "2006-01-02" and "15:04" strings; whether a
// booking is upcoming or past is derived by comparing them against the
// clock at query time, never stored.
type Booking struct {
	ID            int             `db:"id" json:"id"`
	UserID        int             `db:"user_id" json:"user_id"`
	StationID     string          `db:"station_id" json:"station_id"`
	BookingDate   string          `db:"booking_date" json:"booking_date"`
	BookingTime   string          `db:"booking_time" json:"booking_time"`
	DurationHours float64         `db:"duration_hours" json:"duration_hours"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	PaymentStatus string          `db:"payment_status" json:"payment_status"`
	BookingStatus string          `db:"booking_status" json:"booking_status"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

type BookingWithStation struct {
	Booking
	StationName string `db:"station_name" json:"station_name"`
	City        string `db:"city" json:"city"`
	Operator    string `db:"operator" json:"operator"`
}

type BookingWithUser struct {
	Booking
	UserName    string `db:"user_name" json:"user_name"`
	UserEmail   string `db:"user_email" json:"user_email"`
	StationName string `db:"station_name" json:"station_name"`
}

// ChargingStats aggregates a user's completed sessions.
type ChargingStats struct {
	TotalSessions int             `db:"total_sessions" json:"total_sessions"`
	TotalSpent    decimal.Decimal `db:"total_spent" json:"total_spent"`
	TotalHours    float64         `db:"total_hours" json:"total_hours"`
}

type CreateBookingRequest struct {
	BookingDate   string  `json:"booking_date" binding:"required"`
	BookingTime   string  `json:"booking_time" binding:"required"`
	DurationHours float64 `json:"duration_hours" binding:"required,gt=0"`
	ChargerIndex  int     `json:"charger_index"`
}
