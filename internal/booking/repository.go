package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/metrics"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/wallet"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
)

const bookingColumns = `id, user_id, station_id, booking_date, booking_time, duration_hours,
	total_amount, payment_status, booking_status, created_at`

type repository struct {
	db         *sqlx.DB
	walletRepo wallet.Repository
}

func NewRepository(db *sqlx.DB, walletRepo wallet.Repository) Repository {
	return &repository{db: db, walletRepo: walletRepo}
}

// Create settles a booking in one database transaction: the booking
// row is inserted, then the wallet is debited under its row lock. An
// insufficient balance rolls everything back, so a failed booking
// leaves neither a booking row nor a ledger entry.
func (r *repository) Create(ctx context.Context, userID int, stationID, bookingDate, bookingTime string, durationHours float64, totalAmount decimal.Decimal, description string) (*Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var booking Booking
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO bookings (user_id, station_id, booking_date, booking_time, duration_hours, total_amount, payment_status, booking_status)
		VALUES ($1, $2, $3, $4, $5, $6, 'paid', 'confirmed')
		RETURNING `+bookingColumns,
		userID, stationID, bookingDate, bookingTime, durationHours, totalAmount,
	).StructScan(&booking)
	if err != nil {
		return nil, err
	}

	if err := r.walletRepo.DebitTx(ctx, tx, userID, totalAmount, description, &booking.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	metrics.RecordWalletTransaction(wallet.TypeDebit)
	return &booking, nil
}

// Cancel flips a confirmed booking to cancelled and credits the refund
// in the same transaction. The status guard in the UPDATE makes a
// second cancel a no-op instead of a second refund.
func (r *repository) Cancel(ctx context.Context, bookingID, userID int) (*Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var booking Booking
	err = tx.QueryRowxContext(ctx, `
		UPDATE bookings
		SET booking_status = 'cancelled'
		WHERE id = $1 AND user_id = $2 AND booking_status = 'confirmed'
		RETURNING `+bookingColumns,
		bookingID, userID,
	).StructScan(&booking)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.cancelFailure(ctx, bookingID, userID)
	}
	if err != nil {
		return nil, err
	}

	refundDescription := fmt.Sprintf("Refund for cancelled booking #%d", booking.ID)
	if err := r.walletRepo.CreditTx(ctx, tx, userID, booking.TotalAmount, refundDescription, &booking.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	metrics.RecordWalletTransaction(wallet.TypeCredit)
	return &booking, nil
}

func (r *repository) cancelFailure(ctx context.Context, bookingID, userID int) error {
	var status string
	err := r.db.GetContext(ctx, &status,
		`SELECT booking_status FROM bookings WHERE id = $1 AND user_id = $2`,
		bookingID, userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}
	if status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	return ErrBookingNotFound
}

func (r *repository) GetByID(ctx context.Context, bookingID int) (*Booking, error) {
	var booking Booking
	err := r.db.GetContext(ctx, &booking,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`,
		bookingID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// Upcoming returns confirmed bookings at or after the current moment.
// A booking dated exactly now still counts as upcoming.
func (r *repository) Upcoming(ctx context.Context, userID int) ([]BookingWithStation, error) {
	var bookings []BookingWithStation
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT b.id, b.user_id, b.station_id, b.booking_date, b.booking_time, b.duration_hours,
		       b.total_amount, b.payment_status, b.booking_status, b.created_at,
		       s.name AS station_name, s.city, s.operator
		FROM bookings b
		JOIN stations s ON s.station_id = b.station_id
		WHERE b.user_id = $1
		  AND b.booking_status = 'confirmed'
		  AND (b.booking_date || ' ' || b.booking_time)::timestamp >= NOW()
		ORDER BY b.booking_date ASC, b.booking_time ASC
	`, userID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) History(ctx context.Context, userID int) ([]BookingWithStation, *ChargingStats, error) {
	var bookings []BookingWithStation
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT b.id, b.user_id, b.station_id, b.booking_date, b.booking_time, b.duration_hours,
		       b.total_amount, b.payment_status, b.booking_status, b.created_at,
		       s.name AS station_name, s.city, s.operator
		FROM bookings b
		JOIN stations s ON s.station_id = b.station_id
		WHERE b.user_id = $1
		  AND b.booking_status = 'confirmed'
		  AND (b.booking_date || ' ' || b.booking_time)::timestamp < NOW()
		ORDER BY b.booking_date DESC, b.booking_time DESC
	`, userID)
	if err != nil {
		return nil, nil, err
	}

	var stats ChargingStats
	err = r.db.GetContext(ctx, &stats, `
		SELECT COUNT(*) AS total_sessions,
		       COALESCE(SUM(total_amount), 0) AS total_spent,
		       COALESCE(SUM(duration_hours), 0) AS total_hours
		FROM bookings
		WHERE user_id = $1
		  AND booking_status = 'confirmed'
		  AND (booking_date || ' ' || booking_time)::timestamp < NOW()
	`, userID)
	if err != nil {
		return nil, nil, err
	}

	return bookings, &stats, nil
}

func (r *repository) ListAll(ctx context.Context) ([]BookingWithUser, error) {
	var bookings []BookingWithUser
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT b.id, b.user_id, b.station_id, b.booking_date, b.booking_time, b.duration_hours,
		       b.total_amount, b.payment_status, b.booking_status, b.created_at,
		       u.name AS user_name, u.email AS user_email,
		       s.name AS station_name
		FROM bookings b
		JOIN users u ON u.id = b.user_id
		JOIN stations s ON s.station_id = b.station_id
		ORDER BY b.created_at DESC
	`)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}
