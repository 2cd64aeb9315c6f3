package notification

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/metrics"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Repository interface {
	Create(ctx context.Context, userID int, stationID *string, message string) error
	ListByUser(ctx context.Context, userID int, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, notificationID, userID int) error
	UnreadCount(ctx context.Context, userID int) (int, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create is fire and forget for callers: persistence is the only
// delivery guarantee.
func (r *repository) Create(ctx context.Context, userID int, stationID *string, message string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, station_id, message) VALUES ($1, $2, $3)`,
		userID, stationID, message,
	)
	if err == nil {
		metrics.RecordNotification()
	}
	return err
}

func (r *repository) ListByUser(ctx context.Context, userID int, unreadOnly bool) ([]Notification, error) {
	query := `
		SELECT id, user_id, station_id, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
	`
	if unreadOnly {
		query += " AND is_read = FALSE"
	}
	query += " ORDER BY created_at DESC LIMIT 20"

	var notifications []Notification
	if err := r.db.SelectContext(ctx, &notifications, query, userID); err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *repository) MarkRead(ctx context.Context, notificationID, userID int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		notificationID, userID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

func (r *repository) UnreadCount(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`,
		userID,
	)
	if err != nil {
		return 0, err
	}

	return count, nil
}
