package bookmark

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/db"
)

var ErrAlreadyBookmarked = errors.New("station already bookmarked")

type Repository interface {
	Add(ctx context.Context, userID int, stationID string) (*Bookmark, error)
	Remove(ctx context.Context, userID int, stationID string) error
	ListByUser(ctx context.Context, userID int) ([]BookmarkedStation, error)
	IsBookmarked(ctx context.Context, userID int, stationID string) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) Add(ctx context.Context, userID int, stationID string) (*Bookmark, error) {
	query := `
		INSERT INTO bookmarks (user_id, station_id)
		VALUES ($1, $2)
		RETURNING id, user_id, station_id, created_at
	`

	var b Bookmark
	err := r.db.GetContext(ctx, &b, query, userID, stationID)
	if err != nil {
		var pqErr *pq.Error
		// 23505 = unique_violation on (user_id, station_id)
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrAlreadyBookmarked
		}
		return nil, err
	}

	return &b, nil
}

func (r *repository) Remove(ctx context.Context, userID int, stationID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE user_id = $1 AND station_id = $2`,
		userID, stationID,
	)
	return err
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]BookmarkedStation, error) {
	query := `
		SELECT s.station_id, s.name, s.operator, s.state, s.city, s.pincode,
		       s.charger_types, s.number_of_chargers, s.power_kw_each, s.price_per_kwh,
		       s.tariff_type, s.payment_methods, s.opening_hours, s.contact_number,
		       s.email, s.station_rating, s.num_reviews, s.parking_spaces, s.amenities,
		       s.reservation_supported, s.fast_charging_supported, s.nearby_landmark,
		       s.uptime_percent, s.status, s.latitude, s.longitude,
		       b.created_at AS bookmarked_at
		FROM bookmarks b
		JOIN stations s ON b.station_id = s.station_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
	`

	var stations []BookmarkedStation
	if err := r.db.SelectContext(ctx, &stations, query, userID); err != nil {
		return nil, err
	}

	return stations, nil
}

func (r *repository) IsBookmarked(ctx context.Context, userID int, stationID string) (bool, error) {
	return db.Exists(ctx, r.db,
		`SELECT EXISTS(SELECT 1 FROM bookmarks WHERE user_id = $1 AND station_id = $2)`,
		userID, stationID,
	)
}
