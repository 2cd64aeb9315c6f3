package review

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/jmoiron/sqlx"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) AddReview(ctx context.Context, stationID string, userID, rating int, text string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	query := `
		INSERT INTO reviews (station_id, user_id, rating, review_text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, station_id, user_id, rating, review_text, created_at
	`

	var rev Review
	if err := r.db.GetContext(ctx, &rev, query, stationID, userID, rating, text); err != nil {
		return nil, err
	}

	return &rev, nil
}

func (r *repository) ListByStation(ctx context.Context, stationID string) ([]ReviewWithAuthor, error) {
	query := `
		SELECT r.id, r.station_id, r.user_id, r.rating, r.review_text, r.created_at,
		       u.name AS user_name, u.email AS user_email
		FROM reviews r
		JOIN users u ON r.user_id = u.id
		WHERE r.station_id = $1
		ORDER BY r.created_at DESC
	`

	var reviews []ReviewWithAuthor
	if err := r.db.SelectContext(ctx, &reviews, query, stationID); err != nil {
		return nil, err
	}

	return reviews, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]ReviewWithStation, error) {
	query := `
		SELECT r.id, r.station_id, r.user_id, r.rating, r.review_text, r.created_at,
		       COALESCE(s.name, '') AS station_name
		FROM reviews r
		LEFT JOIN stations s ON r.station_id = s.station_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
	`

	var reviews []ReviewWithStation
	if err := r.db.SelectContext(ctx, &reviews, query, userID); err != nil {
		return nil, err
	}

	return reviews, nil
}

func (r *repository) AverageRating(ctx context.Context, stationID string) (*float64, error) {
	var avg sql.NullFloat64
	err := r.db.GetContext(ctx, &avg,
		`SELECT AVG(rating) FROM reviews WHERE station_id = $1`,
		stationID,
	)
	if err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}

	rounded := math.Round(avg.Float64*10) / 10
	return &rounded, nil
}

func (r *repository) AddComment(ctx context.Context, stationID string, userID int, text string) (*Comment, error) {
	query := `
		INSERT INTO comments (station_id, user_id, comment_text)
		VALUES ($1, $2, $3)
		RETURNING id, station_id, user_id, comment_text, created_at
	`

	var com Comment
	if err := r.db.GetContext(ctx, &com, query, stationID, userID, text); err != nil {
		return nil, err
	}

	return &com, nil
}

func (r *repository) ListComments(ctx context.Context, stationID string) ([]CommentWithAuthor, error) {
	query := `
		SELECT c.id, c.station_id, c.user_id, c.comment_text, c.created_at,
		       u.name AS user_name, u.email AS user_email
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.station_id = $1
		ORDER BY c.created_at DESC
	`

	var comments []CommentWithAuthor
	if err := r.db.SelectContext(ctx, &comments, query, stationID); err != nil {
		return nil, err
	}

	return comments, nil
}
