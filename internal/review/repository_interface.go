package review

import "context"

type Repository interface {
	AddReview(ctx context.Context, stationID string, userID, rating int, text string) (*Review, error)
	ListByStation(ctx context.Context, stationID string) ([]ReviewWithAuthor, error)
	ListByUser(ctx context.Context, userID int) ([]ReviewWithStation, error)
	AverageRating(ctx context.Context, stationID string) (*float64, error)
	AddComment(ctx context.Context, stationID string, userID int, text string) (*Comment, error)
	ListComments(ctx context.Context, stationID string) ([]CommentWithAuthor, error)
}
