package review

import "time"

type Review struct {
	ID         int       `db:"id" json:"id"`
	StationID  string    `db:"station_id" json:"station_id"`
	UserID     int       `db:"user_id" json:"user_id"`
	Rating     int       `db:"rating" json:"rating"`
	ReviewText string    `db:"review_text" json:"review_text"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type ReviewWithAuthor struct {
	Review
	UserName  string `db:"user_name" json:"user_name"`
	UserEmail string `db:"user_email" json:"user_email"`
}

type ReviewWithStation struct {
	Review
	StationName string `db:"station_name" json:"station_name"`
}

type Comment struct {
	ID          int       `db:"id" json:"id"`
	StationID   string    `db:"station_id" json:"station_id"`
	UserID      int       `db:"user_id" json:"user_id"`
	CommentText string    `db:"comment_text" json:"comment_text"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type CommentWithAuthor struct {
	Comment
	UserName  string `db:"user_name" json:"user_name"`
	UserEmail string `db:"user_email" json:"user_email"`
}

type AddReviewRequest struct {
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	ReviewText string `json:"review_text"`
}

type AddCommentRequest struct {
	CommentText string `json:"comment_text" binding:"required"`
}
