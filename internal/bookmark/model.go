package bookmark

import (
	"time"

	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/station"
)

type Bookmark struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	StationID string    `db:"station_id" json:"station_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type BookmarkedStation struct {
	station.Station
	BookmarkedAt time.Time `db:"bookmarked_at" json:"bookmarked_at"`
}
