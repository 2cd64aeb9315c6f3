package station

import "context"

type Repository interface {
	List(ctx context.Context, f Filter) ([]Station, error)
	SearchByLocation(ctx context.Context, term string) ([]Station, error)
	GetByID(ctx context.Context, stationID string) (*Station, error)
	Distinct(ctx context.Context, column string) ([]string, error)
	Upsert(ctx context.Context, s *Station) error
	Delete(ctx context.Context, stationID string) error
	ListMissingCoordinates(ctx context.Context) ([]Station, error)
	UpdateCoordinates(ctx context.Context, stationID string, lat, lon float64) error
	SaveSearch(ctx context.Context, userID int, term, filters string) error
	RecentSearches(ctx context.Context, userID, limit int) ([]SearchEntry, error)
}
