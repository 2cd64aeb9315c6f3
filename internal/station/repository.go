package station

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

var (
	ErrStationNotFound = errors.New("station not found")
	ErrInvalidColumn   = errors.New("column not allowed for distinct listing")
)

const stationColumns = `station_id, name, operator, state, city, pincode, charger_types,
	number_of_chargers, power_kw_each, price_per_kwh, tariff_type, payment_methods,
	opening_hours, contact_number, email, station_rating, num_reviews, parking_spaces,
	amenities, reservation_supported, fast_charging_supported, nearby_landmark,
	uptime_percent, status, latitude, longitude`

// distinctColumns is the allowlist for filter dropdowns. Anything else
// is rejected before it reaches SQL.
var distinctColumns = map[string]bool{
	"city":                    true,
	"operator":                true,
	"status":                  true,
	"tariff_type":             true,
	"fast_charging_supported": true,
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, f Filter) ([]Station, error) {
	var (
		conds []string
		args  []interface{}
	)

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.City != "" {
		add("city = $%d", f.City)
	}
	if f.Operator != "" {
		add("operator = $%d", f.Operator)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.FastCharging != "" {
		add("fast_charging_supported = $%d", f.FastCharging)
	}
	if f.PriceMin != nil {
		add("price_per_kwh >= $%d", *f.PriceMin)
	}
	if f.PriceMax != nil {
		add("price_per_kwh <= $%d", *f.PriceMax)
	}
	if f.RatingMin != nil {
		add("station_rating >= $%d", *f.RatingMin)
	}
	if f.RatingMax != nil {
		add("station_rating <= $%d", *f.RatingMax)
	}

	query := "SELECT " + stationColumns + " FROM stations"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY city, operator, name"

	var stations []Station
	if err := r.db.SelectContext(ctx, &stations, query, args...); err != nil {
		return nil, err
	}

	return stations, nil
}

func (r *repository) SearchByLocation(ctx context.Context, term string) ([]Station, error) {
	pattern := "%" + term + "%"

	var stations []Station
	err := r.db.SelectContext(ctx, &stations, `
		SELECT `+stationColumns+`
		FROM stations
		WHERE city ILIKE $1 OR state ILIKE $1 OR pincode ILIKE $1
		ORDER BY city, name
	`, pattern)
	if err != nil {
		return nil, err
	}

	return stations, nil
}

func (r *repository) GetByID(ctx context.Context, stationID string) (*Station, error) {
	var s Station
	err := r.db.GetContext(ctx, &s,
		"SELECT "+stationColumns+" FROM stations WHERE station_id = $1",
		stationID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStationNotFound
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *repository) Distinct(ctx context.Context, column string) ([]string, error) {
	if !distinctColumns[column] {
		return nil, ErrInvalidColumn
	}

	var values []string
	query := fmt.Sprintf(
		"SELECT DISTINCT %s FROM stations WHERE %s IS NOT NULL AND %s <> '' ORDER BY %s",
		column, column, column, column,
	)
	if err := r.db.SelectContext(ctx, &values, query); err != nil {
		return nil, err
	}

	return values, nil
}

func (r *repository) Upsert(ctx context.Context, s *Station) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO stations (
			station_id, name, operator, state, city, pincode, charger_types,
			number_of_chargers, power_kw_each, price_per_kwh, tariff_type,
			payment_methods, opening_hours, contact_number, email, station_rating,
			num_reviews, parking_spaces, amenities, reservation_supported,
			fast_charging_supported, nearby_landmark, uptime_percent, status
		) VALUES (
			:station_id, :name, :operator, :state, :city, :pincode, :charger_types,
			:number_of_chargers, :power_kw_each, :price_per_kwh, :tariff_type,
			:payment_methods, :opening_hours, :contact_number, :email, :station_rating,
			:num_reviews, :parking_spaces, :amenities, :reservation_supported,
			:fast_charging_supported, :nearby_landmark, :uptime_percent, :status
		)
		ON CONFLICT (station_id) DO UPDATE SET
			name = EXCLUDED.name,
			operator = EXCLUDED.operator,
			state = EXCLUDED.state,
			city = EXCLUDED.city,
			pincode = EXCLUDED.pincode,
			charger_types = EXCLUDED.charger_types,
			number_of_chargers = EXCLUDED.number_of_chargers,
			power_kw_each = EXCLUDED.power_kw_each,
			price_per_kwh = EXCLUDED.price_per_kwh,
			tariff_type = EXCLUDED.tariff_type,
			payment_methods = EXCLUDED.payment_methods,
			opening_hours = EXCLUDED.opening_hours,
			contact_number = EXCLUDED.contact_number,
			email = EXCLUDED.email,
			station_rating = EXCLUDED.station_rating,
			num_reviews = EXCLUDED.num_reviews,
			parking_spaces = EXCLUDED.parking_spaces,
			amenities = EXCLUDED.amenities,
			reservation_supported = EXCLUDED.reservation_supported,
			fast_charging_supported = EXCLUDED.fast_charging_supported,
			nearby_landmark = EXCLUDED.nearby_landmark,
			uptime_percent = EXCLUDED.uptime_percent,
			status = EXCLUDED.status
	`, s)

	return err
}

func (r *repository) Delete(ctx context.Context, stationID string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM stations WHERE station_id = $1", stationID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrStationNotFound
	}

	return nil
}

func (r *repository) ListMissingCoordinates(ctx context.Context) ([]Station, error) {
	var stations []Station
	err := r.db.SelectContext(ctx, &stations, `
		SELECT `+stationColumns+`
		FROM stations
		WHERE latitude IS NULL OR longitude IS NULL
		ORDER BY station_id
	`)
	if err != nil {
		return nil, err
	}

	return stations, nil
}

func (r *repository) UpdateCoordinates(ctx context.Context, stationID string, lat, lon float64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE stations SET latitude = $1, longitude = $2 WHERE station_id = $3`,
		lat, lon, stationID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrStationNotFound
	}

	return nil
}

func (r *repository) SaveSearch(ctx context.Context, userID int, term, filters string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO search_history (user_id, search_term, search_filters) VALUES ($1, $2, $3)`,
		userID, term, filters,
	)
	return err
}

func (r *repository) RecentSearches(ctx context.Context, userID, limit int) ([]SearchEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	var entries []SearchEntry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT DISTINCT search_term, search_filters, created_at
		FROM search_history
		WHERE user_id = $1 AND search_term <> ''
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
