package station

import (
	"time"

	"github.com/shopspring/decimal"
)

// Station mirrors one row of the charging-station directory. String
// fields like ChargerTypes and PowerKWEach hold comma-separated values
// as imported from the source dataset.
type Station struct {
	StationID             string          `db:"station_id" json:"station_id"`
	Name                  string          `db:"name" json:"name"`
	Operator              string          `db:"operator" json:"operator"`
	State                 string          `db:"state" json:"state"`
	City                  string          `db:"city" json:"city"`
	Pincode               string          `db:"pincode" json:"pincode"`
	ChargerTypes          string          `db:"charger_types" json:"charger_types"`
	NumberOfChargers      int             `db:"number_of_chargers" json:"number_of_chargers"`
	PowerKWEach           string          `db:"power_kw_each" json:"power_kw_each"`
	PricePerKWh           decimal.Decimal `db:"price_per_kwh" json:"price_per_kwh"`
	TariffType            string          `db:"tariff_type" json:"tariff_type"`
	PaymentMethods        string          `db:"payment_methods" json:"payment_methods"`
	OpeningHours          string          `db:"opening_hours" json:"opening_hours"`
	ContactNumber         string          `db:"contact_number" json:"contact_number"`
	Email                 string          `db:"email" json:"email"`
	StationRating         float64         `db:"station_rating" json:"station_rating"`
	NumReviews            int             `db:"num_reviews" json:"num_reviews"`
	ParkingSpaces         int             `db:"parking_spaces" json:"parking_spaces"`
	Amenities             string          `db:"amenities" json:"amenities"`
	ReservationSupported  string          `db:"reservation_supported" json:"reservation_supported"`
	FastChargingSupported string          `db:"fast_charging_supported" json:"fast_charging_supported"`
	NearbyLandmark        string          `db:"nearby_landmark" json:"nearby_landmark"`
	UptimePercent         float64         `db:"uptime_percent" json:"uptime_percent"`
	Status                string          `db:"status" json:"status"`
	Latitude              *float64        `db:"latitude" json:"latitude,omitempty"`
	Longitude             *float64        `db:"longitude" json:"longitude,omitempty"`
}

// Filter narrows the directory listing. Nil/empty fields are skipped.
type Filter struct {
	City         string
	Operator     string
	Status       string
	FastCharging string
	PriceMin     *float64
	PriceMax     *float64
	RatingMin    *float64
	RatingMax    *float64
}

// FilterOptions holds the distinct values offered in listing dropdowns.
type FilterOptions struct {
	Cities       []string `json:"cities"`
	Operators    []string `json:"operators"`
	Statuses     []string `json:"statuses"`
	FastCharging []string `json:"fast_charging"`
}

type SearchEntry struct {
	SearchTerm    string    `db:"search_term" json:"search_term"`
	SearchFilters string    `db:"search_filters" json:"search_filters"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type UpsertStationRequest struct {
	StationID             string  `json:"station_id" validate:"required"`
	Name                  string  `json:"name" validate:"required"`
	Operator              string  `json:"operator"`
	State                 string  `json:"state"`
	City                  string  `json:"city"`
	Pincode               string  `json:"pincode"`
	ChargerTypes          string  `json:"charger_types"`
	NumberOfChargers      int     `json:"number_of_chargers" validate:"gte=0"`
	PowerKWEach           string  `json:"power_kw_each"`
	PricePerKWh           float64 `json:"price_per_kwh" validate:"gte=0"`
	TariffType            string  `json:"tariff_type"`
	PaymentMethods        string  `json:"payment_methods"`
	OpeningHours          string  `json:"opening_hours"`
	ContactNumber         string  `json:"contact_number"`
	Email                 string  `json:"email"`
	StationRating         float64 `json:"station_rating" validate:"gte=0,lte=5"`
	NumReviews            int     `json:"num_reviews" validate:"gte=0"`
	ParkingSpaces         int     `json:"parking_spaces" validate:"gte=0"`
	Amenities             string  `json:"amenities"`
	ReservationSupported  string  `json:"reservation_supported"`
	FastChargingSupported string  `json:"fast_charging_supported"`
	NearbyLandmark        string  `json:"nearby_landmark"`
	UptimePercent         float64 `json:"uptime_percent" validate:"gte=0,lte=100"`
	Status                string  `json:"status"`
}
