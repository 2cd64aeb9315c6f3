package station

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/auth"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/logger"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/validation"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{
		repo: NewRepository(db),
	}
}

func parseFloatParam(c *gin.Context, key string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// List godoc
// @Summary      List charging stations
// @Description  Lists the station directory with optional filters or a location search.
// @Tags         stations
// @Produce      json
// @Param        location    query  string  false  "Search city/state/pincode"
// @Param        city        query  string  false  "Filter by city"
// @Param        operator    query  string  false  "Filter by operator"
// @Param        status      query  string  false  "Filter by status"
// @Param        fast        query  string  false  "Filter by fast-charging support"
// @Param        price_min   query  number  false  "Minimum price per kWh"
// @Param        price_max   query  number  false  "Maximum price per kWh"
// @Param        rating_min  query  number  false  "Minimum rating"
// @Param        rating_max  query  number  false  "Maximum rating"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  gin.H
// @Router       /stations [get]
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	location := strings.TrimSpace(c.Query("location"))

	var (
		stations []Station
		err      error
	)
	if location != "" {
		stations, err = h.repo.SearchByLocation(ctx, location)
	} else {
		stations, err = h.repo.List(ctx, Filter{
			City:         c.Query("city"),
			Operator:     c.Query("operator"),
			Status:       c.Query("status"),
			FastCharging: c.Query("fast"),
			PriceMin:     parseFloatParam(c, "price_min"),
			PriceMax:     parseFloatParam(c, "price_max"),
			RatingMin:    parseFloatParam(c, "rating_min"),
			RatingMax:    parseFloatParam(c, "rating_max"),
		})
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stations"})
		return
	}

	filters := c.Request.URL.RawQuery
	if userID, ok := auth.GetUserID(c); ok && (location != "" || filters != "") {
		if err := h.repo.SaveSearch(ctx, userID, location, filters); err != nil {
			logger.Errorf("Failed to save search history for user %d: %v", userID, err)
		}
	}

	options, err := h.filterOptions(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load filter options"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stations": stations,
		"options":  options,
	})
}

func (h *Handler) filterOptions(c *gin.Context) (*FilterOptions, error) {
	ctx := c.Request.Context()

	cities, err := h.repo.Distinct(ctx, "city")
	if err != nil {
		return nil, err
	}
	operators, err := h.repo.Distinct(ctx, "operator")
	if err != nil {
		return nil, err
	}
	statuses, err := h.repo.Distinct(ctx, "status")
	if err != nil {
		return nil, err
	}
	fast, err := h.repo.Distinct(ctx, "fast_charging_supported")
	if err != nil {
		return nil, err
	}

	return &FilterOptions{
		Cities:       cities,
		Operators:    operators,
		Statuses:     statuses,
		FastCharging: fast,
	}, nil
}

// Get godoc
// @Summary      Station detail
// @Tags         stations
// @Produce      json
// @Param        stationID  path      string  true  "Station ID"
// @Success      200        {object}  Station
// @Failure      404        {object}  gin.H
// @Router       /stations/{stationID} [get]
func (h *Handler) Get(c *gin.Context) {
	s, err := h.repo.GetByID(c.Request.Context(), c.Param("stationID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Station not found"})
		return
	}

	c.JSON(http.StatusOK, s)
}

// Upsert godoc
// @Summary      Create or update station
// @Description  Inserts the station or updates every field of an existing record. Admin only.
// @Tags         stations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      UpsertStationRequest  true  "Station record"
// @Success      200      {object}  gin.H
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/stations [post]
func (h *Handler) Upsert(c *gin.Context) {
	var req UpsertStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if errs := validation.ValidateStruct(req); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": errs})
		return
	}

	s := &Station{
		StationID:             req.StationID,
		Name:                  req.Name,
		Operator:              req.Operator,
		State:                 req.State,
		City:                  req.City,
		Pincode:               req.Pincode,
		ChargerTypes:          req.ChargerTypes,
		NumberOfChargers:      req.NumberOfChargers,
		PowerKWEach:           req.PowerKWEach,
		PricePerKWh:           decimal.NewFromFloat(req.PricePerKWh),
		TariffType:            req.TariffType,
		PaymentMethods:        req.PaymentMethods,
		OpeningHours:          req.OpeningHours,
		ContactNumber:         req.ContactNumber,
		Email:                 req.Email,
		StationRating:         req.StationRating,
		NumReviews:            req.NumReviews,
		ParkingSpaces:         req.ParkingSpaces,
		Amenities:             req.Amenities,
		ReservationSupported:  req.ReservationSupported,
		FastChargingSupported: req.FastChargingSupported,
		NearbyLandmark:        req.NearbyLandmark,
		UptimePercent:         req.UptimePercent,
		Status:                req.Status,
	}
	if s.Status == "" {
		s.Status = "Active"
	}

	if err := h.repo.Upsert(c.Request.Context(), s); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save station"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Saved station %s", s.StationID)})
}

// Delete godoc
// @Summary      Delete station
// @Tags         stations
// @Security     BearerAuth
// @Produce      json
// @Param        stationID  path      string  true  "Station ID"
// @Success      200        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Router       /admin/stations/{stationID} [delete]
func (h *Handler) Delete(c *gin.Context) {
	stationID := c.Param("stationID")

	if err := h.repo.Delete(c.Request.Context(), stationID); err != nil {
		if err == ErrStationNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Station not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete station"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Deleted station %s", stationID)})
}

// RecentSearches godoc
// @Summary      Recent searches
// @Tags         stations
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   SearchEntry
// @Failure      500  {object}  gin.H
// @Router       /me/searches [get]
func (h *Handler) RecentSearches(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	searches, err := h.repo.RecentSearches(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load searches"})
		return
	}

	c.JSON(http.StatusOK, searches)
}
