package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct{ mock.Mock }

func (m *MockService) Book(ctx context.Context, userID int, stationID, bookingDate, bookingTime string, durationHours float64, chargerIndex int) (*Booking, error) {
	args := m.Called(ctx, userID, stationID, bookingDate, bookingTime, durationHours, chargerIndex)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockService) Cancel(ctx context.Context, userID, bookingID int) (*Booking, error) {
	args := m.Called(ctx, userID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockService) Upcoming(ctx context.Context, userID int) ([]BookingWithStation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BookingWithStation), args.Error(1)
}

func (m *MockService) History(ctx context.Context, userID int) ([]BookingWithStation, *ChargingStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]BookingWithStation), args.Get(1).(*ChargingStats), args.Error(2)
}

func (m *MockService) ListAll(ctx context.Context) ([]BookingWithUser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BookingWithUser), args.Error(1)
}

func setupRouter(service Service, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(service)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	router.POST("/stations/:stationID/book", handler.Book)
	router.POST("/bookings/:bookingID/cancel", handler.Cancel)
	router.GET("/bookings", handler.Upcoming)
	return router
}

func TestBookHandler_Success(t *testing.T) {
	svc := new(MockService)
	svc.On("Book", mock.Anything, 7, "ST-001", "2026-09-01", "10:00", 2.0, 0).
		Return(&Booking{ID: 12, UserID: 7, StationID: "ST-001", TotalAmount: decimal.NewFromInt(450), BookingStatus: StatusConfirmed}, nil)

	router := setupRouter(svc, 7)

	body, _ := json.Marshal(CreateBookingRequest{BookingDate: "2026-09-01", BookingTime: "10:00", DurationHours: 2})
	req := httptest.NewRequest("POST", "/stations/ST-001/book", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"booking_status":"confirmed"`)
	svc.AssertExpectations(t)
}

func TestBookHandler_BadDate(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc, 7)

	body, _ := json.Marshal(CreateBookingRequest{BookingDate: "01-09-2026", BookingTime: "10:00", DurationHours: 2})
	req := httptest.NewRequest("POST", "/stations/ST-001/book", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Book")
}

func TestBookHandler_InsufficientFunds(t *testing.T) {
	svc := new(MockService)
	svc.On("Book", mock.Anything, 7, "ST-001", "2026-09-01", "10:00", 2.0, 0).
		Return(nil, ErrInsufficientFunds)

	router := setupRouter(svc, 7)

	body, _ := json.Marshal(CreateBookingRequest{BookingDate: "2026-09-01", BookingTime: "10:00", DurationHours: 2})
	req := httptest.NewRequest("POST", "/stations/ST-001/book", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient wallet balance")
}

func TestBookHandler_Unauthenticated(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(svc, 0)

	body, _ := json.Marshal(CreateBookingRequest{BookingDate: "2026-09-01", BookingTime: "10:00", DurationHours: 2})
	req := httptest.NewRequest("POST", "/stations/ST-001/book", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "Book")
}

func TestCancelHandler_AlreadyCancelled(t *testing.T) {
	svc := new(MockService)
	svc.On("Cancel", mock.Anything, 7, 12).Return(nil, ErrAlreadyCancelled)

	router := setupRouter(svc, 7)

	req := httptest.NewRequest("POST", "/bookings/12/cancel", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelHandler_Success(t *testing.T) {
	svc := new(MockService)
	svc.On("Cancel", mock.Anything, 7, 12).
		Return(&Booking{ID: 12, TotalAmount: decimal.NewFromInt(450), BookingStatus: StatusCancelled}, nil)

	router := setupRouter(svc, 7)

	req := httptest.NewRequest("POST", "/bookings/12/cancel", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "refund")
}

func TestUpcomingHandler(t *testing.T) {
	svc := new(MockService)
	svc.On("Upcoming", mock.Anything, 7).Return([]BookingWithStation{
		{Booking: Booking{ID: 12, StationID: "ST-001", BookingStatus: StatusConfirmed}, StationName: "Tata Power Station"},
	}, nil)

	router := setupRouter(svc, 7)

	req := httptest.NewRequest("GET", "/bookings", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Tata Power Station")
}
