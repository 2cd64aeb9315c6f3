package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evcharge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evcharge_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evcharge_bookings_total",
			Help: "Total number of charging slot bookings",
		},
		[]string{"status"},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "evcharge_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
	)

	WalletTransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evcharge_wallet_transactions_total",
			Help: "Total number of wallet ledger entries",
		},
		[]string{"type"},
	)

	PaymentRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evcharge_payment_requests_total",
			Help: "Total number of wallet top-up requests by outcome",
		},
		[]string{"status"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evcharge_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "evcharge_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	NotificationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "evcharge_notifications_total",
			Help: "Total number of user notifications recorded",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(status string) {
	BookingsTotal.WithLabelValues(status).Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordWalletTransaction(txType string) {
	WalletTransactionsTotal.WithLabelValues(txType).Inc()
}

func RecordPaymentRequest(status string) {
	PaymentRequestsTotal.WithLabelValues(status).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordNotification() {
	NotificationsTotal.Inc()
}
