// Package email queues outgoing mail through redis so HTTP handlers never
// block on SMTP. A single worker drains the queue with bounded retries.
package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/logger"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/metrics"
)

const (
	queueKey    = "email:queue"
	failedKey   = "email:failed"
	maxAttempts = 3
	retryDelay  = 5 * time.Second
)

type EmailJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return &Service{
		redis:    redis.NewClient(&redis.Options{Addr: redisAddr}),
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

// Send enqueues a message. Delivery happens asynchronously in Start.
func (s *Service) Send(ctx context.Context, to, name, subject, body string) error {
	payload, err := json.Marshal(EmailJob{
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Created: time.Now(),
	})
	if err != nil {
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, payload).Err(); err != nil {
		logger.Errorf("Failed to queue email to %s: %v", to, err)
		return err
	}

	metrics.EmailQueueLength.Set(float64(s.QueueLength(ctx)))
	logger.Infof("Email queued: %s to %s", subject, to)
	return nil
}

// Start blocks draining the queue until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("Email worker started")
	for {
		select {
		case <-ctx.Done():
			logger.Info("Email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	popped, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}
	metrics.EmailQueueLength.Set(float64(s.QueueLength(ctx)))

	var job EmailJob
	if err := json.Unmarshal([]byte(popped[1]), &job); err != nil {
		logger.Errorf("Dropping undecodable email job: %v", err)
		return
	}

	job.Tries++
	if err := s.deliver(job); err != nil {
		logger.Errorf("Email to %s failed on attempt %d: %v", job.To, job.Tries, err)
		metrics.RecordEmail("generic", "failed")

		if job.Tries >= maxAttempts {
			s.parkFailed(job, err)
			return
		}
		time.Sleep(retryDelay)
		if payload, err := json.Marshal(job); err == nil {
			s.redis.LPush(context.Background(), queueKey, payload)
		}
		return
	}

	metrics.RecordEmail("generic", "sent")
	logger.Infof("Email sent to %s", job.To)
}

func (s *Service) deliver(job EmailJob) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", s.fromName, s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", job.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n\r\n", job.Subject)
	msg.WriteString(job.Body)

	var smtpAuth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		smtpAuth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}
	return smtp.SendMail(s.smtpHost+":"+s.smtpPort, smtpAuth, s.from, []string{job.To}, []byte(msg.String()))
}

// parkFailed keeps exhausted jobs in a side list for manual inspection.
func (s *Service) parkFailed(job EmailJob, cause error) {
	payload, _ := json.Marshal(map[string]interface{}{
		"job":   job,
		"error": cause.Error(),
		"time":  time.Now(),
	})
	s.redis.LPush(context.Background(), failedKey, payload)
	logger.Errorf("Email to %s parked after %d attempts", job.To, job.Tries)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	n, _ := s.redis.LLen(ctx, queueKey).Result()
	return n
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) SendBookingConfirmation(ctx context.Context, to, name, stationName, date, slot string) error {
	subject := "Charging Slot Confirmed - " + stationName
	body := fmt.Sprintf(`Hi %s,

Your charging slot is confirmed!

Station: %s
Date: %s
Time: %s

Happy charging!

- EV Charge Team`, name, stationName, date, slot)

	return s.Send(ctx, to, name, subject, body)
}

func (s *Service) SendBookingCancellation(ctx context.Context, to, name string, bookingID int, refund string) error {
	subject := fmt.Sprintf("Booking #%d Cancelled", bookingID)
	body := fmt.Sprintf(`Hi %s,

Your booking #%d has been cancelled.
₹%s has been refunded to your wallet.

- EV Charge Team`, name, bookingID, refund)

	return s.Send(ctx, to, name, subject, body)
}

func (s *Service) SendPaymentApproved(ctx context.Context, to, name, amount string) error {
	subject := "Wallet Top-Up Approved"
	body := fmt.Sprintf(`Hi %s,

Your payment of ₹%s has been verified and added to your wallet.

- EV Charge Team`, name, amount)

	return s.Send(ctx, to, name, subject, body)
}

func (s *Service) SendPaymentRejected(ctx context.Context, to, name, amount, reason string) error {
	subject := "Wallet Top-Up Rejected"
	body := fmt.Sprintf(`Hi %s,

Your payment request of ₹%s was rejected.
Reason: %s

- EV Charge Team`, name, amount, reason)

	return s.Send(ctx, to, name, subject, body)
}
