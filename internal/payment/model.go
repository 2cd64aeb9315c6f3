package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// PaymentRequest is a wallet top-up awaiting manual verification. The
// wallet is only credited once an admin approves the request.
type PaymentRequest struct {
	ID             int             `db:"id" json:"id"`
	UserID         int             `db:"user_id" json:"user_id"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	TransactionRef string          `db:"transaction_ref" json:"transaction_ref"`
	Method         string          `db:"method" json:"method"`
	Status         string          `db:"status" json:"status"`
	AdminNotes     *string         `db:"admin_notes" json:"admin_notes,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	VerifiedAt     *time.Time      `db:"verified_at" json:"verified_at,omitempty"`
}

type PaymentRequestWithUser struct {
	PaymentRequest
	UserName  string `db:"user_name" json:"user_name"`
	UserEmail string `db:"user_email" json:"user_email"`
}

type SubmitPaymentRequest struct {
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	TransactionRef string          `json:"transaction_ref" binding:"required"`
	Method         string          `json:"method"`
}

type ResolvePaymentRequest struct {
	AdminNotes string `json:"admin_notes"`
}
