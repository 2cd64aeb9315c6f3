package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeCredit = "credit"
	TypeDebit  = "debit"
)

// Wallet is the per-user stored balance in INR. Created lazily with
// balance 0 on first access, never deleted.
type Wallet struct {
	ID        int             `db:"id" json:"id"`
	UserID    int             `db:"user_id" json:"user_id"`
	Balance   decimal.Decimal `db:"balance" json:"balance"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Transaction is an append-only ledger entry. Amount is signed:
// positive for credits, negative for debits. The sum of a user's
// transaction amounts always equals the wallet balance.
type Transaction struct {
	ID          int             `db:"id" json:"id"`
	UserID      int             `db:"user_id" json:"user_id"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Type        string          `db:"type" json:"type"`
	Description string          `db:"description" json:"description"`
	BookingID   *int            `db:"booking_id" json:"booking_id,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
