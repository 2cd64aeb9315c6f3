package wallet

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type Repository interface {
	GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error)
	Credit(ctx context.Context, userID int, amount decimal.Decimal, description string) error
	Debit(ctx context.Context, userID int, amount decimal.Decimal, description string, bookingID *int) error
	CreditTx(ctx context.Context, tx *sqlx.Tx, userID int, amount decimal.Decimal, description string, bookingID *int) error
	DebitTx(ctx context.Context, tx *sqlx.Tx, userID int, amount decimal.Decimal, description string, bookingID *int) error
	ListTransactions(ctx context.Context, userID, limit int) ([]Transaction, error)
}
