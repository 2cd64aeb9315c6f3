package wallet

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/metrics"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.GetContext(ctx, w,
		`SELECT id, user_id, balance, created_at, updated_at FROM wallets WHERE user_id = $1`,
		userID,
	)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO wallets (user_id)
		 VALUES ($1)
		 RETURNING id, user_id, balance, created_at, updated_at`,
		userID,
	).StructScan(w)
	if err != nil {
		return nil, err
	}

	return w, nil
}

// lockWallet reads the wallet row under FOR UPDATE, creating it when
// missing. Every balance mutation goes through this lock, so check and
// apply happen as one unit and concurrent debits on the same wallet
// serialize instead of racing past each other's balance checks.
func (r *repository) lockWallet(ctx context.Context, tx *sqlx.Tx, userID int) (*Wallet, error) {
	var w Wallet
	err := tx.QueryRowxContext(ctx,
		`SELECT id, user_id, balance, created_at, updated_at
		 FROM wallets
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID,
	).StructScan(&w)
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = tx.QueryRowxContext(ctx,
		`INSERT INTO wallets (user_id)
		 VALUES ($1)
		 RETURNING id, user_id, balance, created_at, updated_at`,
		userID,
	).StructScan(&w)
	if err != nil {
		return nil, err
	}

	return &w, nil
}

func (r *repository) apply(ctx context.Context, tx *sqlx.Tx, userID int, delta decimal.Decimal, txType, description string, bookingID *int) error {
	w, err := r.lockWallet(ctx, tx, userID)
	if err != nil {
		return err
	}

	newBalance := w.Balance.Add(delta)
	if newBalance.IsNegative() {
		return ErrInsufficientBalance
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE wallets
		 SET balance = $1, updated_at = NOW()
		 WHERE id = $2`,
		newBalance, w.ID,
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO wallet_transactions (user_id, amount, type, description, booking_id)
		 VALUES ($1, $2, $3, $4, $5)`,
		userID, delta, txType, description, bookingID,
	)
	return err
}

// CreditTx appends a credit inside a caller-owned transaction. Booking
// settlement uses this to refund within the same unit that flips the
// booking status.
func (r *repository) CreditTx(ctx context.Context, tx *sqlx.Tx, userID int, amount decimal.Decimal, description string, bookingID *int) error {
	return r.apply(ctx, tx, userID, amount, TypeCredit, description, bookingID)
}

// DebitTx deducts inside a caller-owned transaction. Returns
// ErrInsufficientBalance without any change when the wallet cannot
// cover the amount.
func (r *repository) DebitTx(ctx context.Context, tx *sqlx.Tx, userID int, amount decimal.Decimal, description string, bookingID *int) error {
	return r.apply(ctx, tx, userID, amount.Neg(), TypeDebit, description, bookingID)
}

func (r *repository) Credit(ctx context.Context, userID int, amount decimal.Decimal, description string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.CreditTx(ctx, tx, userID, amount, description, nil); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	// The counter only moves once the ledger entry is durable.
	metrics.RecordWalletTransaction(TypeCredit)
	return nil
}

func (r *repository) Debit(ctx context.Context, userID int, amount decimal.Decimal, description string, bookingID *int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.DebitTx(ctx, tx, userID, amount, description, bookingID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	metrics.RecordWalletTransaction(TypeDebit)
	return nil
}

func (r *repository) ListTransactions(ctx context.Context, userID, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 20
	}

	var txs []Transaction
	err := r.db.SelectContext(ctx, &txs, `
		SELECT id, user_id, amount, type, description, booking_id, created_at
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}

	return txs, nil
}
