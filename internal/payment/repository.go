package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/metrics"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/wallet"
)

var (
	ErrRequestNotFound = errors.New("payment request not found")
	ErrAlreadyResolved = errors.New("payment request already resolved")
)

type Repository interface {
	Create(ctx context.Context, userID int, amount decimal.Decimal, transactionRef, method string) (*PaymentRequest, error)
	GetByID(ctx context.Context, requestID int) (*PaymentRequest, error)
	ListByUser(ctx context.Context, userID int) ([]PaymentRequest, error)
	ListPending(ctx context.Context) ([]PaymentRequestWithUser, error)
	ListAll(ctx context.Context) ([]PaymentRequestWithUser, error)
	Approve(ctx context.Context, requestID int, adminNotes string) (*PaymentRequest, error)
	Resolve(ctx context.Context, requestID int, status, adminNotes string) error
}

type repository struct {
	db         *sqlx.DB
	walletRepo wallet.Repository
}

func NewRepository(db *sqlx.DB, walletRepo wallet.Repository) Repository {
	return &repository{db: db, walletRepo: walletRepo}
}

func (r *repository) Create(ctx context.Context, userID int, amount decimal.Decimal, transactionRef, method string) (*PaymentRequest, error) {
	if method == "" {
		method = "upi"
	}

	var request PaymentRequest
	err := r.db.GetContext(ctx, &request, `
		INSERT INTO payment_requests (user_id, amount, transaction_ref, method, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id, user_id, amount, transaction_ref, method, status, admin_notes, created_at, verified_at
	`, userID, amount, transactionRef, method)
	if err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *repository) GetByID(ctx context.Context, requestID int) (*PaymentRequest, error) {
	var request PaymentRequest
	err := r.db.GetContext(ctx, &request, `
		SELECT id, user_id, amount, transaction_ref, method, status, admin_notes, created_at, verified_at
		FROM payment_requests
		WHERE id = $1
	`, requestID)
	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]PaymentRequest, error) {
	var requests []PaymentRequest
	err := r.db.SelectContext(ctx, &requests, `
		SELECT id, user_id, amount, transaction_ref, method, status, admin_notes, created_at, verified_at
		FROM payment_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *repository) ListPending(ctx context.Context) ([]PaymentRequestWithUser, error) {
	return r.listWithUsers(ctx, `WHERE pr.status = 'pending'`)
}

func (r *repository) ListAll(ctx context.Context) ([]PaymentRequestWithUser, error) {
	return r.listWithUsers(ctx, "")
}

func (r *repository) listWithUsers(ctx context.Context, where string) ([]PaymentRequestWithUser, error) {
	query := `
		SELECT pr.id, pr.user_id, pr.amount, pr.transaction_ref, pr.method, pr.status,
		       pr.admin_notes, pr.created_at, pr.verified_at,
		       u.name AS user_name, u.email AS user_email
		FROM payment_requests pr
		JOIN users u ON u.id = pr.user_id
	` + where + `
		ORDER BY pr.created_at DESC
	`

	var requests []PaymentRequestWithUser
	if err := r.db.SelectContext(ctx, &requests, query); err != nil {
		return nil, err
	}

	return requests, nil
}

// Approve flips a pending request to approved and credits the wallet in
// one database transaction. A crash between the two can no longer leave
// an approved request with no money moved, and the pending guard means
// the credit happens at most once.
func (r *repository) Approve(ctx context.Context, requestID int, adminNotes string) (*PaymentRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var request PaymentRequest
	err = tx.QueryRowxContext(ctx, `
		UPDATE payment_requests
		SET status = 'approved', admin_notes = $1, verified_at = NOW()
		WHERE id = $2 AND status = 'pending'
		RETURNING id, user_id, amount, transaction_ref, method, status, admin_notes, created_at, verified_at
	`, adminNotes, requestID).StructScan(&request)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.resolveFailure(ctx, requestID)
	}
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Payment approved - Request #%d", request.ID)
	if err := r.walletRepo.CreditTx(ctx, tx, request.UserID, request.Amount, description, nil); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	metrics.RecordWalletTransaction(wallet.TypeCredit)
	return &request, nil
}

// Resolve moves a pending request to a terminal status. A request that
// was already approved or rejected stays untouched.
func (r *repository) Resolve(ctx context.Context, requestID int, status, adminNotes string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE payment_requests
		SET status = $1, admin_notes = $2, verified_at = NOW()
		WHERE id = $3 AND status = 'pending'
	`, status, adminNotes, requestID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return r.resolveFailure(ctx, requestID)
	}

	return nil
}

// resolveFailure explains a zero-row guarded update: the request either
// never existed or already reached a terminal status.
func (r *repository) resolveFailure(ctx context.Context, requestID int) error {
	if _, err := r.GetByID(ctx, requestID); err != nil {
		return err
	}
	return ErrAlreadyResolved
}
