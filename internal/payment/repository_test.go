package payment

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/wallet"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	db := sqlx.NewDb(mockDB, "sqlmock")
	return NewRepository(db, wallet.NewRepository(db)), mock
}

func requestColumns() []string {
	return []string{"id", "user_id", "amount", "transaction_ref", "method", "status", "admin_notes", "created_at", "verified_at"}
}

func walletColumns() []string {
	return []string{"id", "user_id", "balance", "created_at", "updated_at"}
}

func TestCreate_DefaultsMethod(t *testing.T) {
	repo, mock := newMockRepo(t)

	amount := decimal.NewFromInt(500)
	rows := sqlmock.NewRows(requestColumns()).
		AddRow(1, 7, amount, "TXN123", "upi", StatusPending, nil, time.Now(), nil)

	mock.ExpectQuery(`INSERT INTO payment_requests`).
		WithArgs(7, amount, "TXN123", "upi").
		WillReturnRows(rows)

	request, err := repo.Create(context.Background(), 7, amount, "TXN123", "")
	require.NoError(t, err)
	assert.Equal(t, "upi", request.Method)
	assert.Equal(t, StatusPending, request.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApprove_CreditsWalletInOneTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)

	amount := decimal.NewFromInt(500)
	now := time.Now()
	verifiedAt := now

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE payment_requests SET status = 'approved', admin_notes = \$1, verified_at = NOW\(\) WHERE id = \$2 AND status = 'pending' RETURNING`).
		WithArgs("verified", 1).
		WillReturnRows(sqlmock.NewRows(requestColumns()).
			AddRow(1, 7, amount, "TXN123", "upi", StatusApproved, "verified", now, &verifiedAt))
	mock.ExpectQuery(`FROM wallets WHERE user_id = \$1 FOR UPDATE`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(walletColumns()).
			AddRow(3, 7, decimal.NewFromInt(200), now, now))
	mock.ExpectExec(`UPDATE wallets SET balance = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(decimal.NewFromInt(700), 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO wallet_transactions`).
		WithArgs(7, amount, wallet.TypeCredit, "Payment approved - Request #1", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	request, err := repo.Approve(context.Background(), 1, "verified")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, request.Status)
	assert.Equal(t, 7, request.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApprove_AlreadyResolvedMovesNoMoney(t *testing.T) {
	repo, mock := newMockRepo(t)

	verifiedAt := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE payment_requests SET status = 'approved'`).
		WithArgs("", 1).
		WillReturnRows(sqlmock.NewRows(requestColumns()))
	mock.ExpectQuery(`SELECT id, user_id, amount, transaction_ref, method, status, admin_notes, created_at, verified_at FROM payment_requests WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(requestColumns()).
			AddRow(1, 7, decimal.NewFromInt(500), "TXN123", "upi", StatusApproved, nil, time.Now(), &verifiedAt))
	mock.ExpectRollback()

	request, err := repo.Approve(context.Background(), 1, "")
	assert.ErrorIs(t, err, ErrAlreadyResolved)
	assert.Nil(t, request)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_Pending(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE payment_requests SET status = \$1, admin_notes = \$2, verified_at = NOW\(\) WHERE id = \$3 AND status = 'pending'`).
		WithArgs(StatusRejected, "invalid reference", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Resolve(context.Background(), 1, StatusRejected, "invalid reference")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_AlreadyResolved(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE payment_requests SET status`).
		WithArgs(StatusRejected, "", 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	verifiedAt := time.Now()
	rows := sqlmock.NewRows(requestColumns()).
		AddRow(1, 7, decimal.NewFromInt(500), "TXN123", "upi", StatusApproved, nil, time.Now(), &verifiedAt)
	mock.ExpectQuery(`SELECT id, user_id, amount, transaction_ref, method, status, admin_notes, created_at, verified_at FROM payment_requests WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(rows)

	err := repo.Resolve(context.Background(), 1, StatusRejected, "")
	assert.ErrorIs(t, err, ErrAlreadyResolved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE payment_requests SET status`).
		WithArgs(StatusRejected, "", 42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery(`SELECT id, user_id, amount, transaction_ref, method, status, admin_notes, created_at, verified_at FROM payment_requests WHERE id = \$1`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(requestColumns()))

	err := repo.Resolve(context.Background(), 42, StatusRejected, "")
	assert.ErrorIs(t, err, ErrRequestNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPending_JoinsUsers(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows(append(requestColumns(), "user_name", "user_email")).
		AddRow(1, 7, decimal.NewFromInt(500), "TXN123", "upi", StatusPending, nil, time.Now(), nil, "Asha", "asha@test.com")

	mock.ExpectQuery(`FROM payment_requests pr JOIN users u ON u.id = pr.user_id WHERE pr.status = 'pending'`).
		WillReturnRows(rows)

	requests, err := repo.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "Asha", requests[0].UserName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
