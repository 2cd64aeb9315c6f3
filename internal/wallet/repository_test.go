package wallet

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/metrics"
)

func setupWalletMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func walletRows(id, userID int, balance string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "balance", "created_at", "updated_at"}).
		AddRow(id, userID, balance, time.Now(), time.Now())
}

func TestGetOrCreateWallet_WhenNotExists(t *testing.T) {
	repo, mock, closer := setupWalletMock(t)
	defer closer()

	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, balance, created_at, updated_at FROM wallets WHERE user_id = $1")).
		WithArgs(10).
		WillReturnError(sql.ErrNoRows)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO wallets (user_id) VALUES ($1) RETURNING id, user_id, balance, created_at, updated_at")).
		WithArgs(10).
		WillReturnRows(walletRows(5, 10, "0"))

	w, err := repo.GetOrCreateWallet(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 5, w.ID)
	require.True(t, w.Balance.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateWallet_WhenExists(t *testing.T) {
	repo, mock, closer := setupWalletMock(t)
	defer closer()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, balance, created_at, updated_at FROM wallets WHERE user_id = $1")).
		WithArgs(10).
		WillReturnRows(walletRows(5, 10, "1000.00"))

	w, err := repo.GetOrCreateWallet(context.Background(), 10)
	require.NoError(t, err)
	require.True(t, w.Balance.Equal(decimal.RequireFromString("1000.00")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebit_Success(t *testing.T) {
	repo, mock, closer := setupWalletMock(t)
	defer closer()

	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, balance, created_at, updated_at FROM wallets WHERE user_id = $1 FOR UPDATE")).
		WithArgs(20).
		WillReturnRows(walletRows(7, 20, "1000"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2")).
		WithArgs(decimal.NewFromInt(500), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO wallet_transactions (user_id, amount, type, description, booking_id) VALUES ($1, $2, $3, $4, $5)")).
		WithArgs(20, decimal.NewFromInt(-500), TypeDebit, "Booking for station EVS001", 3).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	bookingID := 3
	err := repo.Debit(ctx, 20, decimal.NewFromInt(500), "Booking for station EVS001", &bookingID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebit_InsufficientBalance(t *testing.T) {
	repo, mock, closer := setupWalletMock(t)
	defer closer()

	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, balance, created_at, updated_at FROM wallets WHERE user_id = $1 FOR UPDATE")).
		WithArgs(20).
		WillReturnRows(walletRows(7, 20, "100"))
	mock.ExpectRollback()

	err := repo.Debit(ctx, 20, decimal.NewFromInt(500), "Booking for station EVS001", nil)
	require.ErrorIs(t, err, ErrInsufficientBalance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebit_CreatesWalletWhenMissing(t *testing.T) {
	repo, mock, closer := setupWalletMock(t)
	defer closer()

	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, balance, created_at, updated_at FROM wallets WHERE user_id = $1 FOR UPDATE")).
		WithArgs(33).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO wallets (user_id) VALUES ($1) RETURNING id, user_id, balance, created_at, updated_at")).
		WithArgs(33).
		WillReturnRows(walletRows(9, 33, "0"))
	mock.ExpectRollback()

	// Fresh wallet has balance 0, so any positive debit fails.
	err := repo.Debit(ctx, 33, decimal.NewFromInt(50), "Booking", nil)
	require.ErrorIs(t, err, ErrInsufficientBalance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCredit_Success(t *testing.T) {
	repo, mock, closer := setupWalletMock(t)
	defer closer()

	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, balance, created_at, updated_at FROM wallets WHERE user_id = $1 FOR UPDATE")).
		WithArgs(20).
		WillReturnRows(walletRows(7, 20, "100"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2")).
		WithArgs(decimal.NewFromInt(300), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO wallet_transactions (user_id, amount, type, description, booking_id) VALUES ($1, $2, $3, $4, $5)")).
		WithArgs(20, decimal.NewFromInt(200), TypeCredit, "Payment approved - Request #4", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Credit(ctx, 20, decimal.NewFromInt(200), "Payment approved - Request #4")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListTransactions_OrderAndLimit(t *testing.T) {
	repo, mock, closer := setupWalletMock(t)
	defer closer()

	rows := sqlmock.NewRows([]string{"id", "user_id", "amount", "type", "description", "booking_id", "created_at"}).
		AddRow(3, 20, "-500.00", TypeDebit, "Booking for station EVS001", 3, time.Now()).
		AddRow(2, 20, "1000.00", TypeCredit, "Payment approved - Request #1", nil, time.Now().Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, id DESC LIMIT $2")).
		WithArgs(20, 2).
		WillReturnRows(rows)

	txs, err := repo.ListTransactions(context.Background(), 20, 2)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	require.Equal(t, TypeDebit, txs[0].Type)
	require.True(t, txs[0].Amount.IsNegative())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListTransactions_DefaultLimit(t *testing.T) {
	repo, mock, closer := setupWalletMock(t)
	defer closer()

	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $2")).
		WithArgs(20, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount", "type", "description", "booking_id", "created_at"}))

	_, err := repo.ListTransactions(context.Background(), 20, 0)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerConsistency_BalanceMatchesTransactionSum(t *testing.T) {
	// Replays a credit/debit sequence through the repository and checks
	// the final balance the repository writes equals the running sum of
	// the appended transaction amounts.
	repo, mock, closer := setupWalletMock(t)
	defer closer()

	ctx := context.Background()

	type step struct {
		credit  bool
		amount  int64
		balance int64 // balance after the step
	}
	steps := []step{
		{credit: true, amount: 1000, balance: 1000},
		{credit: false, amount: 300, balance: 700},
		{credit: false, amount: 200, balance: 500},
		{credit: true, amount: 50, balance: 550},
	}

	running := int64(0)
	for _, s := range steps {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WithArgs(1).
			WillReturnRows(walletRows(1, 1, decimal.NewFromInt(running).String()))

		delta := s.amount
		txType := TypeCredit
		if !s.credit {
			delta = -s.amount
			txType = TypeDebit
		}
		running += delta
		require.Equal(t, s.balance, running)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE wallets")).
			WithArgs(decimal.NewFromInt(running), 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO wallet_transactions")).
			WithArgs(1, decimal.NewFromInt(delta), txType, "op", nil).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		var err error
		if s.credit {
			err = repo.Credit(ctx, 1, decimal.NewFromInt(s.amount), "op")
		} else {
			err = repo.Debit(ctx, 1, decimal.NewFromInt(s.amount), "op", nil)
		}
		require.NoError(t, err)
	}

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebit_RollbackLeavesCounterUntouched(t *testing.T) {
	repo, mock, closer := setupWalletMock(t)
	defer closer()

	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(20).
		WillReturnRows(walletRows(7, 20, "100"))
	mock.ExpectRollback()

	before := testutil.ToFloat64(metrics.WalletTransactionsTotal.WithLabelValues(TypeDebit))
	err := repo.Debit(ctx, 20, decimal.NewFromInt(500), "Booking", nil)
	require.ErrorIs(t, err, ErrInsufficientBalance)
	require.Equal(t, before, testutil.ToFloat64(metrics.WalletTransactionsTotal.WithLabelValues(TypeDebit)))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(20).
		WillReturnRows(walletRows(7, 20, "1000"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE wallets")).
		WithArgs(decimal.NewFromInt(500), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO wallet_transactions")).
		WithArgs(20, decimal.NewFromInt(-500), TypeDebit, "Booking", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = repo.Debit(ctx, 20, decimal.NewFromInt(500), "Booking", nil)
	require.NoError(t, err)
	require.Equal(t, before+1, testutil.ToFloat64(metrics.WalletTransactionsTotal.WithLabelValues(TypeDebit)))
	require.NoError(t, mock.ExpectationsWereMet())
}
