package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func userColumns() []string {
	return []string{"id", "name", "email", "password_hash", "role", "created_at"}
}

func TestCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	rows := sqlmock.NewRows(userColumns()).
		AddRow(1, "Asha", "asha@test.com", "hashed", "member", time.Now())

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Asha", "asha@test.com", "hashed", "member").
		WillReturnRows(rows)

	u, err := repo.Create(context.Background(), "Asha", "asha@test.com", "hashed", "member")
	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)
	assert.Equal(t, "member", u.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	rows := sqlmock.NewRows(userColumns()).
		AddRow(1, "Asha", "asha@test.com", "hashed", "member", time.Now())

	mock.ExpectQuery(`SELECT id, name, email, password_hash, role, created_at FROM users WHERE email = \$1`).
		WithArgs("asha@test.com").
		WillReturnRows(rows)

	u, err := repo.FindByEmail(context.Background(), "asha@test.com")
	require.NoError(t, err)
	assert.Equal(t, "Asha", u.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE email = \$1\)`).
		WithArgs("asha@test.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists(context.Background(), "asha@test.com")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAll(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	rows := sqlmock.NewRows(userColumns()).
		AddRow(2, "Ravi", "ravi@test.com", "hashed", "member", time.Now()).
		AddRow(1, "Asha", "asha@test.com", "hashed", "admin", time.Now())

	mock.ExpectQuery(`SELECT id, name, email, password_hash, role, created_at FROM users ORDER BY created_at DESC`).
		WillReturnRows(rows)

	users, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Ravi", users[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
