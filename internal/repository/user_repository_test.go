package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(db), mock
}

func TestUserRepoCreate(t *testing.T) {
	t.Run("Should insert and return the new id", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (name, email, password_hash, user_type) VALUES (?,?,?,?)")).
			WithArgs("Asha", "asha@x.com", sqlmock.AnyArg(), "Citizen").
			WillReturnResult(sqlmock.NewResult(7, 1))

		id, err := repo.Create(context.Background(), "Asha", " Asha@X.com ", "password1", "Citizen", 4)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("Should map a duplicate key to ErrEmailExists", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec("INSERT INTO users").
			WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'asha@x.com' for key 'users.email'"))

		_, err := repo.Create(context.Background(), "Asha", "asha@x.com", "password1", "Citizen", 4)
		assert.ErrorIs(t, err, ErrEmailExists)
	})
}

func TestUserRepoGetByEmail(t *testing.T) {
	t.Run("Should scan a full row", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		now := time.Now().UTC()
		rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "user_type", "created_at", "updated_at"}).
			AddRow(3, "Officer", "officer@epanchayat.com", "$2a$04$hash", "Officer", now, now)
		mock.ExpectQuery("SELECT .+ FROM users WHERE email=").
			WithArgs("officer@epanchayat.com").
			WillReturnRows(rows)

		u, err := repo.GetByEmail(context.Background(), "OFFICER@epanchayat.com")
		require.NoError(t, err)
		assert.Equal(t, uint64(3), u.ID)
		assert.Equal(t, "Officer", u.UserType)
	})
	t.Run("Should pass through sql.ErrNoRows", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT .+ FROM users WHERE email=").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByEmail(context.Background(), "ghost@x.com")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestUserRepoCountByType(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE user_type=?")).
		WithArgs("Staff").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.CountByType(context.Background(), "Staff")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
