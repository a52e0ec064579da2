package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresUserStore_Create(t *testing.T) {
	ctx := context.Background()
	user, err := domain.NewUser("driver", "password123", domain.UserTypeUser)
	require.NoError(t, err)

	t.Run("requires hash", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, nil)
		u := *user
		u.HashedPassword = ""

		err := s.Create(ctx, &u)
		assert.ErrorIs(t, err, domain.ErrEmptyHashedPassword)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("username taken", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, nil)
		u := *user
		u.HashedPassword = "$2a$10$hash"

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs(u.ID, "driver", "$2a$10$hash", "user", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

		err := s.Create(ctx, &u)
		assert.ErrorIs(t, err, store.ErrUsernameExists)
		assert.True(t, store.IsDuplicateError(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresUserStore_GetByUsername(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, nil)
		id := "0b6f7c8e-1d1f-4c3a-9d4c-8a6a2a0b1c2d"
		now := time.Now().UTC()

		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
			WithArgs("admin").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "username", "hashed_password", "user_type", "created_at", "updated_at",
			}).AddRow(id, "admin", "$2a$10$hash", "admin", now, now))

		u, err := s.GetByUsername(ctx, "admin")
		require.NoError(t, err)
		assert.Equal(t, id, u.ID.String())
		assert.True(t, u.IsAdmin())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, nil)
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
			WillReturnError(sql.ErrNoRows)

		_, err := s.GetByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestPostgresUserStore_List(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresUserStore(db, nil)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users ORDER BY username LIMIT $1 OFFSET $2")).
		WithArgs(domain.MaxPageLimit, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "username", "hashed_password", "user_type", "created_at", "updated_at",
		}).
			AddRow(uuid.NewString(), "ana", "$2a$10$hash", "user", now, now).
			AddRow(uuid.NewString(), "root", "$2a$10$hash", "admin", now, now))

	users, err := s.List(context.Background(), domain.Page{Skip: -4, Limit: 1000})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "ana", users[0].Username)
	assert.True(t, users[1].IsAdmin())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserStore_Update(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{
		ID:             uuid.New(),
		Username:       "jane.doe",
		HashedPassword: "$2a$10$rehashed",
		UserType:       domain.UserTypeUser,
		UpdatedAt:      time.Now().UTC(),
	}
	update := regexp.QuoteMeta("UPDATE users")

	t.Run("updated", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(update).
			WithArgs(user.ID, "jane.doe", "$2a$10$rehashed", "user", user.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewPostgresUserStore(db, nil).Update(ctx, user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("username taken", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(update).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

		err := NewPostgresUserStore(db, nil).Update(ctx, user)
		assert.ErrorIs(t, err, store.ErrUsernameExists)
	})

	t.Run("missing user", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewPostgresUserStore(db, nil).Update(ctx, user)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("requires hash", func(t *testing.T) {
		db, mock := newMockDB(t)
		u := *user
		u.HashedPassword = ""

		err := NewPostgresUserStore(db, nil).Update(ctx, &u)
		assert.ErrorIs(t, err, domain.ErrEmptyHashedPassword)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresUserStore_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresUserStore(db, nil)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Delete(context.Background(), id))
	assert.ErrorIs(t, s.Delete(context.Background(), id), store.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
