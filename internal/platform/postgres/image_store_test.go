package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var imageColumnNames = []string{"id", "publication_id", "url", "position", "created_at"}

func TestPostgresImageStore_CreateMultiple(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresImageStore(db, nil)
	pubID := uuid.New()
	set := domain.InitializeImageSet(pubID, []string{"https://cdn/a.jpg", "https://cdn/b.jpg"})

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO images (id, publication_id, url, position, created_at) VALUES "+
			"($1, $2, $3, $4, $5), ($6, $7, $8, $9, $10)")).
		WithArgs(
			set[0].ID, pubID, "https://cdn/a.jpg", 1, set[0].CreatedAt,
			set[1].ID, pubID, "https://cdn/b.jpg", 2, set[1].CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, s.CreateMultiple(context.Background(), set))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresImageStore_CreateMultiple_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresImageStore(db, nil)

	require.NoError(t, s.CreateMultiple(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresImageStore_ListByPublication(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresImageStore(db, nil)
	pubID := uuid.New()
	now := time.Now().UTC()
	first, second := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY position ASC")).
		WithArgs(pubID).
		WillReturnRows(sqlmock.NewRows(imageColumnNames).
			AddRow(first.String(), pubID.String(), "https://cdn/1.jpg", 1, now).
			AddRow(second.String(), pubID.String(), "https://cdn/2.jpg", 2, now))

	set, err := s.ListByPublication(context.Background(), pubID)
	require.NoError(t, err)
	require.Len(t, set, 2)
	assert.Equal(t, first, set[0].ID)
	assert.True(t, set[0].IsCover())
	assert.Equal(t, "https://cdn/2.jpg", set[1].URL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresImageStore_DeleteByIDs(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresImageStore(db, nil)
	pubID := uuid.New()
	a, b := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM images WHERE publication_id = $1 AND id IN ($2, $3)")).
		WithArgs(pubID, a, b).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, s.DeleteByIDs(context.Background(), pubID, []uuid.UUID{a, b}))
	require.NoError(t, s.DeleteByIDs(context.Background(), pubID, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresImageStore_DeleteByPublication(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresImageStore(db, nil)
	pubID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("RETURNING id, publication_id, url, position, created_at")).
		WithArgs(pubID).
		WillReturnRows(sqlmock.NewRows(imageColumnNames).
			AddRow(uuid.NewString(), pubID.String(), "https://cdn/gone.jpg", 1, time.Now()))

	removed, err := s.DeleteByPublication(context.Background(), pubID)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn/gone.jpg"}, removed.URLs())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresImageStore_UpdatePositions(t *testing.T) {
	pubID := uuid.New()
	set := domain.InitializeImageSet(pubID, []string{"a", "b"})

	t.Run("updates every row", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresImageStore(db, nil)
		for _, img := range set {
			mock.ExpectExec(regexp.QuoteMeta("UPDATE images SET position = $1")).
				WithArgs(img.Position, img.ID, pubID).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}

		require.NoError(t, s.UpdatePositions(context.Background(), set))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresImageStore(db, nil)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE images SET position = $1")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.UpdatePositions(context.Background(), set)
		assert.ErrorIs(t, err, store.ErrImageNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresImageStore(db, nil)
		dbErr := errors.New("connection reset")
		mock.ExpectExec(regexp.QuoteMeta("UPDATE images SET position = $1")).
			WillReturnError(dbErr)

		err := s.UpdatePositions(context.Background(), set)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresImageStore_ListURLsByOwner(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresImageStore(db, nil)
	ownerID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.user_id = $1")).
		WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"url"}).
			AddRow("https://cdn.example.com/a/front.jpg").
			AddRow("https://cdn.example.com/a/rear.jpg"))

	urls, err := s.ListURLsByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/a/front.jpg", "https://cdn.example.com/a/rear.jpg"}, urls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
