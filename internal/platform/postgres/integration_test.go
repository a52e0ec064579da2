//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/platform/postgres"
	"github.com/phrazzld/autolist-api/internal/store"
	"github.com/phrazzld/autolist-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seeded struct {
	owner    *domain.User
	category *domain.Category
	brand    *domain.Brand
}

func seedCatalog(t *testing.T, ctx context.Context, tx *sql.Tx, logger *slog.Logger) seeded {
	t.Helper()

	owner, err := domain.NewUser("integration-"+uuid.NewString()[:8], "password123", domain.UserTypeUser)
	require.NoError(t, err)
	owner.HashedPassword = "$2a$10$abcdefghijklmnopqrstuuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ01"
	require.NoError(t, postgres.NewPostgresUserStore(tx, logger).Create(ctx, owner))

	category, err := domain.NewCategory("Category " + uuid.NewString()[:8])
	require.NoError(t, err)
	require.NoError(t, postgres.NewPostgresCategoryStore(tx, logger).Create(ctx, category))

	brand, err := domain.NewBrand("Brand " + uuid.NewString()[:8])
	require.NoError(t, err)
	require.NoError(t, postgres.NewPostgresBrandStore(tx, logger).Create(ctx, brand))

	return seeded{owner: owner, category: category, brand: brand}
}

func TestPublicationLifecycle_Integration(t *testing.T) {
	db := testdb.Open(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		s := seedCatalog(t, ctx, tx, logger)
		pubs := postgres.NewPostgresPublicationStore(tx, logger)
		images := postgres.NewPostgresImageStore(tx, logger)

		pub, err := domain.NewPublication(s.owner.ID, domain.PublicationInput{
			Title:            "Volkswagen Golf",
			ShortDescription: "Daily driver",
			Description:      "Single owner, regularly serviced",
			VehicleYear:      2016,
			CategoryID:       s.category.ID,
			BrandID:          s.brand.ID,
		})
		require.NoError(t, err)
		require.NoError(t, pubs.Create(ctx, pub))

		set := domain.InitializeImageSet(pub.ID, []string{"https://blobs.test/a", "https://blobs.test/b", "https://blobs.test/c"})
		require.NoError(t, images.CreateMultiple(ctx, set))

		reordered, err := domain.Reorder(set, map[uuid.UUID]int{set[0].ID: 2, set[1].ID: 1})
		require.NoError(t, err)
		require.NoError(t, images.UpdatePositions(ctx, reordered))

		stored, err := images.ListByPublication(ctx, pub.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://blobs.test/b", "https://blobs.test/a", "https://blobs.test/c"}, stored.URLs())

		detail, err := pubs.GetDetail(ctx, pub.ID)
		require.NoError(t, err)
		assert.Equal(t, s.owner.Username, detail.Username)
		assert.Equal(t, s.brand.Name, detail.BrandName)

		require.NoError(t, pubs.Delete(ctx, pub.ID))
		remaining, err := images.ListByPublication(ctx, pub.ID)
		require.NoError(t, err)
		assert.Empty(t, remaining)

		_, err = pubs.GetByID(ctx, pub.ID)
		assert.ErrorIs(t, err, store.ErrPublicationNotFound)
	})
}

func TestCategoryInUse_Integration(t *testing.T) {
	db := testdb.Open(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		s := seedCatalog(t, ctx, tx, logger)
		pub, err := domain.NewPublication(s.owner.ID, domain.PublicationInput{
			Title:            "Toyota Hilux",
			ShortDescription: "Work truck",
			Description:      "Towing package included",
			VehicleYear:      2020,
			CategoryID:       s.category.ID,
			BrandID:          s.brand.ID,
		})
		require.NoError(t, err)
		require.NoError(t, postgres.NewPostgresPublicationStore(tx, logger).Create(ctx, pub))

		err = postgres.NewPostgresCategoryStore(tx, logger).Delete(ctx, s.category.ID)
		assert.ErrorIs(t, err, store.ErrInUse)
	})
}
