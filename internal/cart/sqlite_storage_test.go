package cart_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/co-developer342/fyp-wednesday/internal/cart"
	"github.com/co-developer342/fyp-wednesday/internal/catalog"
	"github.com/co-developer342/fyp-wednesday/internal/db"
)

func openTestDB(t *testing.T) cart.Storage {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "storefront.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database, zap.NewNop()))
	return cart.NewSQLiteStorage(database)
}

func TestSQLiteStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := openTestDB(t)

	data, err := storage.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, storage.Save(ctx, []byte(`[{"lineId":"l1"}]`)))
	data, err = storage.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"lineId":"l1"}]`), data)

	// Save overwrites in place
	require.NoError(t, storage.Save(ctx, []byte(`[]`)))
	data, err = storage.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), data)

	require.NoError(t, storage.Clear(ctx))
	data, err = storage.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestStoreOnSQLiteStorage(t *testing.T) {
	ctx := context.Background()
	storage := openTestDB(t)

	store := cart.NewStore(ctx, storage, zap.NewNop())
	_, err := store.Add(ctx, &catalog.Product{ID: "p1", Slug: "mug", Name: "Mug", BasePrice: 7.50}, nil)
	require.NoError(t, err)

	rehydrated := cart.NewStore(ctx, storage, zap.NewNop())
	assert.Equal(t, store.Items(), rehydrated.Items())
}
