package sqlitestore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"notifybot/internal/storage/sqlitestore"
)

func openStore(t *testing.T) *sqlitestore.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bot.db")
	store, db, err := sqlitestore.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return store
}

func TestStore_AddAndAll(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	require.NoError(t, store.Add(ctx, 200))
	require.NoError(t, store.Add(ctx, 100))
	// adding the same chat twice is not an error
	require.NoError(t, store.Add(ctx, 100))

	subs, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	require.Equal(t, int64(100), subs[0].ChatID)
	require.Equal(t, int64(200), subs[1].ChatID)
	require.False(t, subs[0].AddedAt.IsZero())
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	require.NoError(t, store.Add(ctx, 1))
	require.NoError(t, store.Remove(ctx, 1))
	// removing an unknown chat is not an error
	require.NoError(t, store.Remove(ctx, 42))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestStore_Count(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, store.Add(ctx, id))
	}
	n, err = store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestOpen_Reopen(t *testing.T) {
	// migrations must be idempotent across restarts
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bot.db")

	store, db, err := sqlitestore.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, 7))
	require.NoError(t, db.Close())

	store, db, err = sqlitestore.Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	n, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
