package snapshot

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()

	path := filepath.Join(t.TempDir(), "snapshots.db")
	store, err := NewSQLite(context.Background(), path, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestSQLiteLoadAbsentKey(t *testing.T) {
	store := newTestSQLite(t)

	value, err := store.Load(context.Background(), "gn:cart:missing")
	require.NoError(t, err)
	require.Nil(t, value)
}

func TestSQLiteSaveUpsertsAndLoads(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "gn:cart:s1", []byte("first")))
	require.NoError(t, store.Save(ctx, "gn:cart:s1", []byte("second")))

	value, err := store.Load(ctx, "gn:cart:s1")
	require.NoError(t, err)
	require.Equal(t, "second", string(value))
}

func TestSQLitePing(t *testing.T) {
	store := newTestSQLite(t)
	require.NoError(t, store.Ping(context.Background()))
}

func TestSQLiteRequiresPath(t *testing.T) {
	_, err := NewSQLite(context.Background(), "", nil)
	require.Error(t, err)
}
