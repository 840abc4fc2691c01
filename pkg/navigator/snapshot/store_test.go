package snapshot_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/randalmurphal/navigator/pkg/navigator/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeFactory func(t *testing.T) snapshot.Store

func entry(typ string, id uint64, data string) snapshot.Entry {
	return snapshot.Entry{Type: typ, Identity: id, Data: json.RawMessage(data)}
}

func stack(sessionID, stackID string, depth int) *snapshot.Snapshot {
	path := make([]snapshot.Entry, depth)
	for i := range path {
		path[i] = entry("main.Page", uint64(i+1), `{"n":1}`)
	}
	return snapshot.New(sessionID, stackID, path)
}

// storeContractTest runs the behaviour every Store must share.
func storeContractTest(t *testing.T, name string, factory storeFactory) {
	ctx := context.Background()

	t.Run(name+"/Save_and_Load", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		snap := stack("s1", "home", 2).
			WithParent("root", "tab").
			WithSheet(entry("main.Login", 9, `{}`))
		require.NoError(t, store.Save(ctx, snap))

		loaded, err := store.Load(ctx, "s1", "home")
		require.NoError(t, err)
		assert.Equal(t, "home", loaded.StackID)
		assert.Equal(t, "root", loaded.ParentID)
		assert.Equal(t, "tab", loaded.Placement)
		assert.Equal(t, 2, loaded.Depth())
		require.NotNil(t, loaded.Sheet)
		assert.Equal(t, uint64(9), loaded.Sheet.Identity)
		assert.Nil(t, loaded.Cover)
	})

	t.Run(name+"/Load_NotFound", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		_, err := store.Load(ctx, "nobody", "nothing")
		assert.ErrorIs(t, err, snapshot.ErrNotFound)
	})

	t.Run(name+"/Save_Invalid", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		assert.ErrorIs(t, store.Save(ctx, nil), snapshot.ErrInvalidSnapshot)
		assert.ErrorIs(t, store.Save(ctx, stack("", "home", 0)), snapshot.ErrInvalidSnapshot)
		assert.ErrorIs(t, store.Save(ctx, stack("s1", "", 0)), snapshot.ErrInvalidSnapshot)
	})

	t.Run(name+"/Save_Overwrite_BumpsRevision", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		require.NoError(t, store.Save(ctx, stack("s1", "home", 1)))
		require.NoError(t, store.Save(ctx, stack("s1", "home", 3)))

		loaded, err := store.Load(ctx, "s1", "home")
		require.NoError(t, err)
		assert.Equal(t, 3, loaded.Depth())

		infos, err := store.List(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, infos, 1)
		assert.Equal(t, 2, infos[0].Revision)
		assert.Equal(t, 3, infos[0].Depth)
		assert.Positive(t, infos[0].Size)
	})

	t.Run(name+"/List_Empty", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		infos, err := store.List(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, infos)
	})

	t.Run(name+"/List_FirstSaveOrder", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		require.NoError(t, store.Save(ctx, stack("s1", "root", 0)))
		require.NoError(t, store.Save(ctx, stack("s1", "home", 1).WithParent("root", "tab")))
		require.NoError(t, store.Save(ctx, stack("s1", "settings", 0).WithParent("root", "tab")))
		require.NoError(t, store.Save(ctx, stack("s1", "root", 1)))
		require.NoError(t, store.Save(ctx, stack("s2", "root", 0)))

		infos, err := store.List(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, infos, 3)
		assert.Equal(t, "root", infos[0].StackID)
		assert.Equal(t, "home", infos[1].StackID)
		assert.Equal(t, "root", infos[1].ParentID)
		assert.Equal(t, "settings", infos[2].StackID)
	})

	t.Run(name+"/Delete", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		require.NoError(t, store.Save(ctx, stack("s1", "home", 1)))
		require.NoError(t, store.Delete(ctx, "s1", "home"))
		require.NoError(t, store.Delete(ctx, "s1", "home"))

		_, err := store.Load(ctx, "s1", "home")
		assert.ErrorIs(t, err, snapshot.ErrNotFound)
	})

	t.Run(name+"/DeleteSession", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		require.NoError(t, store.Save(ctx, stack("s1", "root", 0)))
		require.NoError(t, store.Save(ctx, stack("s1", "home", 0)))
		require.NoError(t, store.Save(ctx, stack("s2", "root", 0)))

		require.NoError(t, store.DeleteSession(ctx, "s1"))

		infos, err := store.List(ctx, "s1")
		require.NoError(t, err)
		assert.Empty(t, infos)

		_, err = store.Load(ctx, "s2", "root")
		assert.NoError(t, err)
	})

	t.Run(name+"/Closed", func(t *testing.T) {
		store := factory(t)
		require.NoError(t, store.Close())

		assert.ErrorIs(t, store.Save(ctx, stack("s1", "root", 0)), snapshot.ErrStoreClosed)
		_, err := store.Load(ctx, "s1", "root")
		assert.ErrorIs(t, err, snapshot.ErrStoreClosed)
		_, err = store.List(ctx, "s1")
		assert.ErrorIs(t, err, snapshot.ErrStoreClosed)
		assert.ErrorIs(t, store.Delete(ctx, "s1", "root"), snapshot.ErrStoreClosed)
		assert.ErrorIs(t, store.DeleteSession(ctx, "s1"), snapshot.ErrStoreClosed)
		assert.NoError(t, store.Close())
	})
}

func TestMemoryStore_Contract(t *testing.T) {
	storeContractTest(t, "MemoryStore", func(t *testing.T) snapshot.Store {
		return snapshot.NewMemoryStore()
	})
}

func TestSQLiteStore_Contract(t *testing.T) {
	storeContractTest(t, "SQLiteStore", func(t *testing.T) snapshot.Store {
		store, err := snapshot.NewSQLiteStore(filepath.Join(t.TempDir(), "snapshots.db"))
		require.NoError(t, err)
		return store
	})
}

func TestMemoryStore_Len(t *testing.T) {
	store := snapshot.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, stack("s1", "root", 0)))
	require.NoError(t, store.Save(ctx, stack("s2", "root", 0)))
	require.NoError(t, store.Save(ctx, stack("s2", "root", 1)))
	assert.Equal(t, 2, store.Len())
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store := snapshot.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Save(ctx, stack("s1", "root", 0)), context.Canceled)
}

func TestMemoryStore_IsolatesCaller(t *testing.T) {
	store := snapshot.NewMemoryStore()
	ctx := context.Background()

	snap := stack("s1", "home", 1)
	require.NoError(t, store.Save(ctx, snap))
	snap.Path = append(snap.Path, entry("main.Page", 99, `{}`))

	loaded, err := store.Load(ctx, "s1", "home")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Depth())
}

func TestSQLiteStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.db")
	ctx := context.Background()

	store, err := snapshot.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, stack("s1", "home", 2)))
	require.NoError(t, store.Close())

	reopened, err := snapshot.NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx, "s1", "home")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Depth())
}
