package benchmarks

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/randalmurphal/navigator/pkg/navigator"
	"github.com/randalmurphal/navigator/pkg/navigator/snapshot"
)

func newCodec() *navigator.Codec {
	codec := navigator.NewCodec()
	navigator.RegisterDestination[Page](codec)
	navigator.RegisterDestination[Detail](codec)
	return codec
}

func createSnapshot(b *testing.B, depth int) *snapshot.Snapshot {
	b.Helper()
	s, _ := newSession(b)
	for n := 0; n < depth; n++ {
		s.Root().Push(Detail{
			ID:       stackID(n),
			Tags:     []string{"a", "b"},
			Metadata: map[string]string{"k": "v"},
		})
	}
	snap, err := s.Root().Snapshot(newCodec())
	if err != nil {
		b.Fatal(err)
	}
	return snap
}

func createSQLiteStore(b *testing.B) *snapshot.SQLiteStore {
	b.Helper()
	store, err := snapshot.NewSQLiteStore(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = store.Close() })
	return store
}

// BenchmarkMemoryStore_Save measures in-memory snapshot save.
func BenchmarkMemoryStore_Save(b *testing.B) {
	store := snapshot.NewMemoryStore()
	snap := createSnapshot(b, 10)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Save(ctx, snap)
	}
}

// BenchmarkMemoryStore_Load measures in-memory snapshot load.
func BenchmarkMemoryStore_Load(b *testing.B) {
	store := snapshot.NewMemoryStore()
	snap := createSnapshot(b, 10)
	ctx := context.Background()
	_ = store.Save(ctx, snap)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.Load(ctx, snap.SessionID, snap.StackID)
	}
}

// BenchmarkSQLiteStore_Save measures SQLite snapshot save.
func BenchmarkSQLiteStore_Save(b *testing.B) {
	store := createSQLiteStore(b)
	snap := createSnapshot(b, 10)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		snap.StackID = stackID(i % 100)
		_ = store.Save(ctx, snap)
	}
}

// BenchmarkSQLiteStore_Load measures SQLite snapshot load.
func BenchmarkSQLiteStore_Load(b *testing.B) {
	store := createSQLiteStore(b)
	snap := createSnapshot(b, 10)
	ctx := context.Background()
	_ = store.Save(ctx, snap)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.Load(ctx, snap.SessionID, snap.StackID)
	}
}

// BenchmarkSession_SaveRestore measures a full save and restore of a 10x2
// tree through the memory store.
func BenchmarkSession_SaveRestore(b *testing.B) {
	ctx := context.Background()
	src, _ := newSession(b, navigator.WithCodec(newCodec()))
	mountTree(src, 10, 2)
	for _, nav := range src.Navigators() {
		nav.Push(Page{N: 1})
		nav.Push(Page{N: 2})
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store := snapshot.NewMemoryStore()
		if err := src.SaveSnapshots(ctx, store); err != nil {
			b.Fatal(err)
		}
		dst, _ := newSession(b, navigator.WithCodec(newCodec()))
		if err := dst.RestoreSnapshots(ctx, store, src.ID()); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkCodec_Encode measures encoding one destination.
func BenchmarkCodec_Encode(b *testing.B) {
	codec := newCodec()
	d := navigator.Wrap(Detail{ID: "d", Tags: []string{"a"}, Metadata: map[string]string{"k": "v"}})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = codec.Encode(d)
	}
}
