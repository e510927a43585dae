package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"collectivecanvas/pkg/canvas/submission"
	"collectivecanvas/pkg/engine/geom"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	mem, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite(:memory:): %v", err)
	}
	file, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("OpenSQLite(file): %v", err)
	}
	all := map[string]Store{
		"memory":      NewMemoryStore(),
		"sqlite-mem":  mem,
		"sqlite-file": file,
	}
	t.Cleanup(func() {
		for _, s := range all {
			s.Close()
		}
	})
	return all
}

func sample(id, canvas, word string, at time.Time) submission.Submission {
	return submission.Submission{
		ID:        id,
		CanvasID:  canvas,
		Token:     word,
		Color:     geom.RGB{R: 0xFF, G: 0x6B, B: 0x6B},
		Timestamp: at,
	}
}

func TestStore_AppendListCountClear(t *testing.T) {
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			st.Append(ctx, sample("a", "art01", "one", base))
			st.Append(ctx, sample("b", "art01", "two", base.Add(time.Second)))
			st.Append(ctx, sample("c", "glow02", "three", base))

			got, err := st.List(ctx, "art01")
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
				t.Fatalf("List(art01) = %+v", got)
			}
			if got[1].Token != "two" || got[1].Color != (geom.RGB{R: 0xFF, G: 0x6B, B: 0x6B}) {
				t.Errorf("round-tripped submission = %+v", got[1])
			}
			if !got[0].Timestamp.Equal(base) {
				t.Errorf("Timestamp = %v, want %v", got[0].Timestamp, base)
			}

			if n, _ := st.Count(ctx, "glow02"); n != 1 {
				t.Errorf("Count(glow02) = %d, want 1", n)
			}
			if err := st.Clear(ctx, "art01"); err != nil {
				t.Fatal(err)
			}
			if n, _ := st.Count(ctx, "art01"); n != 0 {
				t.Errorf("Count(art01) after Clear = %d", n)
			}
			if n, _ := st.Count(ctx, "glow02"); n != 1 {
				t.Errorf("Clear(art01) removed glow02 rows")
			}
		})
	}
}

func TestReplay(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	st.Append(ctx, sample("a", "art01", "one", time.Now()))
	st.Append(ctx, sample("b", "art01", "two", time.Now()))

	seen := submission.NewDeduper()
	n, err := Replay(ctx, st, "art01", seen)
	if err != nil || n != 2 {
		t.Fatalf("Replay = %d, %v", n, err)
	}
	if !seen.Has("a") || !seen.Has("b") {
		t.Error("replayed IDs not marked seen")
	}
}

func TestMemoryStore_Closed(t *testing.T) {
	st := NewMemoryStore()
	st.Close()
	if err := st.Append(context.Background(), sample("a", "x", "y", time.Now())); !errors.Is(err, ErrClosed) {
		t.Errorf("Append after Close = %v, want ErrClosed", err)
	}
}

func TestSQLiteStore_DuplicateIDIgnored(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	st.Append(ctx, sample("a", "art01", "one", time.Now()))
	if err := st.Append(ctx, sample("a", "art01", "one", time.Now())); err != nil {
		t.Fatalf("duplicate Append: %v", err)
	}
	if n, _ := st.Count(ctx, "art01"); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}
