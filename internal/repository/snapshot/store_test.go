package snapshot

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/index"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	ix := index.New()
	ix.Add(
		index.Record{
			Content: "first passage",
			Tags:    map[string]string{domain.TagFileName: "a.pdf", domain.TagPageNumber: "1"},
			Vector:  []float32{0.1, 0.2, 0.3},
		},
		index.Record{
			Content: "second passage",
			Tags:    map[string]string{domain.TagFileName: "a.pdf", domain.TagPageNumber: "2"},
			Vector:  []float32{0.4, 0.5, 0.6},
		},
	)

	if err := store.Save("documents", ix); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load("documents")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Len() != ix.Len() {
		t.Fatalf("loaded Len() = %d, want %d", loaded.Len(), ix.Len())
	}

	want := ix.Records()
	got := loaded.Records()
	for i := range want {
		if got[i].Content != want[i].Content {
			t.Errorf("record %d content = %q, want %q", i, got[i].Content, want[i].Content)
		}
		for k, v := range want[i].Tags {
			if got[i].Tags[k] != v {
				t.Errorf("record %d tag %s = %q, want %q", i, k, got[i].Tags[k], v)
			}
		}
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	_, err = store.Load("documents")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Load on missing snapshot = %v, want ErrNotFound", err)
	}
}

func TestSaveOverwritesPriorSnapshot(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	ix := index.New()
	ix.Add(index.Record{Content: "a", Vector: []float32{1}})
	if err := store.Save("documents", ix); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	if err := store.Save("documents", index.New()); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	loaded, err := store.Load("documents")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Len() != 0 {
		t.Errorf("loaded Len() = %d, want 0 after overwrite", loaded.Len())
	}
}
