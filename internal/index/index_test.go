package index

import (
	"math"
	"testing"
)

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	ix := New()
	ix.Add(
		Record{Content: "east", Vector: []float32{1, 0}},
		Record{Content: "north", Vector: []float32{0, 1}},
		Record{Content: "northeast", Vector: []float32{1, 1}},
	)

	hits := ix.Search([]float32{1, 0}, 2)
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].Content != "east" {
		t.Errorf("top hit = %q, want %q", hits[0].Content, "east")
	}
	if hits[1].Content != "northeast" {
		t.Errorf("second hit = %q, want %q", hits[1].Content, "northeast")
	}
	if hits[0].Score < hits[1].Score {
		t.Errorf("hits not ranked: %f < %f", hits[0].Score, hits[1].Score)
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	ix := New()
	if hits := ix.Search([]float32{1, 0}, 10); hits != nil {
		t.Errorf("empty index search = %v, want nil", hits)
	}
}

func TestSearchKLargerThanIndex(t *testing.T) {
	ix := New()
	ix.Add(Record{Content: "only", Vector: []float32{1}})

	hits := ix.Search([]float32{1}, 100)
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}
}

func TestAddNormalizesVectors(t *testing.T) {
	ix := New()
	ix.Add(Record{Content: "a", Vector: []float32{3, 4}})

	recs := ix.Records()
	var norm float64
	for _, x := range recs[0].Vector {
		norm += float64(x) * float64(x)
	}
	if math.Abs(norm-1) > 1e-6 {
		t.Errorf("stored vector norm = %f, want 1", norm)
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	v := normalize([]float32{0, 0, 0})
	for _, x := range v {
		if x != 0 {
			t.Fatalf("zero vector changed: %v", v)
		}
	}
}

func TestRecordsReturnsCopy(t *testing.T) {
	ix := New()
	ix.Add(Record{Content: "a", Vector: []float32{1}})

	recs := ix.Records()
	recs[0].Content = "mutated"

	if ix.Records()[0].Content != "a" {
		t.Error("Records() exposed internal slice")
	}
}
