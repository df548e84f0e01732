// Package index implements an in-memory vector index with brute-force
// cosine similarity and named, snapshot-backed collections.
package index

import (
	"math"
	"sort"
)

// Record is one indexed unit: text content, metadata tags, and its
// embedding vector.
type Record struct {
	Content string
	Tags    map[string]string
	Vector  []float32
}

// Hit is a single search result with a cosine similarity score.
type Hit struct {
	Record
	Score float64
}

// Index is an in-memory vector index. Vectors are L2-normalized on insert,
// so the dot product in Search is cosine similarity. Index itself is not
// safe for concurrent use; Collection provides the locking.
type Index struct {
	records []Record
}

// New creates an empty index.
func New() *Index {
	return &Index{}
}

// Add appends records to the index, normalizing their vectors.
func (ix *Index) Add(records ...Record) {
	for _, r := range records {
		r.Vector = normalize(r.Vector)
		ix.records = append(ix.records, r)
	}
}

// Search returns up to k records ranked by cosine similarity to vector.
// An empty index returns nil.
func (ix *Index) Search(vector []float32, k int) []Hit {
	if len(ix.records) == 0 || k <= 0 {
		return nil
	}

	q := normalize(vector)
	hits := make([]Hit, len(ix.records))
	for i, r := range ix.records {
		hits[i] = Hit{Record: r, Score: dot(r.Vector, q)}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k]
}

// Records returns a copy of the record slice for enumeration and rebuilds.
func (ix *Index) Records() []Record {
	out := make([]Record, len(ix.records))
	copy(out, ix.records)
	return out
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	return len(ix.records)
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// normalize returns an L2-normalized copy of v. Zero vectors are returned
// as-is.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	inv := 1 / math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}
