// Package library manages the set of indexed documents: listing distinct
// file names and deleting all of a file's passages.
package library

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/index"
)

// DocumentIndex is the enumeration and rebuild contract for the document
// collection.
type DocumentIndex interface {
	Records() []index.Record
	RebuildExcluding(drop func(index.Record) bool) (int, error)
}

// Service manages indexed documents.
type Service struct {
	docs DocumentIndex
}

// New creates a library service.
func New(docs DocumentIndex) *Service {
	return &Service{docs: docs}
}

// List returns the distinct file names present in the document index,
// sorted ascending.
func (s *Service) List() []string {
	seen := make(map[string]struct{})
	for _, r := range s.docs.Records() {
		if name, ok := r.Tags[domain.TagFileName]; ok {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Delete rebuilds the document index without fileName's passages and
// returns the number of passages removed. Deleting an unknown file removes
// nothing and is not an error.
func (s *Service) Delete(fileName string) (int, error) {
	removed, err := s.docs.RebuildExcluding(func(r index.Record) bool {
		return r.Tags[domain.TagFileName] == fileName
	})
	if err != nil {
		return 0, fmt.Errorf("delete document %q: %w", fileName, err)
	}
	return removed, nil
}
