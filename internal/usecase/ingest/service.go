// Package ingest converts an uploaded PDF into normalized, metadata-tagged
// passages and commits them to the document index.
package ingest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/index"
)

// Service handles document uploads.
type Service struct {
	docs      DocumentIndex
	extractor Extractor
	embedder  Embedder
	timeout   time.Duration
}

// New creates an ingestion service.
func New(docs DocumentIndex, extractor Extractor, embedder Embedder) *Service {
	return &Service{
		docs:      docs,
		extractor: extractor,
		embedder:  embedder,
		timeout:   60 * time.Second,
	}
}

// WithTimeout configures the per-embedding-call timeout.
func (s *Service) WithTimeout(timeout time.Duration) *Service {
	if timeout > 0 {
		s.timeout = timeout
	}
	return s
}

// Upload parses fileName's bytes into pages, builds one normalized passage
// per page with file_name and 1-based page_number metadata, embeds each
// passage, and commits all of them to the document index in one add (the
// collection persists its snapshot). Returns the number of passages
// indexed. The index is never touched for rejected uploads.
func (s *Service) Upload(ctx context.Context, data []byte, fileName string) (int, error) {
	if !strings.HasSuffix(strings.ToLower(fileName), ".pdf") {
		return 0, fmt.Errorf("%s: %w", fileName, domain.ErrNotPDF)
	}

	pages, err := s.extractor.ExtractPages(data)
	if err != nil {
		return 0, fmt.Errorf("extract pages: %w", err)
	}
	if len(pages) == 0 {
		return 0, fmt.Errorf("%s: %w", fileName, domain.ErrEmptyDocument)
	}

	records := make([]index.Record, 0, len(pages))
	for i, text := range pages {
		passage := domain.Passage{
			Content:    domain.NormalizeText(text),
			FileName:   fileName,
			PageNumber: i + 1,
		}

		ectx, cancel := context.WithTimeout(ctx, s.timeout)
		result, err := s.embedder.Embed(ectx, passage.Content)
		cancel()
		if err != nil {
			return 0, fmt.Errorf("embed page %d of %s: %w", passage.PageNumber, fileName, err)
		}

		records = append(records, index.Record{
			Content: passage.Content,
			Tags: map[string]string{
				domain.TagFileName:   passage.FileName,
				domain.TagPageNumber: strconv.Itoa(passage.PageNumber),
			},
			Vector: result.Embedding,
		})
	}

	if err := s.docs.Add(records...); err != nil {
		return 0, fmt.Errorf("index passages: %w", err)
	}
	return len(records), nil
}
