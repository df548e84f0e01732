package ingest

import (
	"context"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/index"
)

// Extractor parses document bytes into one text unit per page.
type Extractor interface {
	ExtractPages(data []byte) ([]string, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// DocumentIndex is the write contract for the document collection.
type DocumentIndex interface {
	Add(records ...index.Record) error
}
