package query

import (
	"context"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/index"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Generator produces an answer from a composed prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Searcher is the read contract for a vector collection.
type Searcher interface {
	Search(vector []float32, k int) []index.Hit
	Len() int
}

// HistoryIndex is the read/write contract for the chat-history collection.
type HistoryIndex interface {
	Searcher
	Add(records ...index.Record) error
}

// TurnLog appends conversation turns to the per-chat log.
type TurnLog interface {
	Append(chatID, user, ai string) (domain.Turn, error)
}
