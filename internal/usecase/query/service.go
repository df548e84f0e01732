// Package query implements the retrieval-augmented answer pipeline:
// retrieve relevant passages and prior turns, compose a generation prompt,
// invoke the generation provider, and persist the new turn.
package query

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/index"
	"github.com/kailas-cloud/docsearch/internal/logger"
)

// Service answers questions against the document index.
type Service struct {
	docs      Searcher
	chats     HistoryIndex
	log       TurnLog
	embedder  Embedder
	generator Generator
	docK      int
	histK     int
	timeout   time.Duration
}

// New creates a query service with default top-k settings.
func New(docs Searcher, chats HistoryIndex, log TurnLog, embedder Embedder, generator Generator) *Service {
	return &Service{
		docs:      docs,
		chats:     chats,
		log:       log,
		embedder:  embedder,
		generator: generator,
		docK:      10,
		histK:     3,
		timeout:   60 * time.Second,
	}
}

// WithSearchK configures the document and history top-k.
func (s *Service) WithSearchK(docK, histK int) *Service {
	if docK > 0 {
		s.docK = docK
	}
	if histK > 0 {
		s.histK = histK
	}
	return s
}

// WithTimeout configures the per-provider-call timeout.
func (s *Service) WithTimeout(timeout time.Duration) *Service {
	if timeout > 0 {
		s.timeout = timeout
	}
	return s
}

// Answer runs the retrieval-augmented flow for one question. The new turn
// is persisted to both the chat log and the chat-history index before the
// answer is returned. A failure between those two writes leaves the log
// updated and the index unchanged; the next successful turn resyncs the
// snapshot.
func (s *Service) Answer(ctx context.Context, question, chatID string) (string, error) {
	ectx, cancel := context.WithTimeout(ctx, s.timeout)
	queryVec, err := s.embedder.Embed(ectx, question)
	cancel()
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}

	docHits := s.docs.Search(queryVec.Embedding, s.docK)
	contextBlock := formatContext(docHits)

	historyBlock := ""
	if s.chats.Len() > 0 {
		historyBlock = formatHistory(s.chats.Search(queryVec.Embedding, s.histK))
	}

	logger.FromContext(ctx).Debug("retrieved context",
		zap.String("chat_id", chatID),
		zap.Int("document_hits", len(docHits)),
		zap.Bool("history_used", historyBlock != ""),
	)

	prompt := buildPrompt(contextBlock, historyBlock, question)

	gctx, cancel := context.WithTimeout(ctx, s.timeout)
	answer, err := s.generator.Generate(gctx, prompt)
	cancel()
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	if err := s.recordTurn(ctx, chatID, question, answer); err != nil {
		return "", err
	}
	return answer, nil
}

// recordTurn appends the exchange to the chat log and indexes it for
// semantic retrieval across conversations.
func (s *Service) recordTurn(ctx context.Context, chatID, question, answer string) error {
	turn, err := s.log.Append(chatID, question, answer)
	if err != nil {
		return fmt.Errorf("append turn: %w", err)
	}

	content := fmt.Sprintf("user: %s\nai: %s", question, answer)

	ectx, cancel := context.WithTimeout(ctx, s.timeout)
	turnVec, err := s.embedder.Embed(ectx, content)
	cancel()
	if err != nil {
		return fmt.Errorf("embed turn: %w", err)
	}

	err = s.chats.Add(index.Record{
		Content: content,
		Tags: map[string]string{
			domain.TagChatID:    chatID,
			domain.TagUser:      question,
			domain.TagAI:        answer,
			domain.TagTimestamp: turn.Timestamp,
		},
		Vector: turnVec.Embedding,
	})
	if err != nil {
		return fmt.Errorf("index turn: %w", err)
	}
	return nil
}
