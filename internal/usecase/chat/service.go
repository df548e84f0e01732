// Package chat manages conversation history: reading turn logs, listing
// known chat ids and clearing a conversation.
package chat

import (
	"fmt"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/index"
)

// TurnLog is the persisted turn log contract.
type TurnLog interface {
	Read(chatID string) ([]domain.Turn, error)
	ListIDs() ([]string, error)
	Delete(chatID string) (bool, error)
}

// HistoryIndex is the rebuild contract for the chat history collection.
type HistoryIndex interface {
	RebuildExcluding(drop func(index.Record) bool) (int, error)
}

// Service manages chat histories across the turn log and the history index.
type Service struct {
	log   TurnLog
	chats HistoryIndex
}

// New creates a chat service.
func New(log TurnLog, chats HistoryIndex) *Service {
	return &Service{log: log, chats: chats}
}

// History returns the chat's turns ordered oldest first. An unknown chat id
// yields an empty history.
func (s *Service) History(chatID string) ([]domain.Turn, error) {
	turns, err := s.log.Read(chatID)
	if err != nil {
		return nil, fmt.Errorf("read history %q: %w", chatID, err)
	}
	return turns, nil
}

// ListIDs returns every chat id with a persisted log, sorted ascending.
func (s *Service) ListIDs() ([]string, error) {
	ids, err := s.log.ListIDs()
	if err != nil {
		return nil, fmt.Errorf("list chat ids: %w", err)
	}
	return ids, nil
}

// Clear deletes the chat's turn log and drops its turns from the history
// index. It reports whether a log existed. The index rebuild runs even when
// no log was found so a partially cleared chat can be retried.
func (s *Service) Clear(chatID string) (bool, error) {
	existed, err := s.log.Delete(chatID)
	if err != nil {
		return false, fmt.Errorf("delete history log %q: %w", chatID, err)
	}

	if _, err := s.chats.RebuildExcluding(func(r index.Record) bool {
		return r.Tags[domain.TagChatID] == chatID
	}); err != nil {
		return existed, fmt.Errorf("rebuild history index: %w", err)
	}
	return existed, nil
}
