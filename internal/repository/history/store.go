// Package history stores per-conversation message logs as one JSON array
// file per chat id, independent of the chat-history vector index.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kailas-cloud/docsearch/internal/domain"
)

// Store persists conversation turns under a directory.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore creates the history directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Append reads the chat's log, appends a turn with a freshly assigned
// timestamp, and rewrites the full file. Returns the stored turn.
func (s *Store) Append(chatID, user, ai string) (domain.Turn, error) {
	if err := validateChatID(chatID); err != nil {
		return domain.Turn{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	turns, err := s.read(chatID)
	if err != nil {
		return domain.Turn{}, err
	}

	turn := domain.Turn{
		User:      user,
		AI:        ai,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	turns = append(turns, turn)

	if err := s.write(chatID, turns); err != nil {
		return domain.Turn{}, err
	}
	return turn, nil
}

// Read returns the chat's turns sorted ascending by timestamp. A missing
// log file yields an empty slice.
func (s *Store) Read(chatID string) ([]domain.Turn, error) {
	if err := validateChatID(chatID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	turns, err := s.read(chatID)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	// Insertion order can interleave under concurrent writers.
	sort.SliceStable(turns, func(i, j int) bool {
		return turns[i].Timestamp < turns[j].Timestamp
	})
	return turns, nil
}

// ListIDs enumerates all known chat ids by scanning the log directory.
func (s *Store) ListIDs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("scan history dir: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes the chat's log file. Returns whether a file was removed.
func (s *Store) Delete(chatID string) (bool, error) {
	if err := validateChatID(chatID); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(chatID))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete history for %q: %w", chatID, err)
	}
	return true, nil
}

func (s *Store) read(chatID string) ([]domain.Turn, error) {
	data, err := os.ReadFile(s.path(chatID))
	if os.IsNotExist(err) {
		return []domain.Turn{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history for %q: %w", chatID, err)
	}

	var turns []domain.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("parse history for %q: %w", chatID, err)
	}
	return turns, nil
}

func (s *Store) write(chatID string, turns []domain.Turn) error {
	data, err := json.MarshalIndent(turns, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history for %q: %w", chatID, err)
	}

	tmp, err := os.CreateTemp(s.dir, chatID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write history for %q: %w", chatID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp history file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path(chatID)); err != nil {
		return fmt.Errorf("replace history for %q: %w", chatID, err)
	}
	return nil
}

func (s *Store) path(chatID string) string {
	return filepath.Join(s.dir, chatID+".json")
}

// validateChatID rejects ids that would escape the history directory.
func validateChatID(chatID string) error {
	if chatID == "" || strings.ContainsAny(chatID, `/\`) || chatID == "." || chatID == ".." {
		return fmt.Errorf("invalid chat id %q", chatID)
	}
	return nil
}
