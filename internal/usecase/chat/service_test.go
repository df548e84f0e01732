package chat

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/index"
)

type mockLog struct {
	turns     map[string][]domain.Turn
	ids       []string
	listErr   error
	deleteErr error
	deleted   []string
}

func (m *mockLog) Read(chatID string) ([]domain.Turn, error) {
	return m.turns[chatID], nil
}

func (m *mockLog) ListIDs() ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.ids, nil
}

func (m *mockLog) Delete(chatID string) (bool, error) {
	if m.deleteErr != nil {
		return false, m.deleteErr
	}
	m.deleted = append(m.deleted, chatID)
	_, ok := m.turns[chatID]
	delete(m.turns, chatID)
	return ok, nil
}

type mockHistoryIndex struct {
	records    []index.Record
	rebuildErr error
	rebuilds   int
}

func (m *mockHistoryIndex) RebuildExcluding(drop func(index.Record) bool) (int, error) {
	m.rebuilds++
	if m.rebuildErr != nil {
		return 0, m.rebuildErr
	}
	removed := 0
	kept := make([]index.Record, 0, len(m.records))
	for _, r := range m.records {
		if drop(r) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return removed, nil
}

func turnRecord(chatID string) index.Record {
	return index.Record{
		Content: "user: q\nai: a",
		Tags:    map[string]string{domain.TagChatID: chatID},
		Vector:  []float32{1},
	}
}

func TestHistoryReturnsTurns(t *testing.T) {
	log := &mockLog{turns: map[string][]domain.Turn{
		"c1": {{User: "hi", AI: "hello", Timestamp: "2026-01-01T00:00:00Z"}},
	}}
	svc := New(log, &mockHistoryIndex{})

	turns, err := svc.History("c1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(turns) != 1 || turns[0].User != "hi" {
		t.Fatalf("History() = %v, want one turn with user %q", turns, "hi")
	}
}

func TestHistoryUnknownChatEmpty(t *testing.T) {
	svc := New(&mockLog{turns: map[string][]domain.Turn{}}, &mockHistoryIndex{})

	turns, err := svc.History("missing")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("History() = %v, want empty", turns)
	}
}

func TestListIDs(t *testing.T) {
	svc := New(&mockLog{ids: []string{"a", "b"}}, &mockHistoryIndex{})

	ids, err := svc.ListIDs()
	if err != nil {
		t.Fatalf("ListIDs() error = %v", err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("ListIDs() = %v, want [a b]", ids)
	}
}

func TestListIDsError(t *testing.T) {
	wantErr := errors.New("read dir failed")
	svc := New(&mockLog{listErr: wantErr}, &mockHistoryIndex{})

	if _, err := svc.ListIDs(); !errors.Is(err, wantErr) {
		t.Fatalf("ListIDs() error = %v, want wrapping %v", err, wantErr)
	}
}

func TestClearDeletesLogAndIndexEntries(t *testing.T) {
	log := &mockLog{turns: map[string][]domain.Turn{"c1": {{User: "q", AI: "a"}}}}
	ix := &mockHistoryIndex{records: []index.Record{
		turnRecord("c1"),
		turnRecord("c1"),
		turnRecord("c2"),
	}}
	svc := New(log, ix)

	existed, err := svc.Clear("c1")
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if !existed {
		t.Error("Clear() existed = false, want true")
	}
	if len(log.deleted) != 1 || log.deleted[0] != "c1" {
		t.Errorf("deleted logs = %v, want [c1]", log.deleted)
	}
	if len(ix.records) != 1 || ix.records[0].Tags[domain.TagChatID] != "c2" {
		t.Errorf("remaining records = %v, want only c2", ix.records)
	}
}

func TestClearUnknownChatStillRebuilds(t *testing.T) {
	ix := &mockHistoryIndex{records: []index.Record{turnRecord("orphan")}}
	svc := New(&mockLog{turns: map[string][]domain.Turn{}}, ix)

	existed, err := svc.Clear("orphan")
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if existed {
		t.Error("Clear() existed = true, want false")
	}
	if ix.rebuilds != 1 {
		t.Errorf("rebuilds = %d, want 1", ix.rebuilds)
	}
	if len(ix.records) != 0 {
		t.Errorf("remaining records = %v, want empty", ix.records)
	}
}

func TestClearLogDeleteError(t *testing.T) {
	wantErr := errors.New("permission denied")
	ix := &mockHistoryIndex{}
	svc := New(&mockLog{deleteErr: wantErr}, ix)

	if _, err := svc.Clear("c1"); !errors.Is(err, wantErr) {
		t.Fatalf("Clear() error = %v, want wrapping %v", err, wantErr)
	}
	if ix.rebuilds != 0 {
		t.Errorf("rebuilds = %d, want 0 after log delete failure", ix.rebuilds)
	}
}

func TestClearRebuildError(t *testing.T) {
	wantErr := errors.New("snapshot write failed")
	log := &mockLog{turns: map[string][]domain.Turn{"c1": {}}}
	svc := New(log, &mockHistoryIndex{rebuildErr: wantErr})

	if _, err := svc.Clear("c1"); !errors.Is(err, wantErr) {
		t.Fatalf("Clear() error = %v, want wrapping %v", err, wantErr)
	}
}
