// Package snapshot persists vector index snapshots as one gob file per
// collection. Every save replaces the whole snapshot; writes go through a
// temp file and an atomic rename so a crash never leaves a truncated file.
package snapshot

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/index"
)

// snapshotFile is the on-disk form of an index.
type snapshotFile struct {
	Records []index.Record
}

// Store persists index snapshots under a directory.
type Store struct {
	dir string
}

// NewStore creates the snapshot directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Save serializes the full index to the collection's snapshot path,
// replacing any prior snapshot.
func (s *Store) Save(name string, ix *index.Index) error {
	tmp, err := os.CreateTemp(s.dir, name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(snapshotFile{Records: ix.Records()}); err != nil {
		tmp.Close()
		return fmt.Errorf("encode snapshot %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return fmt.Errorf("replace snapshot %q: %w", name, err)
	}
	return nil
}

// Load deserializes the snapshot for name. Returns domain.ErrNotFound when
// no snapshot exists yet.
func (s *Store) Load(name string) (*index.Index, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("snapshot %q: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("open snapshot %q: %w", name, err)
	}
	defer f.Close()

	var snap snapshotFile
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %q: %w", name, err)
	}

	ix := index.New()
	ix.Add(snap.Records...)
	return ix, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".gob")
}
