package filestore

import (
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"blogd/internal/domain/apperr"
	"blogd/pkg/logger"
)

const fileExtension = ".json"

// Store owns the collection files under one directory and the write lock of
// each collection.
type Store struct {
	fs  afero.Fs
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(fs afero.Fs, cfg Config) (*Store, error) {
	if err := fs.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, apperr.Storage(err, "create data directory %s", cfg.Dir)
	}

	logger.Info("file store ready", "dir", cfg.Dir)

	return &Store{
		fs:    fs,
		dir:   cfg.Dir,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

func (s *Store) path(collection string) string {
	return filepath.Join(s.dir, collection+fileExtension)
}

func (s *Store) lockFor(collection string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[collection]
	if !ok {
		l = &sync.Mutex{}
		s.locks[collection] = l
	}

	return l
}
