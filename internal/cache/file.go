package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FileStore keeps one JSON file per address under a directory. Writes go
// through a temp file and rename so a crashed writer never leaves a
// half-written entry behind.
type FileStore struct {
	dir    string
	ttl    time.Duration
	logger *zap.Logger
}

func NewFileStore(dir string, ttl time.Duration, logger *zap.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{dir: dir, ttl: ttl, logger: logger}, nil
}

func (s *FileStore) path(address string) string {
	return filepath.Join(s.dir, Key(address)+".json")
}

func (s *FileStore) Get(ctx context.Context, address string) (*Entry, bool, error) {
	data, err := os.ReadFile(s.path(address))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		// A corrupt entry is treated as a miss; it gets overwritten on the
		// next successful computation.
		s.logger.Warn("corrupt cache entry", zap.String("address", Key(address)), zap.Error(err))
		return nil, false, nil
	}
	if entry.Expired(time.Now(), s.ttl) {
		return nil, false, nil
	}
	return &entry, true, nil
}

func (s *FileStore) Put(ctx context.Context, entry *Entry) error {
	entry.Address = Key(entry.Address)
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, "entry-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(entry.Address)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace cache entry: %w", err)
	}
	return nil
}

func (s *FileStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list cache dir: %w", err)
	}
	removed := 0
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir, de.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil || entry.Expired(now, s.ttl) {
			if err := os.Remove(path); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}
