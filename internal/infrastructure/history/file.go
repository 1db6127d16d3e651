package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"NewsScreener/internal/domain"
	"NewsScreener/internal/ports"
)

// FileStore keeps report summaries in a JSON file, used when no
// database is configured.
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ ports.HistoryRepository = (*FileStore)(nil)

type fileEntry struct {
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

type fileState map[string][]fileEntry

// NewFileStore stores history at the given path, creating parent
// directories on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Append adds a summary for the kind and rewrites the file.
func (s *FileStore) Append(_ context.Context, entry domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	kind := string(entry.Kind)
	state[kind] = append(state[kind], fileEntry{Summary: entry.Summary, CreatedAt: entry.CreatedAt})
	return s.save(state)
}

// Recent returns up to n newest entries for the kind, oldest first.
func (s *FileStore) Recent(_ context.Context, kind domain.ReportKind, n int) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}

	stored := state[string(kind)]
	if n > 0 && len(stored) > n {
		stored = stored[len(stored)-n:]
	}

	entries := make([]domain.HistoryEntry, 0, len(stored))
	for _, e := range stored {
		entries = append(entries, domain.HistoryEntry{Kind: kind, Summary: e.Summary, CreatedAt: e.CreatedAt})
	}
	return entries, nil
}

// Prune drops all but the newest keep entries for the kind.
func (s *FileStore) Prune(_ context.Context, kind domain.ReportKind, keep int) error {
	if keep <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}

	stored := state[string(kind)]
	if len(stored) <= keep {
		return nil
	}
	state[string(kind)] = stored[len(stored)-keep:]
	return s.save(state)
}

func (s *FileStore) load() (fileState, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return fileState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history %s: %w", s.path, err)
	}

	var state fileState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("parse history %s: %w", s.path, err)
	}
	if state == nil {
		state = fileState{}
	}
	return state, nil
}

func (s *FileStore) save(state fileState) error {
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history dir: %w", err)
		}
	}
	return os.WriteFile(s.path, raw, 0o644)
}
