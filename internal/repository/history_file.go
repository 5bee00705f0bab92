package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"SolPulse/internal/domain/models"
	"SolPulse/internal/domain/repository"
)

// FileHistoryStore keeps prediction records in a single JSON file. The
// whole set lives in memory and is rewritten atomically on change.
type FileHistoryStore struct {
	path  string
	limit int

	mu   sync.RWMutex
	recs []*models.PredictionRecord
	next int64
}

// NewFileHistoryStore creates the store. limit bounds how many records
// are retained; 0 means keep everything.
func NewFileHistoryStore(path string, limit int) repository.HistoryStore {
	return &FileHistoryStore{path: path, limit: limit, next: 1}
}

func (s *FileHistoryStore) Init(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read history file: %w", err)
	}
	if len(b) == 0 {
		return nil
	}

	var recs []*models.PredictionRecord
	if err := json.Unmarshal(b, &recs); err != nil {
		return fmt.Errorf("parse history file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = recs
	for _, r := range recs {
		if r.ID >= s.next {
			s.next = r.ID + 1
		}
	}
	return nil
}

func (s *FileHistoryStore) Append(ctx context.Context, rec *models.PredictionRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = s.next
	s.next++
	s.recs = append(s.recs, rec)

	if s.limit > 0 && len(s.recs) > s.limit {
		s.recs = s.recs[len(s.recs)-s.limit:]
	}

	if err := s.persist(); err != nil {
		return 0, err
	}
	return rec.ID, nil
}

// Recent returns up to limit records, newest first.
func (s *FileHistoryStore) Recent(ctx context.Context, limit int) ([]*models.PredictionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.recs)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]*models.PredictionRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		cp := *s.recs[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *FileHistoryStore) Unchecked(ctx context.Context) ([]*models.PredictionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.PredictionRecord
	for _, r := range s.recs {
		if !r.Checked() {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *FileHistoryStore) MarkChecked(ctx context.Context, rec *models.PredictionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.recs {
		if r.ID == rec.ID {
			cp := *rec
			s.recs[i] = &cp
			return s.persist()
		}
	}
	return fmt.Errorf("record %d not found", rec.ID)
}

func (s *FileHistoryStore) Summary(ctx context.Context) (*models.AccuracySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return summarize(s.recs, time.Now().UTC()), nil
}

func (s *FileHistoryStore) Health(ctx context.Context) error {
	_, err := os.Stat(filepath.Dir(s.path))
	return err
}

func (s *FileHistoryStore) Close() error { return nil }

// persist writes the record set through a temp file rename so a crash
// mid-write cannot corrupt the history.
func (s *FileHistoryStore) persist() error {
	b, err := json.MarshalIndent(s.recs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}
