package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"SolPulse/internal/domain/models"
)

func newTestStore(t *testing.T) *FileHistoryStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.json")
	s := NewFileHistoryStore(path, 0).(*FileHistoryStore)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return s
}

func record(ts time.Time, dir models.Direction) *models.PredictionRecord {
	return &models.PredictionRecord{
		Timestamp:     ts,
		Direction:     dir,
		Confidence:    60,
		WeightedScore: 0.2,
		Timeframe:     "24h",
	}
}

func TestAppendAssignsSequentialIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		id, err := s.Append(ctx, record(time.Now().UTC(), models.DirectionLong))
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		if id != int64(i) {
			t.Fatalf("expected id %d, got %d", i, id)
		}
	}
}

func TestRecentNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		s.Append(ctx, record(base.Add(time.Duration(i)*time.Minute), models.DirectionLong))
	}

	recs, err := s.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	if recs[0].ID != 5 || recs[1].ID != 4 || recs[2].ID != 3 {
		t.Fatalf("wrong order: %d %d %d", recs[0].ID, recs[1].ID, recs[2].ID)
	}
}

func TestPersistSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	ctx := context.Background()

	s := NewFileHistoryStore(path, 0).(*FileHistoryStore)
	if err := s.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	s.Append(ctx, record(time.Now().UTC(), models.DirectionShort))
	s.Append(ctx, record(time.Now().UTC(), models.DirectionLong))

	s2 := NewFileHistoryStore(path, 0).(*FileHistoryStore)
	if err := s2.Init(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	recs, _ := s2.Recent(ctx, 0)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records after reload, got %d", len(recs))
	}
	id, _ := s2.Append(ctx, record(time.Now().UTC(), models.DirectionLong))
	if id != 3 {
		t.Fatalf("id sequence must continue after reload, got %d", id)
	}
}

func TestLimitTrimsOldest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	ctx := context.Background()
	s := NewFileHistoryStore(path, 3).(*FileHistoryStore)
	if err := s.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	for i := 0; i < 5; i++ {
		s.Append(ctx, record(time.Now().UTC(), models.DirectionLong))
	}
	recs, _ := s.Recent(ctx, 0)
	if len(recs) != 3 {
		t.Fatalf("expected 3 retained records, got %d", len(recs))
	}
	if recs[len(recs)-1].ID != 3 {
		t.Fatalf("oldest retained should be id 3, got %d", recs[len(recs)-1].ID)
	}
}

func TestMarkCheckedAndUnchecked(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r1 := record(time.Now().UTC(), models.DirectionLong)
	r2 := record(time.Now().UTC(), models.DirectionShort)
	s.Append(ctx, r1)
	s.Append(ctx, r2)

	pending, _ := s.Unchecked(ctx)
	if len(pending) != 2 {
		t.Fatalf("expected 2 unchecked, got %d", len(pending))
	}

	ok := true
	change := 3.5
	r1.WasCorrect = &ok
	r1.ActualChangePct = &change
	if err := s.MarkChecked(ctx, r1); err != nil {
		t.Fatalf("mark: %v", err)
	}

	pending, _ = s.Unchecked(ctx)
	if len(pending) != 1 || pending[0].ID != r2.ID {
		t.Fatalf("expected only r2 pending, got %+v", pending)
	}
}

func TestMarkCheckedUnknownID(t *testing.T) {
	s := newTestStore(t)
	rec := record(time.Now().UTC(), models.DirectionLong)
	rec.ID = 42
	if err := s.MarkChecked(context.Background(), rec); err == nil {
		t.Fatalf("expected error for unknown id")
	}
}
