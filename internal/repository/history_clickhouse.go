package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"SolPulse/internal/domain/models"
	"SolPulse/internal/domain/repository"
)

// ClickHouseHistoryStore persists prediction records in ClickHouse.
// The table is a ReplacingMergeTree keyed by id: a result check inserts
// the resolved row again and the engine collapses the duplicate, so no
// UPDATE statement is needed.
type ClickHouseHistoryStore struct {
	db    *sql.DB
	table string
}

func NewClickHouseHistoryStore(db *sql.DB, table string) repository.HistoryStore {
	return &ClickHouseHistoryStore{db: db, table: table}
}

// Schema returns the idempotent DDL for the history table.
func (s *ClickHouseHistoryStore) Schema() []string {
	return []string{fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id UInt64,
	ts DateTime,
	direction LowCardinality(String),
	confidence Float64,
	strength LowCardinality(String),
	weighted_score Float64,
	price_at_prediction Nullable(Float64),
	timeframe LowCardinality(String),
	signal_scores String,
	price_after Nullable(Float64),
	actual_change_pct Nullable(Float64),
	was_correct Nullable(UInt8),
	checked_at Nullable(DateTime),
	version UInt64
) ENGINE = ReplacingMergeTree(version)
ORDER BY id`, s.table)}
}

func (s *ClickHouseHistoryStore) Init(ctx context.Context) error {
	for _, stmt := range s.Schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init history schema: %w", err)
		}
	}
	return nil
}

func (s *ClickHouseHistoryStore) Append(ctx context.Context, rec *models.PredictionRecord) (int64, error) {
	var maxID sql.NullInt64
	q := fmt.Sprintf("SELECT max(id) FROM %s", s.table)
	if err := s.db.QueryRowContext(ctx, q).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("next history id: %w", err)
	}
	rec.ID = maxID.Int64 + 1

	if err := s.insert(ctx, rec); err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (s *ClickHouseHistoryStore) insert(ctx context.Context, rec *models.PredictionRecord) error {
	scores, err := json.Marshal(rec.SignalScores)
	if err != nil {
		return fmt.Errorf("marshal signal scores: %w", err)
	}

	var wasCorrect *uint8
	if rec.WasCorrect != nil {
		v := uint8(0)
		if *rec.WasCorrect {
			v = 1
		}
		wasCorrect = &v
	}

	q := fmt.Sprintf(`INSERT INTO %s
(id, ts, direction, confidence, strength, weighted_score, price_at_prediction,
 timeframe, signal_scores, price_after, actual_change_pct, was_correct, checked_at, version)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table)

	_, err = s.db.ExecContext(ctx, q,
		uint64(rec.ID),
		rec.Timestamp,
		string(rec.Direction),
		rec.Confidence,
		rec.Strength,
		rec.WeightedScore,
		rec.PriceAtPrediction,
		rec.Timeframe,
		string(scores),
		rec.PriceAfter,
		rec.ActualChangePct,
		wasCorrect,
		rec.CheckedAt,
		uint64(time.Now().UnixNano()),
	)
	if err != nil {
		return fmt.Errorf("insert history record: %w", err)
	}
	return nil
}

func (s *ClickHouseHistoryStore) Recent(ctx context.Context, limit int) ([]*models.PredictionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	q := fmt.Sprintf(`SELECT id, ts, direction, confidence, strength, weighted_score,
 price_at_prediction, timeframe, signal_scores, price_after, actual_change_pct, was_correct, checked_at
FROM %s FINAL ORDER BY ts DESC LIMIT ?`, s.table)
	return s.query(ctx, q, limit)
}

func (s *ClickHouseHistoryStore) Unchecked(ctx context.Context) ([]*models.PredictionRecord, error) {
	q := fmt.Sprintf(`SELECT id, ts, direction, confidence, strength, weighted_score,
 price_at_prediction, timeframe, signal_scores, price_after, actual_change_pct, was_correct, checked_at
FROM %s FINAL WHERE was_correct IS NULL ORDER BY ts ASC`, s.table)
	return s.query(ctx, q)
}

func (s *ClickHouseHistoryStore) query(ctx context.Context, q string, args ...interface{}) ([]*models.PredictionRecord, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var recs []*models.PredictionRecord
	for rows.Next() {
		var (
			r          models.PredictionRecord
			id         uint64
			direction  string
			scores     string
			wasCorrect *uint8
		)
		if err := rows.Scan(&id, &r.Timestamp, &direction, &r.Confidence, &r.Strength,
			&r.WeightedScore, &r.PriceAtPrediction, &r.Timeframe, &scores,
			&r.PriceAfter, &r.ActualChangePct, &wasCorrect, &r.CheckedAt); err != nil {
			return nil, fmt.Errorf("scan history record: %w", err)
		}
		r.ID = int64(id)
		r.Direction = models.Direction(direction)
		if scores != "" {
			_ = json.Unmarshal([]byte(scores), &r.SignalScores)
		}
		if wasCorrect != nil {
			v := *wasCorrect == 1
			r.WasCorrect = &v
		}
		recs = append(recs, &r)
	}
	return recs, rows.Err()
}

func (s *ClickHouseHistoryStore) MarkChecked(ctx context.Context, rec *models.PredictionRecord) error {
	return s.insert(ctx, rec)
}

func (s *ClickHouseHistoryStore) Summary(ctx context.Context) (*models.AccuracySummary, error) {
	recs, err := s.Recent(ctx, 10000)
	if err != nil {
		return nil, err
	}
	return summarize(recs, time.Now().UTC()), nil
}

func (s *ClickHouseHistoryStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseHistoryStore) Close() error {
	return nil // pool owned by pkg client
}
