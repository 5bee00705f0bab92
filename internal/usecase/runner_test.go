package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"SolPulse/internal/domain/models"
	"SolPulse/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

type noopMetrics struct{}

func (noopMetrics) RecordRun(outcome string, seconds float64)             {}
func (noopMetrics) RecordScrape(source, outcome string, seconds float64)  {}
func (noopMetrics) RecordPrediction(direction string, confidence float64) {}
func (noopMetrics) RecordError(kind string)                               {}
func (noopMetrics) RecordLastPrice(symbol string, price float64)          {}
func (noopMetrics) RecordLatency(op string, seconds float64)              {}


// blockingPipeline holds each run until release is closed.
type blockingPipeline struct {
	release chan struct{}
	runs    int
	mu      sync.Mutex
	err     error
}

func (p *blockingPipeline) Run(ctx context.Context) (*RunResult, error) {
	p.mu.Lock()
	p.runs++
	p.mu.Unlock()
	if p.release != nil {
		<-p.release
	}
	if p.err != nil {
		return nil, p.err
	}
	return &RunResult{Prediction: &models.Prediction{
		Timestamp:     time.Now().UTC(),
		Direction:     models.DirectionLong,
		Confidence:    60,
		WeightedScore: 0.3,
		Timeframe:     "24h",
		SignalScores:  map[string]float64{"technical": 0.3},
	}}, nil
}

func (p *blockingPipeline) runCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.runs
}

type memHistory struct {
	mu   sync.Mutex
	recs []*models.PredictionRecord
	next int64
}

func (h *memHistory) Init(ctx context.Context) error { return nil }

func (h *memHistory) Append(ctx context.Context, rec *models.PredictionRecord) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	rec.ID = h.next
	h.recs = append(h.recs, rec)
	return rec.ID, nil
}

func (h *memHistory) Recent(ctx context.Context, limit int) ([]*models.PredictionRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*models.PredictionRecord, 0, len(h.recs))
	for i := len(h.recs) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, h.recs[i])
	}
	return out, nil
}

func (h *memHistory) Unchecked(ctx context.Context) ([]*models.PredictionRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []*models.PredictionRecord
	for _, r := range h.recs {
		if !r.Checked() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (h *memHistory) MarkChecked(ctx context.Context, rec *models.PredictionRecord) error {
	return nil
}

func (h *memHistory) Summary(ctx context.Context) (*models.AccuracySummary, error) {
	return &models.AccuracySummary{}, nil
}

func (h *memHistory) Health(ctx context.Context) error { return nil }
func (h *memHistory) Close() error                     { return nil }

func waitStatus(t *testing.T, m *RunManager, want models.RunStatus) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.Status().Status == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("status never reached %s, last %s", want, m.Status().Status)
}

func TestTriggerSingleFlight(t *testing.T) {
	pipe := &blockingPipeline{release: make(chan struct{})}
	m := NewRunManager(pipe, nil, &memHistory{}, nil, nil, noopMetrics{}, testLogger(t))
	ctx := context.Background()

	if res := m.Trigger(ctx); res.Result != models.TriggerAccepted {
		t.Fatalf("first trigger: %s", res.Result)
	}
	if res := m.Trigger(ctx); res.Result != models.TriggerAlreadyRunning {
		t.Fatalf("second trigger: %s", res.Result)
	}
	if res := m.Trigger(ctx); res.Result != models.TriggerAlreadyRunning {
		t.Fatalf("third trigger: %s", res.Result)
	}

	close(pipe.release)
	waitStatus(t, m, models.RunDone)

	if pipe.runCount() != 1 {
		t.Fatalf("expected 1 pipeline run, got %d", pipe.runCount())
	}
}

func TestRunRecordsHistoryAndLatest(t *testing.T) {
	hist := &memHistory{}
	pipe := &blockingPipeline{}
	m := NewRunManager(pipe, nil, hist, nil, nil, noopMetrics{}, testLogger(t))
	ctx := context.Background()

	m.Trigger(ctx)
	waitStatus(t, m, models.RunDone)

	recs, _ := hist.Recent(ctx, 0)
	if len(recs) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(recs))
	}
	p, err := m.Latest(ctx)
	if err != nil || p == nil {
		t.Fatalf("latest: %v %v", p, err)
	}
	if p.Direction != models.DirectionLong {
		t.Fatalf("unexpected direction %s", p.Direction)
	}
	st := m.Status()
	if st.LastRun == nil {
		t.Fatalf("last_run must be set after a run")
	}
}

func TestRunErrorReported(t *testing.T) {
	pipe := &blockingPipeline{err: errors.New("all sources failed")}
	m := NewRunManager(pipe, nil, &memHistory{}, nil, nil, noopMetrics{}, testLogger(t))
	ctx := context.Background()

	m.Trigger(ctx)
	waitStatus(t, m, models.RunError)

	st := m.Status()
	if st.Error == "" {
		t.Fatalf("error message must be reported")
	}

	// A failed run must not wedge the manager.
	pipe.err = nil
	if res := m.Trigger(ctx); res.Result != models.TriggerAccepted {
		t.Fatalf("retrigger after error: %s", res.Result)
	}
	waitStatus(t, m, models.RunDone)
}

func TestLatestFallsBackToHistory(t *testing.T) {
	hist := &memHistory{}
	price := 180.5
	hist.Append(context.Background(), &models.PredictionRecord{
		Timestamp:         time.Now().UTC(),
		Direction:         models.DirectionShort,
		Confidence:        55,
		WeightedScore:     -0.2,
		PriceAtPrediction: &price,
		Timeframe:         "24h",
	})

	m := NewRunManager(&blockingPipeline{}, nil, hist, nil, nil, noopMetrics{}, testLogger(t))
	p, err := m.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if p == nil || p.Direction != models.DirectionShort {
		t.Fatalf("expected reconstructed prediction, got %+v", p)
	}
	if p.CurrentPriceUSD == nil || *p.CurrentPriceUSD != price {
		t.Fatalf("price not carried over")
	}
}
