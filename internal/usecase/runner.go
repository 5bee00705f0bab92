package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SolPulse/internal/domain/models"
	domrepo "SolPulse/internal/domain/repository"
	"SolPulse/pkg/logger"
)

// runPipeline is what a run executes; satisfied by *Pipeline.
type runPipeline interface {
	Run(ctx context.Context) (*RunResult, error)
}

// RunManager owns the analysis run lifecycle. At most one run is in
// flight at any moment; a trigger while running reports already_running
// instead of queueing a second run.
type RunManager struct {
	pipeline runPipeline
	checker  *ResultChecker
	history  domrepo.HistoryStore
	pub      domrepo.Publisher
	notifier domrepo.Notifier
	metrics  domrepo.Metrics
	log      *logger.Logger

	mu      sync.Mutex
	running bool
	state   models.RunState
	latest  *models.Prediction
}

func NewRunManager(
	pipeline runPipeline,
	checker *ResultChecker,
	history domrepo.HistoryStore,
	pub domrepo.Publisher,
	notifier domrepo.Notifier,
	metrics domrepo.Metrics,
	log *logger.Logger,
) *RunManager {
	return &RunManager{
		pipeline: pipeline,
		checker:  checker,
		history:  history,
		pub:      pub,
		notifier: notifier,
		metrics:  metrics,
		log:      log,
		state:    models.RunState{Status: models.RunIdle},
	}
}

// Trigger starts a run in the background. When a run is already in
// flight it reports already_running and leaves that run untouched.
func (m *RunManager) Trigger(ctx context.Context) *models.TriggerResult {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return &models.TriggerResult{Result: models.TriggerAlreadyRunning}
	}
	m.running = true
	now := time.Now().UTC()
	m.state = models.RunState{Status: models.RunRunning, StartedAt: &now, LastRun: m.state.LastRun}
	m.mu.Unlock()

	// The run outlives the trigger request.
	go m.run(context.WithoutCancel(ctx))

	return &models.TriggerResult{Result: models.TriggerAccepted}
}

// Status reports the current run state.
func (m *RunManager) Status() models.RunState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Latest returns the most recent prediction, falling back to the
// newest history record when the process restarted since the last run.
func (m *RunManager) Latest(ctx context.Context) (*models.Prediction, error) {
	m.mu.Lock()
	latest := m.latest
	m.mu.Unlock()
	if latest != nil {
		return latest, nil
	}

	recs, err := m.history.Recent(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("load latest: %w", err)
	}
	if len(recs) == 0 {
		return nil, nil
	}

	r := recs[0]
	return &models.Prediction{
		Timestamp:       r.Timestamp,
		Direction:       r.Direction,
		Confidence:      r.Confidence,
		Strength:        r.Strength,
		WeightedScore:   r.WeightedScore,
		CurrentPriceUSD: r.PriceAtPrediction,
		Timeframe:       r.Timeframe,
		SignalScores:    r.SignalScores,
	}, nil
}

// RunBlocking executes one run synchronously. Used by the scheduler.
func (m *RunManager) RunBlocking(ctx context.Context) error {
	res := m.Trigger(ctx)
	if res.Result == models.TriggerAlreadyRunning {
		return fmt.Errorf("run already in progress")
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
		st := m.Status()
		if st.Status == models.RunDone {
			return nil
		}
		if st.Status == models.RunError {
			return fmt.Errorf("run failed: %s", st.Error)
		}
	}
}

func (m *RunManager) run(ctx context.Context) {
	start := time.Now()

	// Resolve outcomes of past predictions before making a new one.
	if m.checker != nil {
		if err := m.checker.CheckPending(ctx); err != nil {
			m.log.Warn("result check failed", logger.Error(err))
		}
	}

	res, err := m.pipeline.Run(ctx)
	if err != nil {
		m.metrics.RecordRun("error", time.Since(start).Seconds())
		m.finish(models.RunError, nil, err)
		return
	}

	pred := res.Prediction
	if len(res.Errors) > 0 {
		m.log.Warn("run completed with degraded sources",
			logger.Int("failed_sources", len(res.Errors)),
			logger.Any("errors", res.Errors))
	}

	rec := &models.PredictionRecord{
		Timestamp:         pred.Timestamp,
		Direction:         pred.Direction,
		Confidence:        pred.Confidence,
		Strength:          pred.Strength,
		WeightedScore:     pred.WeightedScore,
		PriceAtPrediction: pred.CurrentPriceUSD,
		Timeframe:         pred.Timeframe,
		SignalScores:      pred.SignalScores,
	}
	if id, err := m.history.Append(ctx, rec); err != nil {
		m.log.Error("history append failed", logger.Error(err))
		m.metrics.RecordError("history_append")
	} else {
		rec.ID = id
	}

	if m.pub != nil {
		if err := m.pub.Publish(ctx, pred); err != nil {
			m.log.Error("prediction publish failed", logger.Error(err))
			m.metrics.RecordError("publish")
		}
	}
	if m.notifier != nil {
		if err := m.notifier.Notify(ctx, pred); err != nil {
			m.log.Error("notification failed", logger.Error(err))
			m.metrics.RecordError("notify")
		}
	}

	m.metrics.RecordRun("success", time.Since(start).Seconds())
	m.metrics.RecordPrediction(string(pred.Direction), pred.Confidence)
	m.log.Info("run completed",
		logger.String("direction", string(pred.Direction)),
		logger.Any("confidence", pred.Confidence),
		logger.Duration("took", time.Since(start)))

	m.finish(models.RunDone, pred, nil)
}

func (m *RunManager) finish(status models.RunStatus, pred *models.Prediction, err error) {
	now := time.Now().UTC()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
	m.state = models.RunState{Status: status, LastRun: &now}
	if err != nil {
		m.state.Error = err.Error()
	}
	if pred != nil {
		m.latest = pred
	}
}
