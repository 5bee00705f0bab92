package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	models "SolPulse/internal/domain/models"
	xlogger "SolPulse/pkg/logger"
)

func testLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

// --- fake clock ---

type fakeTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }

func (f *fakeTicker) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeTicker) isStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

type fakeClock struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (f *fakeClock) Now() time.Time { return time.Now() }

func (f *fakeClock) NewTicker(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time)}
	f.tickers = append(f.tickers, t)
	return t
}

func (f *fakeClock) tickerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers)
}

func (f *fakeClock) ticker(i int) *fakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickers[i]
}

// tick delivers one tick to the most recent ticker, failing the test
// if no poll loop consumes it.
func (f *fakeClock) tick(t *testing.T) {
	t.Helper()
	f.mu.Lock()
	if len(f.tickers) == 0 {
		f.mu.Unlock()
		t.Fatalf("no ticker installed")
	}
	tk := f.tickers[len(f.tickers)-1]
	f.mu.Unlock()
	select {
	case tk.ch <- time.Now():
	case <-time.After(2 * time.Second):
		t.Fatalf("tick not consumed")
	}
}

// --- stub API ---

type stubAPI struct {
	mu           sync.Mutex
	triggerRes   string
	triggerErr   error
	triggerCalls int

	statusQueue  []func() (*models.RunState, error)
	statusCalls  int
	quickCalls   int
	latestCalls  int
	historyCalls int
	accCalls     int
}

func statusOK(s models.RunStatus, errMsg string) func() (*models.RunState, error) {
	return func() (*models.RunState, error) {
		return &models.RunState{Status: s, Error: errMsg}, nil
	}
}

func statusFail(err error) func() (*models.RunState, error) {
	return func() (*models.RunState, error) { return nil, err }
}

func (s *stubAPI) Trigger(ctx context.Context) (*models.TriggerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triggerCalls++
	if s.triggerErr != nil {
		return nil, s.triggerErr
	}
	return &models.TriggerResult{Result: s.triggerRes}, nil
}

func (s *stubAPI) Status(ctx context.Context) (*models.RunState, error) {
	s.mu.Lock()
	s.statusCalls++
	var next func() (*models.RunState, error)
	if len(s.statusQueue) > 0 {
		next = s.statusQueue[0]
		s.statusQueue = s.statusQueue[1:]
	}
	s.mu.Unlock()
	if next == nil {
		return &models.RunState{Status: models.RunRunning}, nil
	}
	return next()
}

func (s *stubAPI) QuickData(ctx context.Context) (*models.QuickData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quickCalls++
	return &models.QuickData{}, nil
}

func (s *stubAPI) Latest(ctx context.Context) (*models.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latestCalls++
	return &models.Prediction{}, nil
}

func (s *stubAPI) History(ctx context.Context, limit int) ([]*models.PredictionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.historyCalls++
	return nil, nil
}

func (s *stubAPI) Accuracy(ctx context.Context) (*models.AccuracySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accCalls++
	return &models.AccuracySummary{}, nil
}

func (s *stubAPI) counts() (trigger, quick, latest, history, acc int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.triggerCalls, s.quickCalls, s.latestCalls, s.historyCalls, s.accCalls
}

// --- recording view ---

type recView struct {
	mu             sync.Mutex
	overlayShown   int
	overlayHidden  int
	triggerEnabled *bool
	badges         int
	runErrors      []string
}

func (v *recView) SetTriggerEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.triggerEnabled = &enabled
}

func (v *recView) SetOverlay(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if visible {
		v.overlayShown++
	} else {
		v.overlayHidden++
	}
}

func (v *recView) SetStatusBadge(st *models.RunState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.badges++
}

func (v *recView) ShowRunError(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.runErrors = append(v.runErrors, msg)
}

func (v *recView) RenderQuickData(qd *models.QuickData)          {}
func (v *recView) RenderLatest(p *models.Prediction)             {}
func (v *recView) RenderHistory(recs []*models.PredictionRecord) {}
func (v *recView) RenderAccuracy(sum *models.AccuracySummary)    {}

func (v *recView) snapshot() (shown, hidden, badges int, enabled *bool, errs []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.overlayShown, v.overlayHidden, v.badges, v.triggerEnabled, append([]string(nil), v.runErrors...)
}

func newTestCoordinator(t *testing.T, api *stubAPI) (*Coordinator, *fakeClock, *recView) {
	t.Helper()
	clock := &fakeClock{}
	view := &recView{}
	return NewCoordinator(api, view, clock, testLogger(t)), clock, view
}

// --- tests ---

func TestTriggerAcceptedRunsToDone(t *testing.T) {
	api := &stubAPI{
		triggerRes: models.TriggerAccepted,
		statusQueue: []func() (*models.RunState, error){
			statusOK(models.RunRunning, ""),
			statusOK(models.RunDone, ""),
		},
	}
	coord, clock, view := newTestCoordinator(t, api)
	ctx := context.Background()

	coord.Trigger(ctx)
	if coord.State() != StateRunning {
		t.Fatalf("state after trigger: %s", coord.State())
	}
	if clock.tickerCount() != 1 {
		t.Fatalf("expected 1 poll timer, got %d", clock.tickerCount())
	}

	clock.tick(t) // running
	clock.tick(t) // done
	if err := coord.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}

	if coord.State() != StateDone {
		t.Fatalf("state after done: %s", coord.State())
	}
	_, quick, latest, history, acc := api.counts()
	if latest != 1 || history != 1 || acc != 1 {
		t.Fatalf("each view must refresh exactly once: latest=%d history=%d accuracy=%d", latest, history, acc)
	}
	if quick != 0 {
		t.Fatalf("quick-data must not refresh on completion, got %d", quick)
	}
	shown, hidden, badges, enabled, _ := view.snapshot()
	if shown != 1 || hidden != 1 {
		t.Fatalf("overlay shown=%d hidden=%d", shown, hidden)
	}
	if badges != 2 {
		t.Fatalf("badge must update every tick, got %d", badges)
	}
	if enabled == nil || !*enabled {
		t.Fatalf("trigger must be re-enabled after done")
	}
	waitFor(t, func() bool { return clock.ticker(0).isStopped() })
}

func TestSecondTriggerWhileRunningIgnored(t *testing.T) {
	api := &stubAPI{triggerRes: models.TriggerAccepted}
	coord, clock, _ := newTestCoordinator(t, api)
	ctx := context.Background()

	coord.Trigger(ctx)
	coord.Trigger(ctx)
	coord.Trigger(ctx)

	trigger, _, _, _, _ := api.counts()
	if trigger != 1 {
		t.Fatalf("expected 1 trigger call, got %d", trigger)
	}
	if clock.tickerCount() != 1 {
		t.Fatalf("expected 1 poll timer, got %d", clock.tickerCount())
	}
	coord.Stop()
}

func TestAlreadyRunningStartsPollingAndOverlay(t *testing.T) {
	api := &stubAPI{triggerRes: models.TriggerAlreadyRunning}
	coord, clock, view := newTestCoordinator(t, api)
	ctx := context.Background()

	coord.Trigger(ctx)

	if coord.State() != StateRunning {
		t.Fatalf("already_running must enter Running, got %s", coord.State())
	}
	if clock.tickerCount() != 1 {
		t.Fatalf("already_running must start exactly one poll loop, got %d", clock.tickerCount())
	}
	shown, _, _, enabled, _ := view.snapshot()
	if shown != 1 {
		t.Fatalf("overlay must be shown, got %d", shown)
	}
	if enabled == nil || *enabled {
		t.Fatalf("trigger must stay disabled while a run is active")
	}
	coord.Stop()
}

func TestPollFailureKeepsLoopAlive(t *testing.T) {
	api := &stubAPI{
		triggerRes: models.TriggerAccepted,
		statusQueue: []func() (*models.RunState, error){
			statusFail(errors.New("connection refused")),
			statusOK(models.RunDone, ""),
		},
	}
	coord, clock, _ := newTestCoordinator(t, api)
	ctx := context.Background()

	coord.Trigger(ctx)
	clock.tick(t) // poll fails, loop must survive
	if coord.State() != StateRunning {
		t.Fatalf("poll failure must not change state, got %s", coord.State())
	}
	clock.tick(t) // done
	if err := coord.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if coord.State() != StateDone {
		t.Fatalf("state after done: %s", coord.State())
	}
}

func TestPollErrorStatusShowsMessage(t *testing.T) {
	api := &stubAPI{
		triggerRes: models.TriggerAccepted,
		statusQueue: []func() (*models.RunState, error){
			statusOK(models.RunError, "scrape timeout"),
		},
	}
	coord, clock, view := newTestCoordinator(t, api)
	ctx := context.Background()

	coord.Trigger(ctx)
	clock.tick(t)
	if err := coord.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}

	if coord.State() != StateError {
		t.Fatalf("state after error: %s", coord.State())
	}
	_, _, _, enabled, errs := view.snapshot()
	if len(errs) != 1 || errs[0] != "scrape timeout" {
		t.Fatalf("unexpected run errors %v", errs)
	}
	if enabled == nil || !*enabled {
		t.Fatalf("trigger must be re-enabled after error")
	}
}

func TestPollErrorStatusFallbackMessage(t *testing.T) {
	api := &stubAPI{
		triggerRes: models.TriggerAccepted,
		statusQueue: []func() (*models.RunState, error){
			statusOK(models.RunError, ""),
		},
	}
	coord, clock, view := newTestCoordinator(t, api)
	ctx := context.Background()

	coord.Trigger(ctx)
	clock.tick(t)
	if err := coord.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	_, _, _, _, errs := view.snapshot()
	if len(errs) != 1 || errs[0] == "" {
		t.Fatalf("expected fallback message, got %v", errs)
	}
}

func TestTriggerFailureReenablesControl(t *testing.T) {
	api := &stubAPI{triggerErr: errors.New("dial tcp: refused")}
	coord, clock, view := newTestCoordinator(t, api)
	ctx := context.Background()

	coord.Trigger(ctx)

	if coord.State() != StateIdle {
		t.Fatalf("failed trigger must not change state, got %s", coord.State())
	}
	if clock.tickerCount() != 0 {
		t.Fatalf("failed trigger must not start polling")
	}
	_, _, _, enabled, _ := view.snapshot()
	if enabled == nil || !*enabled {
		t.Fatalf("trigger must be re-enabled after failure")
	}
}

func TestLoadFetchesAllViewsAndResumesRun(t *testing.T) {
	api := &stubAPI{
		statusQueue: []func() (*models.RunState, error){
			statusOK(models.RunRunning, ""),
		},
	}
	coord, clock, _ := newTestCoordinator(t, api)
	ctx := context.Background()

	coord.Load(ctx)

	_, quick, latest, history, acc := api.counts()
	if quick != 1 || latest != 1 || history != 1 || acc != 1 {
		t.Fatalf("load must fetch each view once: quick=%d latest=%d history=%d accuracy=%d",
			quick, latest, history, acc)
	}
	if coord.State() != StateRunning {
		t.Fatalf("load must resume an in-flight run, got %s", coord.State())
	}
	if clock.tickerCount() != 1 {
		t.Fatalf("expected 1 poll timer, got %d", clock.tickerCount())
	}
	coord.Stop()
}

func TestReentrantTriggerAfterDone(t *testing.T) {
	api := &stubAPI{
		triggerRes: models.TriggerAccepted,
		statusQueue: []func() (*models.RunState, error){
			statusOK(models.RunDone, ""),
			statusOK(models.RunDone, ""),
		},
	}
	coord, clock, _ := newTestCoordinator(t, api)
	ctx := context.Background()

	coord.Trigger(ctx)
	clock.tick(t)
	if err := coord.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}

	coord.Trigger(ctx)
	if coord.State() != StateRunning {
		t.Fatalf("trigger from Done must restart, got %s", coord.State())
	}
	trigger, _, _, _, _ := api.counts()
	if trigger != 2 {
		t.Fatalf("expected 2 trigger calls, got %d", trigger)
	}
	clock.tick(t)
	if err := coord.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}
