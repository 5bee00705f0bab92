package dashboard

import (
	"context"
	"sync"
	"time"

	models "SolPulse/internal/domain/models"
	xlogger "SolPulse/pkg/logger"
)

// pollInterval is the fixed cadence of the status poll loop.
const pollInterval = 2000 * time.Millisecond

// fallbackRunError is shown when a failed run carries no message.
const fallbackRunError = "analysis failed, see server logs"

// State is the coordinator lifecycle state.
type State int

const (
	StateIdle State = iota
	StateTriggering
	StateRunning
	StateDone
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTriggering:
		return "triggering"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// API is the subset of the dashboard REST surface the coordinator uses.
type API interface {
	Trigger(ctx context.Context) (*models.TriggerResult, error)
	Status(ctx context.Context) (*models.RunState, error)
	QuickData(ctx context.Context) (*models.QuickData, error)
	Latest(ctx context.Context) (*models.Prediction, error)
	History(ctx context.Context, limit int) ([]*models.PredictionRecord, error)
	Accuracy(ctx context.Context) (*models.AccuracySummary, error)
}

// View receives display updates. Implementations must tolerate nil
// payloads by rendering placeholders.
type View interface {
	SetTriggerEnabled(enabled bool)
	SetOverlay(visible bool)
	SetStatusBadge(st *models.RunState)
	ShowRunError(msg string)
	RenderQuickData(qd *models.QuickData)
	RenderLatest(p *models.Prediction)
	RenderHistory(recs []*models.PredictionRecord)
	RenderAccuracy(sum *models.AccuracySummary)
}

// Ticker abstracts time.Ticker for deterministic tests.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock issues tickers and the current time.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// RealClock is the wall-clock implementation of Clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
func (RealClock) NewTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Coordinator drives the trigger/poll lifecycle of a background
// analysis run and refreshes the dependent views when it settles.
// At most one poll loop is active at any time; starting a new one
// cancels the old one first.
type Coordinator struct {
	api          API
	view         View
	clock        Clock
	log          *xlogger.Logger
	historyLimit int

	mu      sync.Mutex
	state   State
	stop    chan struct{} // non-nil while a poll loop is active
	runDone chan struct{} // closed when the tracked run settles
}

// CoordinatorOption configures Coordinator.
type CoordinatorOption func(*Coordinator)

// WithHistoryLimit sets how many history rows a refresh requests.
func WithHistoryLimit(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.historyLimit = n
		}
	}
}

// NewCoordinator creates a run coordinator in the Idle state.
func NewCoordinator(api API, view View, clock Clock, log *xlogger.Logger, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		api:          api,
		view:         view,
		clock:        clock,
		log:          log,
		historyLimit: 20,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Load performs the initial page render: the four views are fetched
// concurrently with isolated failure handling, then the run status is
// checked once. A run already in flight resumes polling.
func (c *Coordinator) Load(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(4)
	go func() { defer wg.Done(); c.refreshQuickData(ctx) }()
	go func() { defer wg.Done(); c.refreshLatest(ctx) }()
	go func() { defer wg.Done(); c.refreshHistory(ctx) }()
	go func() { defer wg.Done(); c.refreshAccuracy(ctx) }()
	wg.Wait()

	st, err := c.api.Status(ctx)
	if err != nil {
		c.log.Warn("status check failed", xlogger.Error(err))
		return
	}
	c.view.SetStatusBadge(st)
	if st.Status == models.RunRunning {
		c.enterRunning(ctx)
	}
}

// Trigger requests a new analysis run. A trigger while one is already
// tracked is ignored; a transport failure re-enables the control and
// leaves the state untouched.
func (c *Coordinator) Trigger(ctx context.Context) {
	c.mu.Lock()
	if c.state == StateTriggering || c.state == StateRunning {
		c.mu.Unlock()
		return
	}
	prev := c.state
	c.state = StateTriggering
	c.mu.Unlock()

	c.view.SetTriggerEnabled(false)

	res, err := c.api.Trigger(ctx)
	if err != nil {
		c.log.Error("trigger failed", xlogger.Error(err))
		c.mu.Lock()
		c.state = prev
		c.mu.Unlock()
		c.view.SetTriggerEnabled(true)
		return
	}

	// accepted and already_running both mean a run is active; either
	// way exactly one poll loop and an active overlay are required.
	switch res.Result {
	case models.TriggerAccepted, models.TriggerAlreadyRunning:
		c.enterRunning(ctx)
	default:
		c.log.Warn("unexpected trigger result", xlogger.String("result", res.Result))
		c.mu.Lock()
		c.state = prev
		c.mu.Unlock()
		c.view.SetTriggerEnabled(true)
	}
}

// Wait blocks until the currently tracked run settles. It returns
// immediately when no run is being tracked.
func (c *Coordinator) Wait(ctx context.Context) error {
	c.mu.Lock()
	ch := c.runDone
	c.mu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop cancels any active poll loop.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopPollingLocked()
}

func (c *Coordinator) enterRunning(ctx context.Context) {
	c.mu.Lock()
	c.state = StateRunning
	if c.runDone == nil {
		c.runDone = make(chan struct{})
	}
	c.startPollingLocked(ctx)
	c.mu.Unlock()

	c.view.SetTriggerEnabled(false)
	c.view.SetOverlay(true)
}

// startPollingLocked installs the single poll timer, cancelling any
// prior loop first. Caller holds c.mu.
func (c *Coordinator) startPollingLocked(ctx context.Context) {
	c.stopPollingLocked()
	stop := make(chan struct{})
	c.stop = stop
	tk := c.clock.NewTicker(pollInterval)
	go c.pollLoop(ctx, tk, stop)
}

func (c *Coordinator) stopPollingLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

func (c *Coordinator) pollLoop(ctx context.Context, tk Ticker, stop chan struct{}) {
	defer tk.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-tk.C():
			c.pollOnce(ctx, stop)
		}
	}
}

// pollOnce runs a single status tick. Failures are logged and the loop
// stays untouched; the next tick retries.
func (c *Coordinator) pollOnce(ctx context.Context, stop chan struct{}) {
	st, err := c.api.Status(ctx)
	if err != nil {
		c.log.Warn("poll failed", xlogger.Error(err))
		return
	}
	c.view.SetStatusBadge(st)

	switch st.Status {
	case models.RunDone:
		if done, ok := c.settle(stop, StateDone); ok {
			c.refreshLatest(ctx)
			c.refreshHistory(ctx)
			c.refreshAccuracy(ctx)
			signal(done)
		}
	case models.RunError:
		if done, ok := c.settle(stop, StateError); ok {
			msg := st.Error
			if msg == "" {
				msg = fallbackRunError
			}
			c.view.ShowRunError(msg)
			signal(done)
		}
	default:
		// Any non-terminal status keeps the loop alive; the badge
		// update above is the only visible effect.
	}
}

// settle transitions out of Running on a terminal status. It returns
// ok=false when this loop has already been superseded, so a stale tick
// cannot double-refresh the views. The caller signals the returned
// channel once its terminal side effects have run.
func (c *Coordinator) settle(stop chan struct{}, next State) (chan struct{}, bool) {
	c.mu.Lock()
	if c.stop != stop {
		c.mu.Unlock()
		return nil, false
	}
	c.stopPollingLocked()
	c.state = next
	done := c.runDone
	c.runDone = nil
	c.mu.Unlock()

	c.view.SetOverlay(false)
	c.view.SetTriggerEnabled(true)
	return done, true
}

func signal(ch chan struct{}) {
	if ch != nil {
		close(ch)
	}
}

// --- view refreshes, each with isolated failure handling ---

func (c *Coordinator) refreshQuickData(ctx context.Context) {
	qd, err := c.api.QuickData(ctx)
	if err != nil {
		c.log.Warn("quick-data fetch failed", xlogger.Error(err))
		return
	}
	c.view.RenderQuickData(qd)
}

func (c *Coordinator) refreshLatest(ctx context.Context) {
	p, err := c.api.Latest(ctx)
	if err != nil {
		c.log.Warn("latest fetch failed", xlogger.Error(err))
		return
	}
	c.view.RenderLatest(p)
}

func (c *Coordinator) refreshHistory(ctx context.Context) {
	recs, err := c.api.History(ctx, c.historyLimit)
	if err != nil {
		c.log.Warn("history fetch failed", xlogger.Error(err))
		return
	}
	c.view.RenderHistory(recs)
}

func (c *Coordinator) refreshAccuracy(ctx context.Context) {
	sum, err := c.api.Accuracy(ctx)
	if err != nil {
		c.log.Warn("accuracy fetch failed", xlogger.Error(err))
		return
	}
	c.view.RenderAccuracy(sum)
}
