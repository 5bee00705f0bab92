package models

import "time"

// RunStatus is the lifecycle state of the analysis pipeline.
type RunStatus string

const (
	RunIdle    RunStatus = "idle"
	RunRunning RunStatus = "running"
	RunDone    RunStatus = "done"
	RunError   RunStatus = "error"
)

// RunState is the pipeline status reported to clients.
type RunState struct {
	Status    RunStatus  `json:"status"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// Trigger results returned from a run request.
const (
	TriggerAccepted       = "accepted"
	TriggerAlreadyRunning = "already_running"
)

// TriggerResult is the response body for a run trigger.
type TriggerResult struct {
	Result string `json:"result"` // accepted | already_running
}
