package stats

import (
	"fmt"
	"sync"
	"time"

	c "github.com/relloyd/starpipe/constants"
	"github.com/relloyd/starpipe/logger"
)

// StepWatcher records the progress of one pipeline statement.
// The executor calls StartWatching() before running the statement and StopWatching() afterwards.
type StepWatcher struct {
	log          logger.Logger
	stage        string
	stepName     string
	mu           sync.Mutex
	startTime    time.Time
	endTime      time.Time
	rowsAffected int64
	err          error
	isRunning    bool
	isDone       bool
}

type Stats struct {
	Stage          string  `json:"stage"`
	StepName       string  `json:"stepName"`
	StatusText     string  `json:"statusText"`
	StatusEmoji    string  `json:"statusEmoji"`
	ElapsedTimeSec float64 `json:"elapsedTimeSec"`
	RowsAffected   int64   `json:"rowsAffected"` // -1 if the driver could not say
	Error          string  `json:"error,omitempty"`
}

func (s Stats) String() string {
	retval := fmt.Sprintf("%v %v stage=%v step=%v elapsed=%.3fs rows=%v", s.StatusEmoji, s.StatusText, s.Stage, s.StepName, s.ElapsedTimeSec, s.RowsAffected)
	if s.Error != "" {
		retval = fmt.Sprintf("%v error=%q", retval, s.Error)
	}
	return retval
}

func NewStepWatcher(log logger.Logger, stage string, stepName string) *StepWatcher {
	return &StepWatcher{log: log, stage: stage, stepName: stepName}
}

func (n *StepWatcher) StartWatching() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.startTime = time.Now()
	n.isRunning = true
	n.isDone = false
	n.err = nil
	n.rowsAffected = 0
}

// StopWatching saves the outcome of the statement.
func (n *StepWatcher) StopWatching(rowsAffected int64, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.endTime = time.Now()
	n.rowsAffected = rowsAffected
	n.err = err
	n.isRunning = false
	n.isDone = true
}

// RenderStats returns a snapshot of the step.
func (n *StepWatcher) RenderStats() Stats {
	n.mu.Lock()
	defer n.mu.Unlock()
	s := Stats{Stage: n.stage, StepName: n.stepName, RowsAffected: n.rowsAffected}
	switch {
	case n.isRunning:
		s.StatusText = "running"
		s.StatusEmoji = "\U0001F3C3" // runner
		s.ElapsedTimeSec = time.Since(n.startTime).Seconds()
	case n.isDone && n.err != nil:
		s.StatusText = "failed"
		s.StatusEmoji = c.EmojiBang
		s.ElapsedTimeSec = n.endTime.Sub(n.startTime).Seconds()
		s.Error = n.err.Error()
	case n.isDone:
		s.StatusText = "complete"
		s.StatusEmoji = "✅" // check mark
		s.ElapsedTimeSec = n.endTime.Sub(n.startTime).Seconds()
	default:
		s.StatusText = "waiting"
		s.StatusEmoji = "⏳" // hourglass
	}
	return s
}

func (n *StepWatcher) IsRunning() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.isRunning
}
