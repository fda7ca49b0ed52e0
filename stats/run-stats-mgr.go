package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cevaris/ordered_map"

	"github.com/relloyd/starpipe/logger"
)

type StatsFetcher interface {
	GetStats() []Stats
}

// StatsManager hands out a StepWatcher per statement and reports on them.
type StatsManager interface {
	StatsFetcher
	AddStepWatcher(stage string, stepName string) *StepWatcher
	StartDumping()
	StopDumping()
}

var DefaultStatsDumpFrequencySeconds = 30 // default stats dump interval may be overridden by use of options in constructor below!

// RunStatsManager implements StatsManager and keeps the StepWatchers of a run in the order they were added.
type RunStatsManager struct {
	ticker              *time.Ticker
	tickerDone          chan struct{}
	tickerIsRunningFlag int32
	tickerFrequency     int
	mu                  sync.Mutex
	log                 logger.Logger
	mapStepStats        *ordered_map.OrderedMap // StepWatcher{} per statement in execution order.
}

// SetStatsDumpFrequency returns a function that can be supplied as an option to constructor NewRunStats().
// A frequency of 0 disables periodic dumping of running steps.
func SetStatsDumpFrequency(seconds int) func(t *RunStatsManager) {
	return func(t *RunStatsManager) {
		t.tickerFrequency = seconds
	}
}

// NewRunStats creates a new RunStatsManager.
// Optionally supply func SetStatsDumpFrequency() to override the default stats dump frequency.
func NewRunStats(log logger.Logger, options ...func(t *RunStatsManager)) *RunStatsManager {
	t := &RunStatsManager{log: log, tickerFrequency: DefaultStatsDumpFrequencySeconds} // set default ticker frequency which can be overridden by options below.
	for _, option := range options {
		option(t)
	}
	t.tickerDone = make(chan struct{})
	t.mapStepStats = ordered_map.NewOrderedMap()
	return t
}

// AddStepWatcher creates a new StepWatcher for a statement.
// Steps of the same stage may share a name, so the key includes the position of the step.
func (t *RunStatsManager) AddStepWatcher(stage string, stepName string) *StepWatcher {
	t.mu.Lock()
	defer t.mu.Unlock()
	sw := NewStepWatcher(t.log, stage, stepName)
	t.mapStepStats.Set(fmt.Sprintf("%v/%v/%v", stage, stepName, t.mapStepStats.Len()), sw)
	return sw
}

// StartDumping logs the running step periodically so that long loads show progress.
func (t *RunStatsManager) StartDumping() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if atomic.LoadInt32(&t.tickerIsRunningFlag) == 0 { // if we're not already dumping stats...
		if t.tickerFrequency > 0 { // if stats dumping is enabled...
			t.ticker = time.NewTicker(time.Second * time.Duration(t.tickerFrequency))
			atomic.StoreInt32(&t.tickerIsRunningFlag, 1)
			go func() {
				t.log.Debug("stats dumper ticker started")
				for {
					select {
					case <-t.tickerDone:
						t.log.Debug("stats dumper ticker stopped")
						return
					case <-t.ticker.C:
						t.logRunningSteps()
					}
				}
			}()
		} else {
			t.log.Debug("stats dumper disabled")
		}
	} else {
		t.log.Debug("stats dumper ticker already running")
	}
}

// StopDumping stops the ticker started by StartDumping().
// The dumper may be waiting for mu in watchers(), so mu is released before signalling it.
func (t *RunStatsManager) StopDumping() {
	t.mu.Lock()
	if atomic.LoadInt32(&t.tickerIsRunningFlag) == 0 { // if we never started to dump stats...
		t.mu.Unlock()
		return
	}
	atomic.StoreInt32(&t.tickerIsRunningFlag, 0)
	ticker := t.ticker
	t.mu.Unlock()
	ticker.Stop()
	t.tickerDone <- struct{}{} // cause the goroutine to exit (we can't close ticker.C)
}

func (t *RunStatsManager) watchers() []*StepWatcher {
	t.mu.Lock()
	defer t.mu.Unlock()
	retval := make([]*StepWatcher, 0, t.mapStepStats.Len())
	iter := t.mapStepStats.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() { // for each statement of the run...
		retval = append(retval, kv.Value.(*StepWatcher))
	}
	return retval
}

func (t *RunStatsManager) logRunningSteps() {
	for _, sw := range t.watchers() {
		if sw.IsRunning() {
			t.log.Warn(sw.RenderStats().String())
		}
	}
}

// Dump logs the stats of every step.
func (t *RunStatsManager) Dump() {
	for _, s := range t.GetStats() {
		t.log.Warn(s.String())
	}
}

// GetStats implements interface StatsFetcher{}.
func (t *RunStatsManager) GetStats() []Stats {
	w := t.watchers()
	statsList := make([]Stats, 0, len(w))
	for _, sw := range w {
		statsList = append(statsList, sw.RenderStats())
	}
	return statsList
}
