package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/relloyd/starpipe/logger"
	"github.com/relloyd/starpipe/rdbms"
	"github.com/relloyd/starpipe/rdbms/shared"
	"github.com/relloyd/starpipe/stats"
)

// StepError reports the statement that stopped a run.
type StepError struct {
	Stage string
	Name  string
	SQL   string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%v stage failed at %v: %v", e.Stage, e.Name, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Executor runs steps one at a time against a single connection.
type Executor struct {
	log   logger.Logger
	db    shared.Connector
	stats stats.StatsManager
}

func NewExecutor(log logger.Logger, db shared.Connector, sm stats.StatsManager) *Executor {
	if sm == nil {
		sm = stats.NewMockStatsManager(log)
	}
	return &Executor{log: log, db: db, stats: sm}
}

// Run executes steps in order and stops at the first failure.
// Cancelling ctx prevents further statements from starting but does not interrupt the running one.
func (e *Executor) Run(ctx context.Context, steps []Step) error {
	watchers := make([]*stats.StepWatcher, 0, len(steps))
	for _, s := range steps {
		watchers = append(watchers, e.stats.AddStepWatcher(s.Stage, s.Name))
	}
	e.stats.StartDumping()
	defer e.stats.StopDumping()
	execCtx := context.WithoutCancel(ctx)
	for idx, s := range steps {
		if err := ctx.Err(); err != nil {
			return &StepError{Stage: s.Stage, Name: s.Name, SQL: s.SQL, Err: err}
		}
		e.log.Info("starting ", s.Stage, " step ", s.Name)
		e.log.Debug("SQL: ", firstLine(s.SQL))
		sw := watchers[idx]
		sw.StartWatching()
		n, err := rdbms.SqlExec(execCtx, e.log, e.db, s.SQL)
		sw.StopWatching(n, err)
		if err != nil {
			return &StepError{Stage: s.Stage, Name: s.Name, SQL: s.SQL, Err: err}
		}
		e.log.Info("completed ", s.Stage, " step ", s.Name, ", rows affected = ", n)
	}
	return nil
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx] + " ..."
	}
	return s
}
