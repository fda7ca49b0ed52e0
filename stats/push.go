package stats

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Pusher publishes run statistics to a Prometheus push gateway.
type Pusher struct {
	URL   string
	Job   string
	RunID string
}

// Push sends one gauge sample per step plus the overall run outcome.
// Steps with the same stage and name are summed.
func (p *Pusher) Push(stats []Stats, success bool) error {
	labels := []string{"stage", "step"}
	duration := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "starpipe_step_duration_seconds",
		Help: "Time taken to execute the statements of a pipeline step.",
	}, labels)
	rows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "starpipe_step_rows_affected",
		Help: "Rows affected by the statements of a pipeline step, -1 if unknown.",
	}, labels)
	outcome := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "starpipe_run_success",
		Help: "1 if the last pipeline run completed without error, else 0.",
	})
	for _, s := range stats {
		duration.WithLabelValues(s.Stage, s.StepName).Add(s.ElapsedTimeSec)
		if s.RowsAffected >= 0 {
			rows.WithLabelValues(s.Stage, s.StepName).Add(float64(s.RowsAffected))
		} else {
			rows.WithLabelValues(s.Stage, s.StepName).Set(-1)
		}
	}
	if success {
		outcome.Set(1)
	}
	pusher := push.New(p.URL, p.Job).
		Collector(duration).
		Collector(rows).
		Collector(outcome)
	if p.RunID != "" {
		pusher = pusher.Grouping("run", p.RunID)
	}
	if err := pusher.Push(); err != nil {
		return errors.Wrapf(err, "error pushing metrics to %v", p.URL)
	}
	return nil
}
