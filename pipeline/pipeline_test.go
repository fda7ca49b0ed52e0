package pipeline

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relloyd/starpipe/dialect"
	"github.com/relloyd/starpipe/logger"
	"github.com/relloyd/starpipe/queries"
	"github.com/relloyd/starpipe/rdbms/shared"
	"github.com/relloyd/starpipe/stats"
)

var testLoadConfig = &queries.LoadConfig{
	SongData:    "s3://udacity-dend/song_data",
	LogData:     "s3://udacity-dend/log_data",
	LogJsonPath: "s3://udacity-dend/log_json_path.json",
	IamRoleArn:  "arn:aws:iam::123456789012:role/dwhRole",
	Region:      "us-west-2",
}

func testLogger() logger.Logger {
	return logger.NewLogger("starpipe-test", "error", false)
}

func TestNewPlan(t *testing.T) {
	p, err := NewPlan(dialect.NewRedshift(), testLoadConfig, nil)
	require.NoError(t, err)
	assert.Len(t, p.Drop, 7)
	assert.Len(t, p.Create, 7)
	assert.Len(t, p.Load, 2)
	assert.Len(t, p.Transform, 5)
	assert.Equal(t, "staging_events", p.Load[0].Name)
	assert.Equal(t, "load", p.Load[0].Stage)
	assert.Equal(t, "songplays", p.Transform[0].Name)
	steps, err := p.Steps(Stages...)
	require.NoError(t, err)
	require.Len(t, steps, 21)
	assert.Equal(t, "drop", steps[0].Stage)
	assert.Equal(t, "create", steps[7].Stage)
	assert.Equal(t, "load", steps[14].Stage)
	assert.Equal(t, "transform", steps[16].Stage)
}

func TestPlanWithoutLoad(t *testing.T) {
	p, err := NewPlan(dialect.NewSnowflake(), nil, nil)
	require.NoError(t, err)
	_, err = p.Steps("create", "transform")
	assert.NoError(t, err)
	_, err = p.Steps("load")
	assert.Error(t, err)
	_, err = p.Steps("vacuum")
	assert.Error(t, err)
}

func TestNewPlanLoadError(t *testing.T) {
	cfg := *testLoadConfig
	cfg.IamRoleArn = ""
	_, err := NewPlan(dialect.NewRedshift(), &cfg, nil)
	assert.Error(t, err)
}

func TestExecutorRunsInOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	steps := []Step{
		{Stage: "create", Name: "users", SQL: "CREATE TABLE IF NOT EXISTS users (user_id INTEGER)"},
		{Stage: "transform", Name: "users", SQL: "INSERT INTO users SELECT 1"},
	}
	mock.ExpectExec(regexp.QuoteMeta(steps[0].SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(steps[1].SQL)).WillReturnResult(sqlmock.NewResult(0, 1))
	sm := stats.NewRunStats(testLogger(), stats.SetStatsDumpFrequency(0))
	e := NewExecutor(testLogger(), shared.NewSqlConnection(db, "redshift"), sm)
	require.NoError(t, e.Run(context.Background(), steps))
	assert.NoError(t, mock.ExpectationsWereMet())
	s := sm.GetStats()
	require.Len(t, s, 2)
	assert.Equal(t, "complete", s[1].StatusText)
	assert.Equal(t, int64(1), s[1].RowsAffected)
}

func TestExecutorStopsAtFirstFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	steps := []Step{
		{Stage: "load", Name: "staging_events", SQL: "COPY staging_events FROM 's3://udacity-dend/log_data'"},
		{Stage: "load", Name: "staging_songs", SQL: "COPY staging_songs FROM 's3://udacity-dend/song_data'"},
	}
	driverErr := errors.New("Load into table 'staging_events' failed")
	mock.ExpectExec(regexp.QuoteMeta(steps[0].SQL)).WillReturnError(driverErr)
	sm := stats.NewRunStats(testLogger(), stats.SetStatsDumpFrequency(0))
	e := NewExecutor(testLogger(), shared.NewSqlConnection(db, "redshift"), sm)
	err = e.Run(context.Background(), steps)
	require.Error(t, err)
	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, "load", stepErr.Stage)
	assert.Equal(t, "staging_events", stepErr.Name)
	assert.Equal(t, steps[0].SQL, stepErr.SQL)
	assert.True(t, errors.Is(err, driverErr))
	assert.Contains(t, err.Error(), "load stage failed at staging_events")
	assert.NoError(t, mock.ExpectationsWereMet()) // the songs load was never attempted
	s := sm.GetStats()
	assert.Equal(t, "failed", s[0].StatusText)
	assert.Equal(t, "waiting", s[1].StatusText)
}

func TestExecutorChecksContextBetweenStatements(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := NewExecutor(testLogger(), shared.NewSqlConnection(db, "redshift"), nil)
	err = e.Run(ctx, []Step{{Stage: "drop", Name: "users", SQL: "DROP TABLE IF EXISTS users"}})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStepErrorFormat(t *testing.T) {
	err := &StepError{Stage: "create", Name: "users", Err: errors.New("relation exists")}
	assert.Equal(t, "create stage failed at users: relation exists", err.Error())
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "COPY x ...", firstLine("COPY x\nIAM_ROLE 'arn'"))
	assert.Equal(t, "DROP TABLE t", firstLine("DROP TABLE t"))
}
