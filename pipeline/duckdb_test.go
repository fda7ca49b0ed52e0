package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relloyd/starpipe/dialect"
	"github.com/relloyd/starpipe/rdbms"
	"github.com/relloyd/starpipe/rdbms/shared"
)

func TestExecutorDuckDB(t *testing.T) {
	ctx := context.Background()
	db, err := rdbms.OpenDbConnection(ctx, testLogger(), shared.DsnConnectionDetails{Dialect: "duckdb", Dsn: "duckdb:"})
	require.NoError(t, err)
	defer db.Close()
	p, err := NewPlan(dialect.NewDuckDB(), nil, nil)
	require.NoError(t, err)
	steps, err := p.Steps("drop", "create", "transform")
	require.NoError(t, err)
	e := NewExecutor(testLogger(), db, nil)
	require.NoError(t, e.Run(ctx, steps))
	require.NoError(t, e.Run(ctx, steps)) // drop and create make the run repeatable
}
