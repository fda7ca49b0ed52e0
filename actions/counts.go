package actions

import (
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"

	"github.com/relloyd/starpipe/helper"
	"github.com/relloyd/starpipe/rdbms"
	td "github.com/relloyd/starpipe/table-definition"
)

type countHandler struct {
	count string
}

func (h *countHandler) HandleHeader(i []interface{}) error {
	return nil
}

func (h *countHandler) HandleRow(i []interface{}) error {
	if len(i) != 1 {
		return fmt.Errorf("expected 1 column in count result, got %v", len(i))
	}
	h.count = helper.InterfaceToString(i)[0]
	return nil
}

// RunCounts prints the number of rows in every table.
func RunCounts(ctx context.Context, cfg *PipelineConfig) error {
	cfg.setDefaults()
	if err := validateConnection(cfg.Settings); err != nil {
		return err
	}
	db, err := cfg.OpenConnection(ctx, cfg.Log, cfg.Settings.DsnConnectionDetails())
	if err != nil {
		return err
	}
	defer db.Close()
	table := tablewriter.NewWriter(cfg.Out)
	table.SetHeader([]string{"Table", "Rows"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, t := range td.NewRegistry().Tables() {
		h := &countHandler{}
		if err = rdbms.SqlQuery(ctx, cfg.Log, db, fmt.Sprintf("SELECT COUNT(*) FROM %v", t.Name), h); err != nil {
			return err
		}
		table.Append([]string{t.Name, h.count})
	}
	table.Render()
	return nil
}
