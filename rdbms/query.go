package rdbms

import (
	"fmt"

	"golang.org/x/net/context"

	"github.com/relloyd/starpipe/logger"
	"github.com/relloyd/starpipe/rdbms/shared"
)

// SqlQuery runs sqltext and sends the column names followed by each row to i.
func SqlQuery(ctx context.Context, log logger.Logger, db shared.Connector, sqltext string, i shared.SqlResultHandler) error {
	rows, err := db.QueryContext(ctx, sqltext)
	if err != nil {
		return fmt.Errorf("error during database query using SQL: '%v': %w", sqltext, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	// Set up column types for Scan(...)
	log.Debug("fetching column types...")
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return fmt.Errorf("error fetching column types: %w", err)
	}
	for _, v := range colTypes {
		log.Debug("column scan type = ", v.ScanType())
	}
	// Scan the values dynamically.
	lenColTypes := len(colTypes)
	scanPtrs := make([]interface{}, lenColTypes)
	scanVals := make([]interface{}, lenColTypes)
	for idx := 0; idx < lenColTypes; idx++ { // for each column...
		scanPtrs[idx] = &scanVals[idx] // save the value.
	}
	// Build and send the header.
	header := make([]interface{}, lenColTypes)
	for idx := range colTypes {
		header[idx] = colTypes[idx].Name()
	}
	if err = i.HandleHeader(header); err != nil {
		return err
	}
	// Send the rows via callback interface.
	for rows.Next() {
		if err = ctx.Err(); err != nil { // quit if asked to...
			return err
		}
		if err = rows.Scan(scanPtrs...); err != nil {
			return fmt.Errorf("error scanning row: %w", err)
		}
		// Make a new row.
		row := make([]interface{}, lenColTypes)
		copy(row, scanVals)
		// Send the row.
		if err = i.HandleRow(row); err != nil {
			return err
		}
	}
	return rows.Err()
}

// SqlExec runs a single statement and returns the number of rows affected.
// Drivers that cannot report rows affected return -1.
func SqlExec(ctx context.Context, log logger.Logger, db shared.Connector, sqltext string) (int64, error) {
	log.Trace("executing SQL: ", sqltext)
	res, err := db.ExecContext(ctx, sqltext)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		log.Debug("rows affected not available: ", err)
		return -1, nil
	}
	return n, nil
}
