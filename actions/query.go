package actions

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/context"

	"github.com/relloyd/starpipe/helper"
	"github.com/relloyd/starpipe/rdbms"
)

type QueryConfig struct {
	PipelineConfig
	Query       string `errorTxt:"query" mandatory:"yes"`
	PrintHeader bool
	DryRun      bool
}

type sqlHandler struct {
	printHeader bool
	w           *csv.Writer
}

func newSqlHandler(out io.Writer, printHeader bool) *sqlHandler {
	return &sqlHandler{printHeader: printHeader, w: csv.NewWriter(out)}
}

func (s *sqlHandler) HandleHeader(i []interface{}) error {
	if s.printHeader {
		if err := s.write(i); err != nil {
			return fmt.Errorf("error outputting SQL header: %v", err)
		}
	}
	return nil
}

func (s *sqlHandler) HandleRow(i []interface{}) error {
	if err := s.write(i); err != nil {
		return fmt.Errorf("error outputting SQL row: %v", err)
	}
	return nil
}

func (s *sqlHandler) write(i []interface{}) error {
	if err := s.w.Write(helper.InterfaceToString(i)); err != nil {
		return err
	}
	s.w.Flush()
	return s.w.Error()
}

// RunQuery executes an ad-hoc query against the warehouse and writes the rows to cfg.Out as CSV.
func RunQuery(ctx context.Context, cfg *QueryConfig) error {
	var err error
	cfg.setDefaults()
	if err = helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	if cfg.DryRun {
		_, err = fmt.Fprintln(cfg.Out, cfg.Query)
		return err
	}
	log := cfg.Log
	if err = validateConnection(cfg.Settings); err != nil {
		return err
	}
	db, err := cfg.OpenConnection(ctx, log, cfg.Settings.DsnConnectionDetails())
	if err != nil {
		return err
	}
	defer db.Close()
	ctx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()
	h := newSqlHandler(cfg.Out, cfg.PrintHeader)
	// Handle interrupts.
	chanQuit := make(chan os.Signal, 2)
	chanSql := make(chan error, 1)
	signal.Notify(chanQuit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(chanQuit)
	// Start the SQL.
	go func() {
		chanSql <- rdbms.SqlQuery(ctx, log, db, cfg.Query, h)
	}()
	// Wait for SQL or interrupt.
	select {
	case <-chanQuit: // if we were interrupted...
		log.Warn("user abort, stopping SQL execution")
		cancelFn() // cancel the SQL.
		select {
		case <-time.After(5 * time.Second): // timeout.
			log.Warn("timeout waiting for SQL to end, aborted")
		case <-chanSql: // sql ended.
		}
		return nil
	case err = <-chanSql: // SQL ended.
	}
	return err
}
