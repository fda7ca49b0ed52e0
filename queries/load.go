package queries

import (
	"github.com/pkg/errors"

	"github.com/relloyd/starpipe/dialect"
	"github.com/relloyd/starpipe/jsonpaths"
	td "github.com/relloyd/starpipe/table-definition"
)

// LoadConfig holds the source locations and credentials used by the staging loads.
type LoadConfig struct {
	SongData    string
	LogData     string
	LogJsonPath string
	IamRoleArn  string
	Region      string
	Stage       string
}

// StagingSongsLoad matches song metadata fields to staging_songs columns by name.
func StagingSongsLoad(cfg LoadConfig) dialect.BulkLoad {
	return dialect.BulkLoad{
		Table:      td.StagingSongs,
		Source:     cfg.SongData,
		Credential: cfg.IamRoleArn,
		Region:     cfg.Region,
		Stage:      cfg.Stage,
	}
}

// StagingEventsLoad maps event log fields to staging_events columns using the JSONPaths document.
// paths may be nil for dialects that read the document themselves.
func StagingEventsLoad(cfg LoadConfig, paths *jsonpaths.Mapping) dialect.BulkLoad {
	return dialect.BulkLoad{
		Table:      td.StagingEvents,
		Source:     cfg.LogData,
		Credential: cfg.IamRoleArn,
		Region:     cfg.Region,
		Stage:      cfg.Stage,
		Format: dialect.Format{
			JSONPathsLocation: cfg.LogJsonPath,
			Mapping:           paths,
		},
	}
}

// CopyStatements returns the staging loads: events first, then songs.
func CopyStatements(d dialect.Dialect, cfg LoadConfig, paths *jsonpaths.Mapping) ([]Statement, error) {
	if cfg.LogJsonPath == "" && paths == nil {
		return nil, errors.New("missing JSONPaths document for the event log load")
	}
	loads := []dialect.BulkLoad{StagingEventsLoad(cfg, paths), StagingSongsLoad(cfg)}
	retval := make([]Statement, 0, len(loads))
	for _, l := range loads {
		stmt, err := d.BulkLoad(l)
		if err != nil {
			return nil, errors.Wrapf(err, "error building %v load", d.Name())
		}
		retval = append(retval, Statement{Name: l.Table.Name, SQL: stmt})
	}
	return retval, nil
}
