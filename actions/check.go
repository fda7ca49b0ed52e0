package actions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"github.com/relloyd/starpipe/aws/s3"
	td "github.com/relloyd/starpipe/table-definition"
)

// RunCheck confirms the load settings are usable without touching the warehouse:
// the JSONPaths document must map onto staging_events and every source must hold objects.
func RunCheck(ctx context.Context, cfg *PipelineConfig) error {
	cfg.setDefaults()
	d, err := getDialect(cfg.Settings)
	if err != nil {
		return err
	}
	if err = validateLoad(cfg.Settings, d); err != nil {
		return err
	}
	m, err := cfg.JsonPaths.Resolve(ctx, cfg.Settings.LogJsonPath, td.StagingEvents)
	if err != nil {
		return err
	}
	paths := tablewriter.NewWriter(cfg.Out)
	paths.SetHeader([]string{"Column", "Type", "JSON field"})
	paths.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, e := range m.Entries() {
		paths.Append([]string{e.Column.Name, d.Mapper().Map(e.Column.Type), e.Path.Field()})
	}
	paths.Render()
	sources := tablewriter.NewWriter(cfg.Out)
	sources.SetHeader([]string{"Setting", "Location", "Objects"})
	sources.SetAlignment(tablewriter.ALIGN_LEFT)
	empty := make([]string, 0)
	for _, s := range []struct{ name, location string }{
		{"song-data", cfg.Settings.SongData},
		{"log-data", cfg.Settings.LogData},
	} {
		n, err := countObjects(ctx, cfg, s.location)
		if err != nil {
			return errors.Wrapf(err, "error checking %v", s.name)
		}
		if n == 0 {
			empty = append(empty, s.name)
		}
		sources.Append([]string{s.name, s.location, strconv.Itoa(n)})
	}
	sources.Render()
	if len(empty) > 0 {
		return fmt.Errorf("no objects found for %v", strings.Join(empty, ", "))
	}
	return nil
}

// countObjects returns the number of objects under an S3 prefix, or the number of JSON files
// matching a local path.
func countObjects(ctx context.Context, cfg *PipelineConfig, location string) (int, error) {
	if s3.IsURL(location) {
		loc, err := s3.ParseURL(location)
		if err != nil {
			return 0, err
		}
		keys, err := cfg.NewS3Client(loc.Bucket, cfg.Settings.Region).List(ctx, loc.Key)
		if err != nil {
			return 0, err
		}
		return len(keys), nil
	}
	root, pattern := location, "*.json"
	if idx := strings.Index(location, "**"); idx >= 0 { // if the glob is recursive...
		root, pattern = location[:idx], filepath.Base(location)
		if root == "" {
			root = "."
		}
	} else if strings.ContainsAny(location, "*?[") {
		matches, err := filepath.Glob(location)
		return len(matches), err
	}
	n := 0
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if root == path { // if location names a single file...
			n++
			return nil
		}
		if ok, _ := filepath.Match(pattern, strings.ToLower(info.Name())); ok {
			n++
		}
		return nil
	})
	return n, err
}
