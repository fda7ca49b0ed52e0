package jsonpaths

import (
	"context"
	"io/ioutil"

	"github.com/pkg/errors"

	"github.com/relloyd/starpipe/aws/s3"
	td "github.com/relloyd/starpipe/table-definition"
)

// Loader fetches JSONPaths documents from S3 or the local filesystem.
type Loader struct {
	Region    string
	NewClient s3.ClientFactory
}

func NewLoader(region string) *Loader {
	return &Loader{Region: region, NewClient: s3.NewBasicClient}
}

// Read returns the raw document found at location.
func (l *Loader) Read(ctx context.Context, location string) ([]byte, error) {
	if !s3.IsURL(location) {
		data, err := ioutil.ReadFile(location)
		if err != nil {
			return nil, errors.Wrap(err, "error reading JSONPaths file")
		}
		return data, nil
	}
	loc, err := s3.ParseURL(location)
	if err != nil {
		return nil, err
	}
	data, err := l.NewClient(loc.Bucket, l.Region).Get(ctx, loc.Key)
	if err != nil {
		return nil, errors.Wrapf(err, "error fetching JSONPaths document %v", location)
	}
	return data, nil
}

// Resolve reads the document at location and maps it onto table t.
func (l *Loader) Resolve(ctx context.Context, location string, t td.Table) (*Mapping, error) {
	data, err := l.Read(ctx, location)
	if err != nil {
		return nil, err
	}
	paths, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Map(t, location, paths)
}
