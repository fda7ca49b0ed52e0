//go:generate mockgen -package mocks -destination mocks/interface.go -source=interface.go
package s3

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

type BasicClient interface {
	Lister
	Getter
}

type Lister interface {
	// List returns the keys found under prefix, relative to the bucket.
	List(ctx context.Context, prefix string) (keys []string, err error)
}

type Getter interface {
	// Get returns ErrKeyNotFound if the given key doesn't exist.
	Get(ctx context.Context, key string) (data []byte, err error)
}

// ClientFactory builds a client for a bucket.
type ClientFactory func(bucket, region string) BasicClient
