package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned by Get for keys with no object behind them.
var ErrNotFound = errors.New("object not found")

// ErrPresignUnsupported is returned by stores that cannot issue upload URLs.
var ErrPresignUnsupported = errors.New("presigned uploads not supported by this store")

type Object struct {
	Key          string
	LastModified time.Time
}

type ListResult struct {
	Objects   []Object
	NextToken string // empty when the listing is complete
}

// ObjectStore is the blob store used for asset variants. All operations are
// idempotent at the key level: Put overwrites, DeleteMany treats absent keys
// as already deleted.
type ObjectStore interface {
	Put(key string, data []byte, contentType string) error
	Get(key string) ([]byte, error)
	// DeleteMany removes the given keys best-effort. Keys that do not exist
	// are not an error.
	DeleteMany(keys []string) error
	// PresignPut returns a time-limited URL for uploading a single object
	// with the given content type.
	PresignPut(key, contentType string, size int64) (string, error)
	List(prefix, continuationToken string) (ListResult, error)
}
