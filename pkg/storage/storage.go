package storage

import (
	"context"
	"errors"
	"fmt"

	"dealpipe/config"
	"dealpipe/pkg/logger"
)

// ErrNotFound is returned when the requested object does not exist.
var ErrNotFound = errors.New("document not found")

// DocumentStore abstracts where uploaded pitch decks live.
type DocumentStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// NewDocumentStore builds the backend selected by the storage config.
func NewDocumentStore(cfg config.Storage, log *logger.Logger) (DocumentStore, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg.LocalDir)
	case "s3":
		return NewS3Store(cfg.S3, log)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}
