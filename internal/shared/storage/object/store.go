package object

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Open and Delete when no object exists at the key.
var ErrNotFound = errors.New("object not found")

// ObjectStore defines the contract for saving, retrieving and deleting binary objects.
// Keys are namespaced by the owning session.
type ObjectStore interface {
	Save(ctx context.Context, sessionID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}
