package session

import (
	"context"
	"errors"
)

// ErrNoSnapshot is returned by Load when nothing is stored for the session.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Persister stores session snapshots by session id and storage key.
type Persister interface {
	Load(ctx context.Context, sessionID, key string) ([]byte, error)
	Save(ctx context.Context, sessionID, key string, payload []byte, version int) error
	Delete(ctx context.Context, sessionID, key string) error
}
