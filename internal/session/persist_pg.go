package session

import (
	"context"
	"database/sql"
	"errors"

	"resume-formatter/internal/shared/util"
)

// PGPersister implements Persister using Postgres.
type PGPersister struct {
	DB *sql.DB
}

// Load returns the stored payload.
func (p *PGPersister) Load(ctx context.Context, sessionID, key string) ([]byte, error) {
	const query = `
SELECT payload
FROM session_state
WHERE session_key = $1 AND store_key = $2`

	var payload []byte
	err := p.DB.QueryRowContext(ctx, query, util.HashSessionKey(sessionID), key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}
	return payload, nil
}

// Save upserts the payload.
func (p *PGPersister) Save(ctx context.Context, sessionID, key string, payload []byte, version int) error {
	const query = `
INSERT INTO session_state (session_key, store_key, version, payload, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (session_key, store_key) DO UPDATE
SET version = EXCLUDED.version,
    payload = EXCLUDED.payload,
    updated_at = now()`

	_, err := p.DB.ExecContext(ctx, query, util.HashSessionKey(sessionID), key, version, string(payload))
	return err
}

// Delete removes the payload.
func (p *PGPersister) Delete(ctx context.Context, sessionID, key string) error {
	const query = `DELETE FROM session_state WHERE session_key = $1 AND store_key = $2`
	_, err := p.DB.ExecContext(ctx, query, util.HashSessionKey(sessionID), key)
	return err
}
