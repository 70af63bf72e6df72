package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ne3mer/supplychainweb/schema"
	"github.com/rotisserie/eris"
)

// getUpsertArtifactQuery returns the backend-specific upsert for artifacts.
func (s *SQLStore) getUpsertArtifactQuery() string {
	table := quoteTableName(artifactsTable, s.backend)
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (artifact_key, payload, version, updated_at) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE payload = new.payload, version = new.version, updated_at = new.updated_at`, table)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (artifact_key, payload, version, updated_at) VALUES (?, ?, ?, ?)
			ON CONFLICT (artifact_key) DO UPDATE SET payload = EXCLUDED.payload, version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at`, table)
	default:
		return fmt.Sprintf("INSERT OR REPLACE INTO %s (artifact_key, payload, version, updated_at) VALUES (?, ?, ?, ?)", table)
	}
}

// Get returns the payload, version and timestamp stored under key.
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, int, int64, error) {
	if s.db == nil {
		return nil, 0, 0, notFound("artifact", key)
	}
	var (
		payload []byte
		version int
		ts      int64
	)
	query := fmt.Sprintf("SELECT payload, version, updated_at FROM %s WHERE artifact_key = ?", quoteTableName(artifactsTable, s.backend))
	err := s.db.QueryRowContext(ctx, s.rebind(query), key).Scan(&payload, &version, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, 0, notFound("artifact", key)
	}
	if err != nil {
		return nil, 0, 0, eris.Wrapf(err, "store: get artifact %s", key)
	}
	return payload, version, ts, nil
}

// Set stores a payload under key, replacing any previous version.
func (s *SQLStore) Set(ctx context.Context, key string, value []byte, version int, timestamp int64) error {
	if s.db == nil {
		return nil
	}
	_, err := s.exec(ctx, s.db, s.getUpsertArtifactQuery(), key, value, version, timestamp)
	return eris.Wrapf(err, "store: set artifact %s", key)
}
