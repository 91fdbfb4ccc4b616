package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"AgroFeed/internal/core/feed"
)

// snapshotKey is the singleton row id; the gateway keeps only the most
// recent snapshot of the upstream collection.
const snapshotKey = "feed"

type postgresSnapshotRepo struct {
	db *sql.DB
}

// NewSnapshotRepository creates a PostgreSQL feed snapshot repository.
// It stores the last successfully fetched raw post collection so the feed
// can serve stale data while the upstream is unreachable.
func NewSnapshotRepository(db *sql.DB) feed.SnapshotStore {
	return &postgresSnapshotRepo{db: db}
}

// Save replaces the stored snapshot with the given raw collection.
func (r *postgresSnapshotRepo) Save(ctx context.Context, rawPosts []map[string]interface{}) error {
	payload, err := json.Marshal(rawPosts)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `
		INSERT INTO feed_snapshots (key, payload, fetched_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET payload = EXCLUDED.payload, fetched_at = EXCLUDED.fetched_at`

	if _, err := r.db.ExecContext(ctx, query, snapshotKey, payload); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load returns the most recent snapshot, or feed.ErrNoSnapshot when none
// has been stored yet.
func (r *postgresSnapshotRepo) Load(ctx context.Context) ([]map[string]interface{}, error) {
	var payload []byte
	query := `SELECT payload FROM feed_snapshots WHERE key = $1`

	err := r.db.QueryRowContext(ctx, query, snapshotKey).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, feed.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var rawPosts []map[string]interface{}
	if err := json.Unmarshal(payload, &rawPosts); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return rawPosts, nil
}
