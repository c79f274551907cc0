package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pierrec/lz4/v4"
)

// compressionThresholdBytes is the payload size above which an event's
// JSON is lz4-compressed before being written. Most ticks and
// single-value payloads stay well under this; only bulk payloads
// (reconnect catch-up batches) benefit from paying the compress/
// decompress cost.
const compressionThresholdBytes = 1024

// SQLiteEventRepository implements EventRepository against SQLite via
// sqlx, matching the column-tagged struct scan pattern sqlx provides
// over raw database/sql.
type SQLiteEventRepository struct {
	db *sqlx.DB
}

// NewSQLiteEventRepository builds a repository over an open database.
func NewSQLiteEventRepository(db *sqlx.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

// Append inserts one event.
func (r *SQLiteEventRepository) Append(ctx context.Context, event StoredEvent) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO events (id, timestamp, event_type, actor_id, target_id, payload, payload_compressed, is_revealed)
		VALUES (:id, :timestamp, :event_type, :actor_id, :target_id, :payload, :payload_compressed, :is_revealed)
	`, event)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// EncodePayload marshals an arbitrary event payload to JSON and
// lz4-compresses it if it crosses compressionThresholdBytes, returning
// the bytes to store and whether compression was applied.
func EncodePayload(payload interface{}) ([]byte, bool, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, false, fmt.Errorf("marshal payload: %w", err)
	}
	if len(raw) < compressionThresholdBytes {
		return raw, false, nil
	}
	compressed := make([]byte, lz4.CompressBlockBound(len(raw)))
	var c lz4.Compressor
	n, err := c.CompressBlock(raw, compressed)
	if err != nil {
		return nil, false, fmt.Errorf("compress payload: %w", err)
	}
	return compressed[:n], true, nil
}

// DecodePayload reverses EncodePayload.
func DecodePayload(stored []byte, compressed bool, out interface{}) error {
	raw := stored
	if compressed {
		decompressed := make([]byte, len(stored)*8) // fixed 8x bound; a payload that inflates further fails to decode
		n, err := lz4.UncompressBlock(stored, decompressed)
		if err != nil {
			return fmt.Errorf("decompress payload: %w", err)
		}
		raw = decompressed[:n]
	}
	return json.Unmarshal(raw, out)
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]StoredEvent, error) {
	var out []StoredEvent
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	return out, nil
}

// GetByActorID returns every event originated by actorID, in the order
// they were appended.
func (r *SQLiteEventRepository) GetByActorID(ctx context.Context, actorID string) ([]StoredEvent, error) {
	return r.getMany(ctx, `SELECT id, timestamp, event_type, actor_id, target_id, payload, payload_compressed, is_revealed FROM events WHERE actor_id = ? ORDER BY timestamp ASC`, actorID)
}

// GetByEventType returns every event of a given type.
func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, eventType string) ([]StoredEvent, error) {
	return r.getMany(ctx, `SELECT id, timestamp, event_type, actor_id, target_id, payload, payload_compressed, is_revealed FROM events WHERE event_type = ? ORDER BY timestamp ASC`, eventType)
}

// GetSince returns every event appended after the given timestamp —
// used by reconnect catch-up to build a player's "what happened while
// you were away" recap.
func (r *SQLiteEventRepository) GetSince(ctx context.Context, since time.Time) ([]StoredEvent, error) {
	return r.getMany(ctx, `SELECT id, timestamp, event_type, actor_id, target_id, payload, payload_compressed, is_revealed FROM events WHERE timestamp > ? ORDER BY timestamp ASC`, since)
}

// SQLiteSnapshotRepository implements SnapshotRepository against the
// players table — a denormalized read model kept alongside the event
// log so a reconnect or a status query never has to replay history to
// learn where a player currently stands.
type SQLiteSnapshotRepository struct {
	db *sqlx.DB
}

// NewSQLiteSnapshotRepository builds a repository over an open database.
func NewSQLiteSnapshotRepository(db *sqlx.DB) *SQLiteSnapshotRepository {
	return &SQLiteSnapshotRepository{db: db}
}

// Upsert writes playerID's current stats, replacing any prior row.
func (r *SQLiteSnapshotRepository) Upsert(ctx context.Context, snapshot PlayerSnapshot) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO players (id, display_name, x, y, health, hunger, thirst, warmth, is_dead, is_online)
		VALUES (:id, :display_name, :x, :y, :health, :hunger, :thirst, :warmth, :is_dead, :is_online)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			x = excluded.x, y = excluded.y,
			health = excluded.health, hunger = excluded.hunger, thirst = excluded.thirst, warmth = excluded.warmth,
			is_dead = excluded.is_dead, is_online = excluded.is_online
	`, snapshot)
	if err != nil {
		return fmt.Errorf("upsert player snapshot: %w", err)
	}
	return nil
}

// GetByID returns the stored snapshot for playerID, or nil if unknown.
func (r *SQLiteSnapshotRepository) GetByID(ctx context.Context, playerID string) (*PlayerSnapshot, error) {
	var out PlayerSnapshot
	err := r.db.GetContext(ctx, &out, `
		SELECT id, display_name, x, y, health, hunger, thirst, warmth, is_dead, is_online
		FROM players WHERE id = ?
	`, playerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get player snapshot: %w", err)
	}
	return &out, nil
}

// GetAll returns every stored player snapshot.
func (r *SQLiteSnapshotRepository) GetAll(ctx context.Context) ([]PlayerSnapshot, error) {
	var out []PlayerSnapshot
	if err := r.db.SelectContext(ctx, &out, `
		SELECT id, display_name, x, y, health, hunger, thirst, warmth, is_dead, is_online
		FROM players
	`); err != nil {
		return nil, fmt.Errorf("list player snapshots: %w", err)
	}
	return out, nil
}
