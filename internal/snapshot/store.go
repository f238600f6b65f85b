// Package snapshot persists captured bridge state as entity documents in SQLite.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/dokzlo13/huemodel/internal/model"
)

// ErrNotFound is returned when a snapshot id does not exist, or the store is empty.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot describes one saved capture.
type Snapshot struct {
	ID        string
	Label     string
	Bridge    string
	CreatedAt time.Time
	Entities  int
}

// Store saves and restores snapshots. It is safe for concurrent use.
type Store struct {
	db       *sql.DB
	mu       sync.RWMutex
	factory  *model.Factory
	envelope *jsonschema.Schema
	now      func() time.Time
}

// NewStore creates a snapshot store that rebuilds entities through factory.
func NewStore(db *sql.DB, factory *model.Factory) (*Store, error) {
	envelope, err := compileEnvelope()
	if err != nil {
		return nil, err
	}
	return &Store{
		db:       db,
		factory:  factory,
		envelope: envelope,
		now:      time.Now,
	}, nil
}

// Save writes every entity's persisted format under a new snapshot id.
func (s *Store) Save(ctx context.Context, label, bridge string, entities []*model.Entity) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:        uuid.NewString(),
		Label:     label,
		Bridge:    bridge,
		CreatedAt: s.now().UTC().Truncate(time.Second),
		Entities:  len(entities),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshot (id, label, bridge, created_at)
		VALUES (?, ?, ?, ?)
	`, snap.ID, snap.Label, snap.Bridge, snap.CreatedAt.Unix())
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_entity (snapshot_id, kind, entity_id, type, payload)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to prepare entity insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entities {
		payload, err := json.Marshal(e)
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to encode %s: %w", e, err)
		}
		entityID := ""
		if e.Identified() {
			entityID = fmt.Sprint(e.ID())
		}
		if _, err := stmt.ExecContext(ctx, snap.ID, string(e.Kind()), entityID, e.Tag(), string(payload)); err != nil {
			return Snapshot{}, fmt.Errorf("failed to insert %s: %w", e, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	log.Info().
		Str("snapshot", snap.ID).
		Str("label", label).
		Int("entities", len(entities)).
		Msg("Snapshot saved")
	return snap, nil
}

// List returns all snapshots, newest first.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.label, s.bridge, s.created_at, COUNT(e.entity_id)
		FROM snapshot s
		LEFT JOIN snapshot_entity e ON e.snapshot_id = s.id
		GROUP BY s.id
		ORDER BY s.created_at DESC, s.rowid DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		var created int64
		if err := rows.Scan(&snap.ID, &snap.Label, &snap.Bridge, &created, &snap.Entities); err != nil {
			return nil, err
		}
		snap.CreatedAt = time.Unix(created, 0).UTC()
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// Load rebuilds every entity of a snapshot. Documents are checked against the persisted
// envelope before reconstruction.
func (s *Store) Load(ctx context.Context, id string) (Snapshot, []*model.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, err := s.get(ctx, id)
	if err != nil {
		return Snapshot{}, nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, entity_id, payload FROM snapshot_entity
		WHERE snapshot_id = ?
		ORDER BY kind, entity_id
	`, id)
	if err != nil {
		return Snapshot{}, nil, err
	}
	defer rows.Close()

	var entities []*model.Entity
	for rows.Next() {
		var kind, entityID, payload string
		if err := rows.Scan(&kind, &entityID, &payload); err != nil {
			return Snapshot{}, nil, err
		}
		e, err := s.restore(payload)
		if err != nil {
			return Snapshot{}, nil, fmt.Errorf("failed to restore %s %q: %w", kind, entityID, err)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, nil, err
	}

	snap.Entities = len(entities)
	return snap, entities, nil
}

// Latest loads the most recent snapshot.
func (s *Store) Latest(ctx context.Context) (Snapshot, []*model.Entity, error) {
	var id string
	s.mu.RLock()
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM snapshot ORDER BY created_at DESC, rowid DESC LIMIT 1
	`).Scan(&id)
	s.mu.RUnlock()

	if err == sql.ErrNoRows {
		return Snapshot{}, nil, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, nil, err
	}
	return s.Load(ctx, id)
}

// Delete removes a snapshot and its entities.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_entity WHERE snapshot_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM snapshot WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	log.Info().Str("snapshot", id).Msg("Snapshot deleted")
	return nil
}

func (s *Store) get(ctx context.Context, id string) (Snapshot, error) {
	var snap Snapshot
	var created int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, label, bridge, created_at FROM snapshot WHERE id = ?
	`, id).Scan(&snap.ID, &snap.Label, &snap.Bridge, &created)
	if err == sql.ErrNoRows {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, err
	}
	snap.CreatedAt = time.Unix(created, 0).UTC()
	return snap, nil
}

func (s *Store) restore(payload string) (*model.Entity, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if err := s.envelope.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid document envelope: %w", err)
	}
	return s.factory.CreateFromJSON(doc)
}
