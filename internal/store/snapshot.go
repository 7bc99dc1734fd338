package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// snapshotVersion is the current SnapshotData layout.
const snapshotVersion = 1

// snapshotRepo implements SnapshotRepo with ent's SQL builders.
type snapshotRepo struct {
	db *sql.DB
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}
	ts := snap.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableSnapshots).
		Columns("sequence", "timestamp", "data").
		Values(snap.Sequence, ts.UnixNano(), string(data)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("id", "sequence", "timestamp", "data").
		From(entsql.Table(tableSnapshots)).
		OrderBy(entsql.Desc("id")).
		Limit(1).
		Query()

	var (
		snap Snapshot
		ts   int64
		data string
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&snap.ID, &snap.Sequence, &ts, &data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &snap.Data); err != nil {
		return nil, fmt.Errorf("%w: unmarshal snapshot data: %w", ErrCorrupt, err)
	}
	snap.Timestamp = time.Unix(0, ts)
	return &snap, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	// Find the ID threshold: the Nth most recent snapshot.
	query, args := entsql.Dialect(dialect.SQLite).
		Select("id").
		From(entsql.Table(tableSnapshots)).
		OrderBy(entsql.Desc("id")).
		Limit(1).
		Offset(keep).
		Query()

	var threshold int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil // fewer than keep snapshots exist
		}
		return fmt.Errorf("query snapshots for prune: %w", err)
	}

	query, args = entsql.Dialect(dialect.SQLite).
		Delete(tableSnapshots).
		Where(entsql.LTE("id", threshold)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

// snapshotProgressStore persists the progress record as journal snapshots.
type snapshotProgressStore struct {
	snapshots SnapshotRepo
	seq       *sequenceCounter
	keep      int
}

func (p *snapshotProgressStore) LoadProgress(ctx context.Context) (*ProgressRecord, error) {
	snap, err := p.snapshots.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, ErrNotFound
	}
	raw, err := json.Marshal(snap.Data.Progress)
	if err != nil {
		return nil, fmt.Errorf("%w: encode snapshot progress: %w", ErrCorrupt, err)
	}
	return decodeProgress(raw)
}

func (p *snapshotProgressStore) SaveProgress(ctx context.Context, rec *ProgressRecord) error {
	seq, err := p.seq.Next(ctx)
	if err != nil {
		return err
	}
	data := SnapshotData{Version: snapshotVersion, Progress: *rec}
	data.Progress.Normalize()

	if err := p.snapshots.Save(ctx, &Snapshot{
		Sequence:  seq,
		Timestamp: time.Now(),
		Data:      data,
	}); err != nil {
		return err
	}
	if p.keep > 0 {
		return p.snapshots.Prune(ctx, p.keep)
	}
	return nil
}
