package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter manages the monotonic sequence number shared by snapshots
// and every journal table, so progress events, runs and snapshots can be
// ordered against each other.
//
// Uses raw SQL because ent's builders have no atomic counter. The mutex
// serializes within the process; the RETURNING clause makes the increment
// atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// eventRepo implements EventRepo.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendProgressEvent(ctx context.Context, data ProgressEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableProgressEvents).
		Columns("sequence", "timestamp", "kind", "subject", "amount", "detail").
		Values(seqNum, time.Now().UnixNano(), data.Kind, data.Subject, data.Amount, data.Detail).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save progress event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendRunEvent(ctx context.Context, data RunEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableRunEvents).
		Columns("run_id", "sequence", "timestamp", "kind", "subject",
			"correct", "total", "elapsed_ms", "passed", "quit").
		Values(data.RunID, seqNum, time.Now().UnixNano(), data.Kind, data.Subject,
			data.Correct, data.Total, data.Elapsed.Milliseconds(), data.Passed, data.Quit).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save run event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryProgressEvents(ctx context.Context, opts QueryOpts) ([]ProgressEventRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("sequence", "timestamp", "kind", "subject", "amount", "detail").
		From(entsql.Table(tableProgressEvents))
	applyOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query progress events: %w", err)
	}
	defer rows.Close()

	var records []ProgressEventRecord
	for rows.Next() {
		var (
			rec ProgressEventRecord
			ts  int64
		)
		if err := rows.Scan(&rec.Sequence, &ts, &rec.Kind, &rec.Subject, &rec.Amount, &rec.Detail); err != nil {
			return nil, fmt.Errorf("scan progress event: %w", err)
		}
		rec.Timestamp = time.Unix(0, ts)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query progress events: %w", err)
	}
	return records, nil
}

func (r *eventRepo) QueryRunEvents(ctx context.Context, opts QueryOpts) ([]RunEventRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("run_id", "sequence", "timestamp", "kind", "subject",
			"correct", "total", "elapsed_ms", "passed", "quit").
		From(entsql.Table(tableRunEvents))
	applyOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query run events: %w", err)
	}
	defer rows.Close()

	var records []RunEventRecord
	for rows.Next() {
		var (
			rec       RunEventRecord
			ts        int64
			elapsedMs int64
		)
		if err := rows.Scan(&rec.RunID, &rec.Sequence, &ts, &rec.Kind, &rec.Subject,
			&rec.Correct, &rec.Total, &elapsedMs, &rec.Passed, &rec.Quit); err != nil {
			return nil, fmt.Errorf("scan run event: %w", err)
		}
		rec.Timestamp = time.Unix(0, ts)
		rec.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query run events: %w", err)
	}
	return records, nil
}

func (r *eventRepo) RunSummaries(ctx context.Context) ([]RunSummary, error) {
	runs, err := r.QueryRunEvents(ctx, QueryOpts{})
	if err != nil {
		return nil, err
	}

	type key struct{ kind, subject string }
	byKey := make(map[key]*RunSummary)
	for _, run := range runs {
		k := key{run.Kind, run.Subject}
		s, ok := byKey[k]
		if !ok {
			s = &RunSummary{Kind: run.Kind, Subject: run.Subject}
			byKey[k] = s
		}
		s.Attempts++
		if run.Passed {
			s.Passes++
		}
		if betterRun(run.Correct, run.Total, s.BestCorrect, s.BestTotal) {
			s.BestCorrect, s.BestTotal = run.Correct, run.Total
		}
		if run.Timestamp.After(s.LastRun) {
			s.LastRun = run.Timestamp
		}
	}

	summaries := make([]RunSummary, 0, len(byKey))
	for _, s := range byKey {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Kind != summaries[j].Kind {
			return summaries[i].Kind < summaries[j].Kind
		}
		return summaries[i].Subject < summaries[j].Subject
	})
	return summaries, nil
}

// betterRun reports whether c/t beats the current best bc/bt by ratio,
// breaking ties on the larger total.
func betterRun(c, t, bc, bt int) bool {
	if t == 0 {
		return false
	}
	if bt == 0 {
		return true
	}
	lhs, rhs := c*bt, bc*t
	if lhs != rhs {
		return lhs > rhs
	}
	return t > bt
}

// applyOpts adds QueryOpts filters to a selector, newest first.
func applyOpts(sel *entsql.Selector, opts QueryOpts) {
	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UnixNano()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To.UnixNano()))
	}
	if opts.Kind != "" {
		preds = append(preds, entsql.EQ("kind", opts.Kind))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}
