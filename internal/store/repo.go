package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
	Kind   string    // exact kind match ("" = any)
}

// SnapshotData captures the full learner progress at a point in time.
type SnapshotData struct {
	Version  int            `json:"version"`
	Progress ProgressRecord `json:"progress"`
}

// Snapshot represents a point-in-time capture of learner progress.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages progress snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// ProgressStore loads and saves the single progress record.
type ProgressStore interface {
	// LoadProgress returns the saved record. It returns ErrNotFound when
	// nothing was saved and an error wrapping ErrCorrupt when the saved
	// content is unusable.
	LoadProgress(ctx context.Context) (*ProgressRecord, error)

	// SaveProgress replaces the saved record.
	SaveProgress(ctx context.Context, rec *ProgressRecord) error
}

// Progress event kinds.
const (
	EventXP          = "xp"
	EventLevelUp     = "level_up"
	EventAchievement = "achievement"
	EventLesson      = "lesson"
	EventQuiz        = "quiz"
	EventScenario    = "scenario"
	EventSection     = "section"
	EventReset       = "reset"
)

// Run kinds.
const (
	RunQuiz     = "quiz"
	RunScenario = "scenario"
	RunArena    = "arena"
	RunExam     = "exam"
)

// ProgressEventData captures a single ledger change.
type ProgressEventData struct {
	Kind    string
	Subject string
	Amount  int
	Detail  string
}

// ProgressEventRecord is a stored progress event.
type ProgressEventRecord struct {
	ProgressEventData
	Sequence  int64
	Timestamp time.Time
}

// RunEventData captures one finished or abandoned assessment run.
type RunEventData struct {
	RunID   string
	Kind    string
	Subject string
	Correct int
	Total   int
	Elapsed time.Duration
	Passed  bool
	Quit    bool
}

// RunEventRecord is a stored run event.
type RunEventRecord struct {
	RunEventData
	Sequence  int64
	Timestamp time.Time
}

// RunSummary aggregates the runs of one assessment.
type RunSummary struct {
	Kind        string
	Subject     string
	Attempts    int
	Passes      int
	BestCorrect int
	BestTotal   int
	LastRun     time.Time
}

// EventRepo provides append and query access to the journal.
type EventRepo interface {
	// AppendProgressEvent records a ledger change.
	AppendProgressEvent(ctx context.Context, data ProgressEventData) error

	// AppendRunEvent records an assessment run.
	AppendRunEvent(ctx context.Context, data RunEventData) error

	// QueryProgressEvents returns progress events, newest first.
	QueryProgressEvents(ctx context.Context, opts QueryOpts) ([]ProgressEventRecord, error)

	// QueryRunEvents returns run events, newest first.
	QueryRunEvents(ctx context.Context, opts QueryOpts) ([]RunEventRecord, error)

	// RunSummaries aggregates runs per assessment, ordered by kind and subject.
	RunSummaries(ctx context.Context) ([]RunSummary, error)
}
