// Package app is the interactive training shell. A Session carries every
// collaborator a lesson, quiz or scenario needs, so nothing reaches for
// global state.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/climastery/internal/config"
	"github.com/abhisek/climastery/internal/curriculum"
	"github.com/abhisek/climastery/internal/progress"
	"github.com/abhisek/climastery/internal/quiz"
	"github.com/abhisek/climastery/internal/store"
	"github.com/abhisek/climastery/internal/ui/menu"
	"github.com/abhisek/climastery/internal/ui/prompt"
	"github.com/abhisek/climastery/internal/ui/render"
)

// ExportFile is the cheatsheet file name written to the data directory.
const ExportFile = "copilot_cli_reference.txt"

// ExportXP is awarded for exporting the cheatsheet from the menu.
const ExportXP = 20

// ErrInterrupted is returned by Run when the user presses ctrl+c in a menu.
var ErrInterrupted = menu.ErrInterrupted

// Env is what a session is built from.
type Env struct {
	Config *config.Config
	In     io.Reader
	Out    io.Writer

	// Content defaults to the embedded curriculum.
	Content *curriculum.Curriculum

	// Logger defaults to a no-op.
	Logger *zap.Logger
}

// Session is the dependency context for one run of the trainer.
type Session struct {
	ID      string
	Content *curriculum.Curriculum
	Ledger  *progress.Ledger
	Runner  *quiz.Runner
	UI      *render.Terminal
	In      prompt.Reader
	Menu    menu.Picker

	// Journal is nil when journaling is disabled.
	Journal store.EventRepo

	ExportPath string
	Log        *zap.Logger

	db *store.Store
}

// Open wires storage, the ledger, the runner and the terminal from env and
// restores saved progress. Once ctx is done, pending and later input reads
// fail with ErrInterrupted, so Run should be given a context that outlives
// it for storage calls.
func Open(ctx context.Context, env Env) (*Session, error) {
	cfg := env.Config
	if cfg == nil {
		return nil, errors.New("app: config is required")
	}
	log := env.Logger
	if log == nil {
		log = zap.NewNop()
	}

	content := env.Content
	if content == nil {
		var err error
		if content, err = curriculum.Load(); err != nil {
			return nil, fmt.Errorf("load curriculum: %w", err)
		}
	}

	s := &Session{
		ID:         uuid.NewString(),
		Content:    content,
		ExportPath: filepath.Join(cfg.Storage.DataDir, ExportFile),
	}
	s.Log = log.With(zap.String("session", s.ID))

	var persister store.ProgressStore
	if cfg.NeedsDatabase() {
		path := cfg.JournalPath()
		if err := store.EnsureDir(path); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		db, err := store.Open(path)
		switch {
		case err != nil:
			// An unreadable database must not block training: continue
			// without a journal and keep progress in the plain file.
			s.Log.Warn("journal database unusable, continuing without it",
				zap.String("path", path), zap.Error(err))
			if cfg.Storage.Backend == config.BackendSQLite {
				s.Log.Warn("falling back to file progress store",
					zap.String("path", cfg.ProgressPath()))
			}
		default:
			s.db = db
			if cfg.Storage.Journal {
				s.Journal = db.EventRepo()
			}
			if cfg.Storage.Backend == config.BackendSQLite {
				persister = db.ProgressStore(cfg.Storage.SnapshotKeep)
			}
		}
	}
	if persister == nil {
		persister = store.NewFileStore(cfg.ProgressPath())
	}

	s.UI = render.New(env.Out, cfg.UI.Color)
	s.In = prompt.New(env.In, env.Out, cfg.UI.Color).WithContext(ctx)
	s.Menu = menu.New(cfg.UI.Menu, s.In, env.In, env.Out, cfg.UI.Color)

	ledger, err := progress.New(progress.Options{
		Levels:    content.Levels,
		Catalog:   content.Catalog,
		Persister: persister,
		Notifier:  s.UI,
		Journal:   s.Journal,
		Logger:    s.Log.Named("progress"),
	})
	if err != nil {
		s.Close()
		return nil, err
	}
	ledger.Load(ctx)
	s.Ledger = ledger

	s.Runner = quiz.NewRunner(quiz.Options{
		Ledger:    ledger,
		Sink:      s.UI,
		Input:     s.In,
		Journal:   s.Journal,
		NoShuffle: !cfg.Quiz.Shuffle,
		Logger:    s.Log.Named("quiz"),
	})

	s.Log.Info("session opened",
		zap.String("backend", cfg.Storage.Backend),
		zap.Bool("journal", s.Journal != nil),
		zap.Int("xp", ledger.State().XP))
	return s, nil
}

// Close releases the journal database.
func (s *Session) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// WriteReference exports the cheatsheet to path, creating its directory.
func WriteReference(c *curriculum.Curriculum, path string) error {
	if err := store.EnsureDir(path); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := c.ExportReference(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
