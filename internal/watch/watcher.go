// Package watch classifies and assigns files as they arrive in an inbox directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/jdsort/internal/assign"
	"github.com/ppiankov/jdsort/internal/extract"
	"github.com/ppiankov/jdsort/internal/model"
	"github.com/ppiankov/jdsort/internal/validate"
)

// ErrAlreadyWatching is returned when another watcher holds the inbox lock.
var ErrAlreadyWatching = errors.New("inbox is already being watched")

// Classifier proposes a placement for a file
type Classifier interface {
	Classify(ctx context.Context, file model.FileDescriptor) model.ClassificationSuggestion
}

// Store loads the target structure and records assignments
type Store interface {
	LoadStructure(ctx context.Context, id string) (*model.Structure, error)
	SaveAssignment(ctx context.Context, structureID, filePath string, assignment model.Assignment) error
}

// Config describes what to watch
type Config struct {
	Inbox       string
	StructureID string
	Schedule    string // cron expression for re-validation; empty disables it
}

// Event is one processed file
type Event struct {
	File       model.FileDescriptor
	Suggestion model.ClassificationSuggestion
	Assignment model.Assignment
}

// Option configures a Watcher
type Option func(*Watcher)

// WithLogger sets the watcher logger
func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// OnAssigned registers a callback invoked after each file is assigned
func OnAssigned(fn func(Event)) Option {
	return func(w *Watcher) {
		w.onAssigned = fn
	}
}

func withSchedule(s cron.Schedule) Option {
	return func(w *Watcher) {
		w.schedule = s
	}
}

func onReady(fn func()) Option {
	return func(w *Watcher) {
		w.ready = fn
	}
}

func onRevalidated(fn func(model.ValidationReport)) Option {
	return func(w *Watcher) {
		w.revalidated = fn
	}
}

// Watcher assigns new inbox files against a stored structure
type Watcher struct {
	cfg        Config
	classifier Classifier
	store      Store
	validator  *validate.Validator
	schedule   cron.Schedule
	logger     *zap.Logger
	now        func() time.Time

	onAssigned  func(Event)
	ready       func()
	revalidated func(model.ValidationReport)
}

// New creates a watcher. An invalid cron schedule is an error.
func New(cfg Config, classifier Classifier, store Store, opts ...Option) (*Watcher, error) {
	if cfg.Inbox == "" {
		return nil, errors.New("inbox directory is required")
	}
	if cfg.StructureID == "" {
		return nil, errors.New("structure ID is required")
	}

	w := &Watcher{
		cfg:        cfg,
		classifier: classifier,
		store:      store,
		validator:  validate.NewValidator(),
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	if expr := strings.TrimSpace(cfg.Schedule); expr != "" {
		schedule, err := cron.ParseStandard(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid schedule %q: %w", expr, err)
		}
		w.schedule = schedule
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// LockPath is the file locked while the inbox is watched
func (w *Watcher) LockPath() string {
	return filepath.Join(w.cfg.Inbox, extract.LockFileName)
}

// Run watches the inbox until ctx is cancelled. Only one watcher per inbox
// may run at a time; a second one fails with ErrAlreadyWatching.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.cfg.Inbox)
	if err != nil {
		return fmt.Errorf("inbox: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("inbox %s is not a directory", w.cfg.Inbox)
	}

	lock := flock.New(w.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrAlreadyWatching, w.cfg.Inbox)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			w.logger.Warn("failed to release inbox lock", zap.Error(err))
		}
	}()

	if _, err := w.store.LoadStructure(ctx, w.cfg.StructureID); err != nil {
		return fmt.Errorf("load structure: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()
	if err := fsw.Add(w.cfg.Inbox); err != nil {
		return fmt.Errorf("watch %s: %w", w.cfg.Inbox, err)
	}

	w.logger.Info("watching inbox",
		zap.String("inbox", w.cfg.Inbox),
		zap.String("structure", w.cfg.StructureID),
		zap.String("schedule", w.cfg.Schedule),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.watchLoop(gctx, fsw)
	})
	if w.schedule != nil {
		g.Go(func() error {
			return w.revalidateLoop(gctx)
		})
	}
	if w.ready != nil {
		w.ready()
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		w.logger.Info("watcher stopped", zap.String("inbox", w.cfg.Inbox))
		return nil
	}
	return err
}

func (w *Watcher) watchLoop(ctx context.Context, fsw *fsnotify.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return errors.New("watcher event channel closed")
			}
			if !event.Has(fsnotify.Create) || w.ignored(event.Name) {
				continue
			}
			if _, err := w.ProcessFile(ctx, event.Name); err != nil {
				w.logger.Warn("could not assign file", zap.String("path", event.Name), zap.Error(err))
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.New("watcher error channel closed")
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) ignored(path string) bool {
	base := filepath.Base(path)
	return base == extract.LockFileName || strings.HasPrefix(base, ".")
}

// ProcessFile classifies one file, assigns it against the stored structure
// and records the assignment.
func (w *Watcher) ProcessFile(ctx context.Context, path string) (*Event, error) {
	file, err := extract.Describe(path)
	if err != nil {
		return nil, err
	}

	suggestion := w.classifier.Classify(ctx, file)

	structure, err := w.store.LoadStructure(ctx, w.cfg.StructureID)
	if err != nil {
		return nil, fmt.Errorf("load structure: %w", err)
	}
	assignment := assign.Assign(file, *structure)

	if err := w.store.SaveAssignment(ctx, w.cfg.StructureID, file.Path, assignment); err != nil {
		return nil, fmt.Errorf("save assignment: %w", err)
	}

	w.logger.Info("file assigned",
		zap.String("path", file.Path),
		zap.String("suggested", suggestion.Category),
		zap.Float64("suggestion_confidence", suggestion.Confidence),
		zap.String("source", string(suggestion.Source)),
		zap.String("item", assignment.ItemNumber),
		zap.Float64("confidence", assignment.Confidence),
	)

	event := &Event{File: file, Suggestion: suggestion, Assignment: assignment}
	if w.onAssigned != nil {
		w.onAssigned(*event)
	}
	return event, nil
}

func (w *Watcher) revalidateLoop(ctx context.Context) error {
	for {
		now := w.now()
		next := w.schedule.Next(now)
		timer := time.NewTimer(next.Sub(now))
		w.logger.Debug("next re-validation", zap.Time("at", next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if _, err := w.Revalidate(ctx); err != nil {
			w.logger.Warn("re-validation failed", zap.Error(err))
		}
	}
}

// Revalidate validates the stored structure and logs every finding
func (w *Watcher) Revalidate(ctx context.Context) (model.ValidationReport, error) {
	structure, err := w.store.LoadStructure(ctx, w.cfg.StructureID)
	if err != nil {
		return model.ValidationReport{}, fmt.Errorf("load structure: %w", err)
	}

	report := w.validator.Validate(*structure)
	for _, e := range report.Errors {
		w.logger.Warn("validation error", zap.String("kind", e.Kind), zap.String("message", e.Message))
	}
	for _, warning := range report.Warnings {
		w.logger.Info("validation warning", zap.String("kind", warning.Kind), zap.String("message", warning.Message))
	}
	w.logger.Info("structure re-validated",
		zap.String("structure", w.cfg.StructureID),
		zap.Bool("valid", report.IsValid),
		zap.Int("errors", len(report.Errors)),
		zap.Int("warnings", len(report.Warnings)),
	)

	if w.revalidated != nil {
		w.revalidated(report)
	}
	return report, nil
}
