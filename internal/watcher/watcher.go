// Package watcher triggers exports from a drop folder. A text file
// landing in the inbox starts a pipeline run; an optional sidecar file
// named after it supplies the instruction. Processed inputs move to a
// processed/ subdirectory so they fire exactly once.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fyrsmithlabs/docforge/internal/logging"
	"github.com/fyrsmithlabs/docforge/internal/workflow"
)

var (
	// ErrWatcherFailed indicates the filesystem watcher could not be
	// initialized.
	ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

	// ErrInboxMissing indicates the inbox directory does not exist and
	// could not be created.
	ErrInboxMissing = errors.New("inbox directory unavailable")
)

// sidecarExt marks instruction files. A sidecar never triggers a run
// on its own.
const sidecarExt = ".instruction"

// processedDir holds inputs that already produced an artifact.
const processedDir = "processed"

// Runner executes one export pipeline. Satisfied by
// *workflow.Controller.
type Runner interface {
	Execute(ctx context.Context, req workflow.Request) (*workflow.Result, error)
}

// Config tunes the watcher.
type Config struct {
	// InboxDir is the watched drop folder.
	InboxDir string

	// DefaultInstruction is used when a file has no sidecar.
	DefaultInstruction string

	// MaxConcurrent bounds parallel pipeline runs.
	MaxConcurrent int

	// SettleDelay is how long a file must rest before pickup, so a
	// slow writer is not read mid-copy.
	SettleDelay time.Duration
}

// Watcher runs the drop-folder trigger.
type Watcher struct {
	cfg    Config
	runner Runner
	logger *logging.Logger

	mu     sync.Mutex
	inWork map[string]bool
}

// New validates the configuration and prepares the inbox.
func New(cfg Config, runner Runner, logger *logging.Logger) (*Watcher, error) {
	if cfg.InboxDir == "" {
		return nil, fmt.Errorf("%w: inbox directory is required", ErrInboxMissing)
	}
	if runner == nil {
		return nil, errors.New("watcher: runner is required")
	}
	if logger == nil {
		return nil, errors.New("watcher: logger is required")
	}
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.DefaultInstruction == "" {
		cfg.DefaultInstruction = "Export this as a Word document"
	}

	if err := os.MkdirAll(cfg.InboxDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInboxMissing, err)
	}
	if err := os.MkdirAll(filepath.Join(cfg.InboxDir, processedDir), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInboxMissing, err)
	}

	return &Watcher{
		cfg:    cfg,
		runner: runner,
		logger: logger.Named("watcher"),
		inWork: make(map[string]bool),
	}, nil
}

// Run watches the inbox until the context is canceled. Files already
// sitting in the inbox at startup are processed first.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.cfg.InboxDir); err != nil {
		return fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.cfg.MaxConcurrent)

	w.logger.Info(ctx, "watching inbox",
		zap.String("dir", w.cfg.InboxDir),
		zap.Int("max_concurrent", w.cfg.MaxConcurrent),
	)

	w.sweep(ctx, g)

	for {
		select {
		case <-ctx.Done():
			_ = g.Wait()
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				_ = g.Wait()
				return nil
			}
			w.logger.Trace(ctx, "fs event",
				zap.String("op", event.Op.String()),
				zap.String("path", event.Name),
			)
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.dispatch(ctx, g, event.Name)

		case err, ok := <-fsw.Errors:
			if !ok {
				_ = g.Wait()
				return nil
			}
			w.logger.Warn(ctx, "watcher error", zap.Error(err))
		}
	}
}

// sweep queues inputs that were dropped before the watcher started.
func (w *Watcher) sweep(ctx context.Context, g *errgroup.Group) {
	entries, err := os.ReadDir(w.cfg.InboxDir)
	if err != nil {
		w.logger.Warn(ctx, "inbox sweep failed", zap.Error(err))
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		w.dispatch(ctx, g, filepath.Join(w.cfg.InboxDir, entry.Name()))
	}
}

// dispatch queues one candidate path for processing, once.
func (w *Watcher) dispatch(ctx context.Context, g *errgroup.Group, path string) {
	if !isInput(path) {
		return
	}

	w.mu.Lock()
	if w.inWork[path] {
		w.mu.Unlock()
		return
	}
	w.inWork[path] = true
	w.mu.Unlock()

	g.Go(func() error {
		defer func() {
			w.mu.Lock()
			delete(w.inWork, path)
			w.mu.Unlock()
		}()
		w.process(ctx, path)
		return nil
	})
}

// isInput reports whether a path is an export source. Sidecars and
// anything but plain text are ignored.
func isInput(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return true
	default:
		return false
	}
}

// process runs one export for a dropped file. Failed inputs stay in
// the inbox; a later write retries them.
func (w *Watcher) process(ctx context.Context, path string) {
	if w.cfg.SettleDelay > 0 {
		select {
		case <-time.After(w.cfg.SettleDelay):
		case <-ctx.Done():
			return
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		// Gone before pickup: moved away or already processed.
		if !os.IsNotExist(err) {
			w.logger.Warn(ctx, "cannot read dropped file",
				zap.String("path", path), zap.Error(err))
		}
		return
	}
	if strings.TrimSpace(string(content)) == "" {
		return
	}

	instruction, sidecar := w.readInstruction(ctx, path)
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	w.logger.Info(ctx, "processing dropped file",
		zap.String("path", path),
		zap.Bool("sidecar", sidecar != ""),
	)

	result, err := w.runner.Execute(ctx, workflow.Request{
		SourceText:  string(content),
		Instruction: instruction,
		BaseName:    stem,
	})
	if err != nil {
		w.logger.Error(ctx, "export failed for dropped file",
			zap.String("path", path), zap.Error(err))
		return
	}

	w.logger.Info(ctx, "dropped file exported",
		zap.String("path", path),
		zap.String("artifact", result.ArtifactPath),
		zap.String("kind", result.Kind.String()),
	)
	w.archive(ctx, path)
	if sidecar != "" {
		w.archive(ctx, sidecar)
	}
}

// readInstruction returns the instruction for an input and the sidecar
// path when one was used.
func (w *Watcher) readInstruction(ctx context.Context, path string) (string, string) {
	sidecar := strings.TrimSuffix(path, filepath.Ext(path)) + sidecarExt
	content, err := os.ReadFile(sidecar)
	if err != nil {
		if !os.IsNotExist(err) {
			w.logger.Warn(ctx, "cannot read instruction sidecar",
				zap.String("path", sidecar), zap.Error(err))
		}
		return w.cfg.DefaultInstruction, ""
	}

	instruction := strings.TrimSpace(string(content))
	if instruction == "" {
		return w.cfg.DefaultInstruction, sidecar
	}
	return instruction, sidecar
}

// archive moves a handled input out of the watched directory.
func (w *Watcher) archive(ctx context.Context, path string) {
	dest := filepath.Join(w.cfg.InboxDir, processedDir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		w.logger.Warn(ctx, "cannot archive processed file",
			zap.String("path", path), zap.Error(err))
	}
}
