package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Operation represents a file system operation type.
type Operation int

const (
	// OpCreate indicates the file appeared.
	OpCreate Operation = iota
	// OpModify indicates the file content changed.
	OpModify
	// OpDelete indicates the file was removed.
	OpDelete
	// OpRename indicates the file was moved away.
	OpRename
)

// String returns a human-readable representation of the operation.
func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpModify:
		return "MODIFY"
	case OpDelete:
		return "DELETE"
	case OpRename:
		return "RENAME"
	default:
		return "UNKNOWN"
	}
}

// FileEvent is a coalesced change to the watched file.
type FileEvent struct {
	// Path is the absolute path of the watched file.
	Path      string
	Operation Operation
	Timestamp time.Time
}

// Handler is invoked once per debounced change.
type Handler func(ctx context.Context, ev FileEvent)

// Options configures the watcher behavior.
type Options struct {
	// Debounce is the quiet period before a change is reported.
	// Default: 500ms
	Debounce time.Duration

	// PollInterval is the stat interval in polling mode.
	// Default: 2s
	PollInterval time.Duration

	// ForcePolling skips fsnotify.
	ForcePolling bool

	Logger *slog.Logger
}

// DefaultOptions returns the default watcher options.
func DefaultOptions() Options {
	return Options{
		Debounce:     500 * time.Millisecond,
		PollInterval: 2 * time.Second,
	}
}

// WithDefaults returns options with defaults applied for zero values.
func (o Options) WithDefaults() Options {
	defaults := DefaultOptions()
	if o.Debounce <= 0 {
		o.Debounce = defaults.Debounce
	}
	if o.PollInterval <= 0 {
		o.PollInterval = defaults.PollInterval
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Watcher watches one file.
type Watcher struct {
	opts Options
}

// New creates a watcher.
func New(opts Options) *Watcher {
	return &Watcher{opts: opts.WithDefaults()}
}

// Watch blocks until ctx is cancelled, calling fn after each burst of changes
// to path. fn runs on the watcher's goroutine, so slow handlers delay later
// events rather than overlapping. Cancellation is not an error.
func (w *Watcher) Watch(ctx context.Context, path string, fn Handler) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve absolute path: %w", err)
	}

	d := NewDebouncer(w.opts.Debounce)
	defer d.Stop()

	errCh := make(chan error, 1)
	go func() {
		if w.opts.ForcePolling {
			errCh <- w.poll(ctx, absPath, d)
			return
		}
		err := w.notify(ctx, absPath, d)
		if err != nil && ctx.Err() == nil && isSetupError(err) {
			w.opts.Logger.Warn("fsnotify unavailable, falling back to polling",
				slog.String("path", absPath),
				slog.String("error", err.Error()))
			err = w.poll(ctx, absPath, d)
		}
		errCh <- err
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if ctx.Err() != nil {
				return nil
			}
			return err
		case ev, ok := <-d.Output():
			if !ok {
				return nil
			}
			w.opts.Logger.Debug("faq file changed",
				slog.String("path", ev.Path),
				slog.String("op", ev.Operation.String()))
			fn(ctx, ev)
		}
	}
}

type setupError struct{ err error }

func (e setupError) Error() string { return e.err.Error() }
func (e setupError) Unwrap() error { return e.err }

func isSetupError(err error) bool {
	var se setupError
	return errors.As(err, &se)
}

// notify watches the parent directory and forwards events for path.
func (w *Watcher) notify(ctx context.Context, path string, d *Debouncer) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return setupError{fmt.Errorf("create fsnotify watcher: %w", err)}
	}
	defer fsw.Close()

	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		return setupError{fmt.Errorf("watch %s: %w", dir, err)}
	}
	base := filepath.Base(path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if op, ok := convert(event.Op); ok {
				d.Add(FileEvent{Path: path, Operation: op, Timestamp: time.Now()})
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			// Non-fatal; the watch stays active.
			w.opts.Logger.Warn("file watcher error", slog.String("error", err.Error()))
		}
	}
}

func convert(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpModify, true
	case op.Has(fsnotify.Remove):
		return OpDelete, true
	case op.Has(fsnotify.Rename):
		return OpRename, true
	default:
		// Chmod only.
		return 0, false
	}
}

// fileSnapshot is the polled state of the file.
type fileSnapshot struct {
	exists  bool
	modTime time.Time
	size    int64
}

func stat(path string) fileSnapshot {
	info, err := os.Stat(path)
	if err != nil {
		return fileSnapshot{}
	}
	return fileSnapshot{exists: true, modTime: info.ModTime(), size: info.Size()}
}
