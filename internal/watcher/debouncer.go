package watcher

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid events for the watched file. Each Add restarts
// the window; when it expires one event is emitted. Operations merge as:
//   - CREATE + MODIFY = CREATE
//   - CREATE + DELETE = nothing
//   - MODIFY + DELETE = DELETE
//   - DELETE/RENAME + CREATE = MODIFY (file was replaced)
type Debouncer struct {
	window  time.Duration
	mu      sync.Mutex
	pending *FileEvent
	timer   *time.Timer
	output  chan FileEvent
	stopped bool
}

// NewDebouncer creates a debouncer with the given window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window: window,
		output: make(chan FileEvent, 1),
	}
}

// Add records an event and restarts the window.
func (d *Debouncer) Add(ev FileEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if d.pending == nil {
		d.pending = &ev
	} else if op, ok := merge(d.pending.Operation, ev.Operation); ok {
		ev.Operation = op
		d.pending = &ev
	} else {
		d.pending = nil
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

func merge(first, next Operation) (Operation, bool) {
	switch first {
	case OpCreate:
		switch next {
		case OpModify:
			return OpCreate, true
		case OpDelete, OpRename:
			return 0, false
		}
	case OpDelete, OpRename:
		if next == OpCreate {
			return OpModify, true
		}
	}
	return next, true
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || d.pending == nil {
		return
	}
	ev := *d.pending
	d.pending = nil

	// A reload reads the latest content, so an unconsumed event already covers this one.
	select {
	case d.output <- ev:
	default:
	}
}

// Output returns the channel of debounced events.
func (d *Debouncer) Output() <-chan FileEvent {
	return d.output
}

// Stop stops the debouncer and closes the output channel.
// Safe to call multiple times.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	close(d.output)
}
