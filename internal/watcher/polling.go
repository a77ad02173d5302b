package watcher

import (
	"context"
	"time"
)

// poll stats path every PollInterval and reports differences.
func (w *Watcher) poll(ctx context.Context, path string, d *Debouncer) error {
	prev := stat(path)

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			cur := stat(path)
			if op, changed := diff(prev, cur); changed {
				d.Add(FileEvent{Path: path, Operation: op, Timestamp: time.Now()})
			}
			prev = cur
		}
	}
}

func diff(prev, cur fileSnapshot) (Operation, bool) {
	switch {
	case !prev.exists && cur.exists:
		return OpCreate, true
	case prev.exists && !cur.exists:
		return OpDelete, true
	case cur.exists && (prev.modTime != cur.modTime || prev.size != cur.size):
		return OpModify, true
	default:
		return 0, false
	}
}
