// Package watcher reports changes to a single FAQ file.
//
// The primary strategy is fsnotify on the file's parent directory, filtered by
// base name, so editors that save by writing a temp file and renaming it over
// the original are still seen. Where fsnotify is unavailable (network mounts,
// some container volumes) the file is polled instead.
//
// Bursts of events are coalesced by a debouncer before the callback runs.
//
// Usage:
//
//	w := watcher.New(watcher.DefaultOptions())
//	err := w.Watch(ctx, "faqs.json", func(ctx context.Context, ev watcher.FileEvent) {
//	    _ = engine.Reload(ctx)
//	})
package watcher
