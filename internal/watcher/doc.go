// Package watcher reports changes to a fixed set of record files.
//
// The parent directory of every file is watched with fsnotify so editors that
// save by writing a temporary file and renaming it over the original are seen
// as a modification. Events are debounced and delivered in batches.
//
// Usage:
//
//	w, err := watcher.New([]string{"people.json"}, watcher.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//	go w.Run(ctx)
//
//	for batch := range w.Batches() {
//	    reload(batch)
//	}
package watcher
