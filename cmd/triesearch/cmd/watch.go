package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Aman-CERP/triesearch/internal/dataset"
	"github.com/Aman-CERP/triesearch/internal/watcher"
	"github.com/Aman-CERP/triesearch/pkg/triesearch"
)

// watchReload reloads files into l whenever one of them changes. Every reload
// is reported on the returned channel, which is closed when ctx ends.
func watchReload(ctx context.Context, files []string, l *triesearch.Locked[dataset.Record]) (<-chan string, error) {
	w, err := watcher.New(files, watcher.DefaultOptions())
	if err != nil {
		return nil, err
	}

	status := make(chan string, 4)
	report := func(s string) {
		select {
		case status <- s:
		default:
		}
	}

	var unsubscribe func()
	_ = l.Do(func(e *engine) error {
		unsubscribe = e.Subscribe(func(ev triesearch.Event[dataset.Record]) {
			if ev.Action == triesearch.ActionAdd {
				report(fmt.Sprintf("reloaded %d records", ev.Engine.Len()))
			}
		})
		return nil
	})

	go func() {
		_ = w.Run(ctx)
	}()

	go func() {
		defer close(status)
		defer func() { _ = l.Do(func(*engine) error { unsubscribe(); return nil }) }()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-w.Errors():
				if ok {
					slog.Warn("watch_error", slog.String("error", err.Error()))
				}
			case batch, ok := <-w.Batches():
				if !ok {
					return
				}
				slog.Info("watch_reload", slog.Int("changed", len(batch)))
				if err := reload(ctx, files, l); err != nil {
					slog.Warn("watch_reload_failed", slog.String("error", err.Error()))
					report("reload failed: " + err.Error())
				}
			}
		}
	}()

	return status, nil
}

// reload replaces the engine contents with the records in files. The engine
// is left untouched when loading fails.
func reload(ctx context.Context, files []string, l *triesearch.Locked[dataset.Record]) error {
	records, err := dataset.NewLoader().Load(ctx, files...)
	if err != nil {
		return err
	}
	return l.Do(func(e *engine) error {
		if err := e.Clear(); err != nil {
			return err
		}
		return e.Add(records...)
	})
}
