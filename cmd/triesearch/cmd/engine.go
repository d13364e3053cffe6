package cmd

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/triesearch/internal/config"
	"github.com/Aman-CERP/triesearch/internal/dataset"
	"github.com/Aman-CERP/triesearch/internal/errors"
	"github.com/Aman-CERP/triesearch/internal/output"
	"github.com/Aman-CERP/triesearch/internal/ui"
	"github.com/Aman-CERP/triesearch/pkg/keyfield"
	"github.com/Aman-CERP/triesearch/pkg/triesearch"
)

// engine is the record engine the CLI commands search.
type engine = triesearch.Engine[dataset.Record]

// dataFlags is shared by the commands that load record files.
type dataFlags struct {
	files []string
	keys  []string
	jobs  int
}

func (f *dataFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.files, "data", "d", nil, "Record file to load: .json, .jsonl, .yaml (repeatable)")
	cmd.Flags().StringSliceVarP(&f.keys, "key", "k", nil, "Key field to index, dotted for nested paths (overrides config keys)")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", 0, "Files to decode in parallel (default: number of CPUs)")
	_ = cmd.MarkFlagRequired("data")
}

// keyFields returns the key fields from --key, or from the configuration.
func (f *dataFlags) keyFields(cfg *config.Config) ([]keyfield.KeyField, error) {
	if len(f.keys) == 0 {
		return cfg.KeyFields()
	}
	out := make([]keyfield.KeyField, 0, len(f.keys))
	for _, k := range f.keys {
		kf, err := keyfield.ParseDotted(k)
		if err != nil {
			return nil, errors.New(errors.ErrCodeKeyFieldInvalid, "invalid --key", err).
				WithDetail("key", k)
		}
		out = append(out, kf)
	}
	return out, nil
}

// loadEngine loads the record files into a new engine configured by cfg.
func loadEngine(ctx context.Context, cmd *cobra.Command, cfg *config.Config, f *dataFlags) (*engine, error) {
	start := time.Now()

	keyFields, err := f.keyFields(cfg)
	if err != nil {
		return nil, err
	}
	e, err := triesearch.New[dataset.Record](keyFields, triesearch.WithOptions(cfg.EngineOptions()))
	if err != nil {
		return nil, err
	}

	var loaderOpts []dataset.LoaderOption
	if f.jobs > 0 {
		loaderOpts = append(loaderOpts, dataset.WithParallelism(f.jobs))
	}
	if len(f.files) > 1 && ui.IsTTY(cmd.ErrOrStderr()) {
		progress := output.New(cmd.ErrOrStderr())
		loaderOpts = append(loaderOpts, dataset.WithProgress(func(done, total int, path string) {
			progress.Progress(done, total, path)
		}))
	}

	records, err := dataset.NewLoader(loaderOpts...).Load(ctx, f.files...)
	if err != nil {
		return nil, err
	}
	if err := e.Add(records...); err != nil {
		return nil, err
	}

	slog.Info("engine_loaded",
		slog.Int("files", len(f.files)),
		slog.Int("records", e.Len()),
		slog.Int("nodes", e.Size()),
		slog.Duration("duration", time.Since(start)))
	return e, nil
}

// describe renders a record as its key field values.
func describe(rec dataset.Record, keyFields []keyfield.KeyField) string {
	parts := make([]string, 0, len(keyFields))
	for _, kf := range keyFields {
		s, ok, err := keyfield.ResolveString(rec, kf)
		if err != nil || !ok || s == "" {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "  ")
}

func describeAll(recs []dataset.Record, keyFields []keyfield.KeyField) []string {
	lines := make([]string, 0, len(recs))
	for _, r := range recs {
		lines = append(lines, describe(r, keyFields))
	}
	return lines
}
