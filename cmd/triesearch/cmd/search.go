package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/triesearch/internal/dataset"
	"github.com/Aman-CERP/triesearch/internal/errors"
	"github.com/Aman-CERP/triesearch/internal/ui"
	"github.com/Aman-CERP/triesearch/pkg/keyfield"
	"github.com/Aman-CERP/triesearch/pkg/triesearch"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	data        dataFlags
	limit       int
	reducer     string
	jsonOutput  bool
	interactive bool
	watch       bool
}

func newSearchCmd(ro *rootOptions) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <phrase>...",
		Short: "Prefix search over record files",
		Long: `Search records by word prefixes of their key fields.

Each argument is a phrase; the words of a phrase are split like the keys
were. How words and phrases combine is chosen by --reducer:
  or     any word of any phrase matches (default)
  union  any word within a phrase, every phrase
  all    every word of every phrase

Examples:
  triesearch search -d people.json ann
  triesearch search -d people.json -d more.yaml "ann oslo" --reducer all
  triesearch search -d people.jsonl --key name --key address.city ber --json
  triesearch search -d people.json -i --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd, ro, args, opts)
		},
	}

	opts.data.register(cmd)
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", -1, "Maximum number of results, 0 for all (default: search.default_limit)")
	cmd.Flags().StringVarP(&opts.reducer, "reducer", "r", "", "How words combine: or, union, all (default: search.reducer)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output matching records as JSON")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Search as you type")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "With --interactive, reload record files when they change")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, ro *rootOptions, phrases []string, opts searchOptions) error {
	cfg, err := ro.config()
	if err != nil {
		return err
	}

	if len(phrases) == 0 && !opts.interactive {
		return errors.ValidationError("no search phrase given", nil).
			WithSuggestion("pass one or more phrases, or use --interactive")
	}

	reducerName := opts.reducer
	if reducerName == "" {
		reducerName = cfg.Search.Reducer
	}
	if _, ok := triesearch.ReducerByName[dataset.Record](reducerName); !ok {
		return errors.Newf(errors.ErrCodeInvalidInput, "unknown reducer %q", reducerName).
			WithSuggestion("use one of: or, union, all")
	}

	limit := opts.limit
	if limit < 0 {
		limit = cfg.Search.DefaultLimit
	}

	e, err := loadEngine(ctx, cmd, cfg, &opts.data)
	if err != nil {
		return err
	}

	locked := triesearch.NewLocked(e)
	search := func(phrases []string) ([]dataset.Record, error) {
		// reducers keep state, so every search gets its own
		reducer, _ := triesearch.ReducerByName[dataset.Record](reducerName)
		return locked.Search(phrases, triesearch.SearchOptions[dataset.Record]{
			Reducer: reducer,
			Limit:   limit,
		})
	}

	if opts.interactive {
		return runInteractive(ctx, cmd, ro, e.KeyFields(), search, func(ctx context.Context) (<-chan string, error) {
			if !opts.watch {
				return nil, nil
			}
			return watchReload(ctx, opts.data.files, locked)
		})
	}

	slog.Info("search_started",
		slog.Int("phrases", len(phrases)),
		slog.String("reducer", reducerName),
		slog.Int("limit", limit))

	results, err := search(phrases)
	if err != nil {
		return err
	}
	slog.Info("search_complete", slog.Int("results", len(results)))

	out := ro.writer(cmd)
	if opts.jsonOutput {
		return out.JSON(results)
	}

	var words []string
	for _, p := range phrases {
		words = append(words, strings.Fields(p)...)
	}
	out.Results(describeAll(results, e.KeyFields()), words)
	return nil
}

func runInteractive(ctx context.Context, cmd *cobra.Command, ro *rootOptions, keyFields []keyfield.KeyField,
	search func([]string) ([]dataset.Record, error),
	watch func(context.Context) (<-chan string, error)) error {
	uiCfg := ro.uiConfig(cmd)
	if !uiCfg.Interactive() {
		return errors.ValidationError("interactive search needs a terminal", nil).
			WithSuggestion("pass phrases as arguments instead")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	updates, err := watch(ctx)
	if err != nil {
		return err
	}

	title := "triesearch • " + strings.Join(keyNames(keyFields), ", ")
	return ui.RunInteractive(ctx, uiCfg, title, func(query string) ([]string, error) {
		results, err := search([]string{query})
		if err != nil {
			return nil, err
		}
		return describeAll(results, keyFields), nil
	}, updates)
}

func keyNames(keyFields []keyfield.KeyField) []string {
	names := make([]string, 0, len(keyFields))
	for _, kf := range keyFields {
		names = append(names, kf.String())
	}
	return names
}
