package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/triesearch/internal/errors"
	"github.com/Aman-CERP/triesearch/internal/metrics"
	"github.com/Aman-CERP/triesearch/internal/profiling"
)

func newStatsCmd(ro *rootOptions) *cobra.Command {
	var (
		data       dataFlags
		jsonOutput bool
		textfile   string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show index statistics for record files",
		Long:  `Load the record files and print the number of records, distinct keys and trie nodes.`,
		Example: `  triesearch stats -d people.json
  triesearch stats -d people.json -d more.yaml --json
  triesearch stats -d people.json --textfile /var/lib/node_exporter/triesearch.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ro.config()
			if err != nil {
				return err
			}
			e, err := loadEngine(cmd.Context(), cmd, cfg, &data)
			if err != nil {
				return err
			}

			stats := e.Stats()
			out := ro.writer(cmd)

			if textfile != "" {
				labels := prometheus.Labels{"dataset": datasetName(data.files)}
				if err := metrics.WriteTextfile(textfile, e, labels); err != nil {
					return errors.IOError("failed to write metrics", err).WithDetail("path", textfile)
				}
				slog.Info("metrics_written", slog.String("path", textfile))
			}
			if jsonOutput {
				return out.JSON(stats)
			}

			out.Header("Index")
			out.Field("files", len(data.files))
			out.Field("records", stats.Records)
			out.Field("keys", stats.Keys)
			out.Field("nodes", stats.Nodes)
			out.Field("key fields", strings.Join(keyNames(e.KeyFields()), ", "))
			if stats.Cache.Enabled {
				out.Field("cache", fmt.Sprintf("%d entries max", stats.Cache.Capacity))
			} else {
				out.Field("cache", "disabled")
			}
			out.Field("heap", profiling.FormatBytes(profiling.HeapInUse()))
			return nil
		},
	}

	data.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output statistics as JSON")
	cmd.Flags().StringVar(&textfile, "textfile", "", "Also write statistics as Prometheus metrics to this file")

	return cmd
}

// datasetName labels exported metrics with the first data file's base name.
func datasetName(files []string) string {
	if len(files) == 0 {
		return ""
	}
	base := filepath.Base(files[0])
	return strings.TrimSuffix(base, filepath.Ext(base))
}
