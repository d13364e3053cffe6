package cmd

import (
	"github.com/spf13/cobra"
)

func newGetCmd(ro *rootOptions) *cobra.Command {
	var (
		data       dataFlags
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "get <key>...",
		Short: "Look up records by exact key",
		Long: `Print the records whose key field value equals one of the keys exactly.
No prefix matching, splitting or case folding is applied. "*" selects every
record.

Examples:
  triesearch get -d people.json "Anna Berg"
  triesearch get -d people.json --key id 17 42 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ro.config()
			if err != nil {
				return err
			}
			e, err := loadEngine(cmd.Context(), cmd, cfg, &data)
			if err != nil {
				return err
			}

			records := e.LookupAll(args...)
			out := ro.writer(cmd)
			if jsonOutput {
				return out.JSON(records)
			}
			out.Results(describeAll(records, e.KeyFields()), nil)
			return nil
		},
	}

	data.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output records as JSON")

	return cmd
}
