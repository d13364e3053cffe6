// Package cmd provides the CLI commands for triesearch.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/triesearch/internal/config"
	"github.com/Aman-CERP/triesearch/internal/errors"
	"github.com/Aman-CERP/triesearch/internal/logging"
	"github.com/Aman-CERP/triesearch/internal/output"
	"github.com/Aman-CERP/triesearch/internal/profiling"
	"github.com/Aman-CERP/triesearch/internal/ui"
	"github.com/Aman-CERP/triesearch/pkg/version"
)

// rootOptions holds the persistent flags and the state they produce.
type rootOptions struct {
	configPath string
	debug      bool
	logFile    string
	noColor    bool
	profile    profiling.Options

	cfg            *config.Config
	cfgErr         error
	prevLogger     *slog.Logger
	loggingCleanup func()
	profiler       *profiling.Session
}

// NewRootCmd creates the root command for the triesearch CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{})
}

func newRootCmd(ro *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "triesearch",
		Short: "Prefix search over JSON and YAML records",
		Long: `triesearch indexes records from JSON, JSON Lines and YAML files by
their key fields and answers prefix queries against them.

Every word of a key is indexed, so "ann" finds "Anna Berg" and "Joanne Anning".
Accented letters match their plain forms ("Ängel" is found by "ang").`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("triesearch version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&ro.configPath, "config", "c", "", "Config file (default: user config + .triesearch.yaml)")
	cmd.PersistentFlags().BoolVar(&ro.debug, "debug", false, "Enable debug logging to ~/.triesearch/logs/")
	cmd.PersistentFlags().StringVar(&ro.logFile, "log-file", "", "Write JSON logs to this file")
	cmd.PersistentFlags().BoolVar(&ro.noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().StringVar(&ro.profile.CPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&ro.profile.Heap, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&ro.profile.Trace, "profile-trace", "", "Write execution trace to file")

	cmd.PersistentPreRunE = ro.start
	cmd.PersistentPostRunE = ro.stop

	cmd.AddCommand(newSearchCmd(ro))
	cmd.AddCommand(newGetCmd(ro))
	cmd.AddCommand(newStatsCmd(ro))
	cmd.AddCommand(newConfigCmd(ro))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// start loads the configuration, sets up logging and starts any requested
// profiles. A configuration error is kept for the commands that need a valid
// configuration.
func (ro *rootOptions) start(_ *cobra.Command, _ []string) error {
	ro.cfg, ro.cfgErr = ro.loadConfig()

	// Without a log file only warnings reach stderr.
	logCfg := logging.DefaultConfig()
	if ro.cfg != nil {
		logCfg.MaxSizeMB = ro.cfg.Logging.MaxSizeMB
		logCfg.MaxFiles = ro.cfg.Logging.MaxFiles
		if ro.cfg.Logging.File != "" {
			logCfg.FilePath = ro.cfg.Logging.File
			logCfg.Level = ro.cfg.Logging.Level
		}
	}
	if ro.logFile != "" {
		logCfg.FilePath = ro.logFile
		if ro.cfg != nil {
			logCfg.Level = ro.cfg.Logging.Level
		}
	}
	if ro.debug {
		logCfg.Level = "debug"
		if logCfg.FilePath == "" {
			logCfg.FilePath = logging.DefaultLogPath()
		}
	}
	logCfg.WriteToStderr = logCfg.FilePath == ""

	ro.prevLogger = slog.Default()
	cleanup, err := logging.Install(logCfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	ro.loggingCleanup = cleanup

	if ro.debug {
		slog.Info("debug_logging_enabled",
			slog.String("log_file", logCfg.FilePath),
			slog.String("version", version.Short()))
	}
	if ro.cfgErr != nil {
		slog.Debug("config_load_failed", slog.String("error", ro.cfgErr.Error()))
	}

	if ro.profile.Enabled() {
		ro.profiler, err = profiling.Start(ro.profile)
		if err != nil {
			_ = ro.stop(nil, nil)
			return errors.IOError("failed to start profiling", err)
		}
	}
	return nil
}

func (ro *rootOptions) stop(_ *cobra.Command, _ []string) error {
	var profErr error
	if ro.profiler != nil {
		profErr = ro.profiler.Stop()
		ro.profiler = nil
		if profErr == nil {
			slog.Info("profiles_written",
				slog.String("cpu", ro.profile.CPU),
				slog.String("mem", ro.profile.Heap),
				slog.String("trace", ro.profile.Trace))
		}
	}
	if ro.loggingCleanup != nil {
		ro.loggingCleanup()
		ro.loggingCleanup = nil
	}
	if ro.prevLogger != nil {
		slog.SetDefault(ro.prevLogger)
		ro.prevLogger = nil
	}
	if profErr != nil {
		return errors.IOError("failed to write profiles", profErr)
	}
	return nil
}

func (ro *rootOptions) loadConfig() (*config.Config, error) {
	if ro.configPath != "" {
		return config.LoadFile(ro.configPath)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.IOError("failed to get current directory", err)
	}
	return config.Load(cwd)
}

// config returns the loaded configuration or the error loading it.
func (ro *rootOptions) config() (*config.Config, error) {
	if ro.cfg == nil && ro.cfgErr == nil {
		ro.cfg, ro.cfgErr = ro.loadConfig()
	}
	return ro.cfg, ro.cfgErr
}

// uiConfig returns the terminal settings for cmd's output.
func (ro *rootOptions) uiConfig(cmd *cobra.Command) ui.Config {
	return ui.NewConfig(cmd.OutOrStdout(),
		ui.WithNoColor(ro.noColor),
		ui.WithInput(cmd.InOrStdin()))
}

// writer returns an output writer styled for cmd's output.
func (ro *rootOptions) writer(cmd *cobra.Command) *output.Writer {
	return output.NewStyled(cmd.OutOrStdout(), ro.uiConfig(cmd).Styles())
}

// Execute runs the root command and reports errors on stderr.
func Execute(ctx context.Context) error {
	ro := &rootOptions{}
	cmd := newRootCmd(ro)
	err := execute(ctx, cmd, ro)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), errors.FormatForCLI(err))
	}
	return err
}

// execute runs cmd and always tears down logging and profiling. Cobra skips
// PersistentPostRunE when RunE fails.
func execute(ctx context.Context, cmd *cobra.Command, ro *rootOptions) error {
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		attrs := make([]any, 0, 8)
		for k, v := range errors.FormatForLog(err) {
			attrs = append(attrs, slog.Any(k, v))
		}
		slog.Error("command_failed", attrs...)
	}
	if stopErr := ro.stop(nil, nil); err == nil {
		err = stopErr
	}
	return err
}
