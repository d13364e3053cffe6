package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/triesearch/configs"
	"github.com/Aman-CERP/triesearch/internal/config"
	"github.com/Aman-CERP/triesearch/internal/errors"
	"github.com/Aman-CERP/triesearch/internal/output"
)

func newConfigCmd(ro *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage the triesearch configuration files.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (~/.config/triesearch/config.yaml)
  3. Project config (.triesearch.yaml)
  4. Environment variables (TRIESEARCH_*)`,
		Example: `  # Create user config from template
  triesearch config init

  # Create .triesearch.yaml in the current directory
  triesearch config init --project

  # Show effective configuration (merged from all sources)
  triesearch config show

  # Print user config file path
  triesearch config path

  # Undo the last "config init --force"
  triesearch config restore`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd(ro))
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigRestoreCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force, project bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file from a template",
		Long: `Create the user configuration file, or with --project a .triesearch.yaml
in the current directory.

An existing file is left alone unless --force is given, in which case it is
backed up next to the original before being replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := configTarget(project)
			if err != nil {
				return err
			}
			template := configs.UserConfigTemplate
			if project {
				template = configs.ProjectConfigTemplate
			}
			return runConfigInit(output.New(cmd.OutOrStdout()), path, template, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file after backing it up")
	cmd.Flags().BoolVar(&project, "project", false, "Create .triesearch.yaml in the current directory")

	return cmd
}

// configTarget returns the user config path, or the project config path in
// the current directory.
func configTarget(project bool) (string, error) {
	if !project {
		return config.GetUserConfigPath(), nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.IOError("failed to get current directory", err)
	}
	return filepath.Join(cwd, config.ProjectConfigYAML), nil
}

func runConfigInit(out *output.Writer, path, template string, force bool) error {
	exists := false
	if _, err := os.Stat(path); err == nil {
		exists = true
		if !force {
			out.Warning("Configuration already exists")
			out.Statusf("", "Location: %s", path)
			out.Status("", "Use --force to replace it (a backup is kept)")
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.IOError("failed to create config directory", err).WithDetail("path", path)
	}
	backupPath, err := config.WriteFileLocked(path, []byte(template), exists)
	if err != nil {
		return err
	}

	out.Success("Created configuration")
	out.Statusf("", "Location: %s", path)
	if backupPath != "" {
		out.Statusf("", "Backup:   %s", backupPath)
	}
	return nil
}

func newConfigShowCmd(ro *rootOptions) *cobra.Command {
	var (
		jsonOutput bool
		source     string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Show the effective configuration after merging all sources, or a single
source with --source.`,
		Example: `  triesearch config show
  triesearch config show --json
  triesearch config show --source user`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, ro, jsonOutput, source)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&source, "source", "merged", "Config source: merged, user, project, defaults")

	return cmd
}

func runConfigShow(cmd *cobra.Command, ro *rootOptions, jsonOutput bool, source string) error {
	out := output.New(cmd.OutOrStdout())

	var cfg *config.Config
	switch source {
	case "merged":
		var err error
		if cfg, err = ro.config(); err != nil {
			return err
		}

	case "user", "project":
		path := config.GetUserConfigPath()
		if source == "project" {
			cwd, err := os.Getwd()
			if err != nil {
				return errors.IOError("failed to get current directory", err)
			}
			path = filepath.Join(cwd, config.ProjectConfigYAML)
			if _, err := os.Stat(path); err != nil {
				path = filepath.Join(cwd, config.ProjectConfigYML)
			}
		}
		if _, err := os.Stat(path); err != nil {
			out.Warningf("No %s configuration file found", source)
			out.Statusf("", "Expected at: %s", path)
			return nil
		}
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return err
		}

	case "defaults":
		cfg = config.NewConfig()

	default:
		return errors.Newf(errors.ErrCodeInvalidInput, "unknown source %q", source).
			WithSuggestion("use one of: merged, user, project, defaults")
	}

	if jsonOutput {
		return out.JSON(cfg)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.InternalError("failed to marshal config", err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
	return err
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print user config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.GetUserConfigPath())
			return err
		},
	}
}

func newConfigRestoreCmd() *cobra.Command {
	var list, project bool

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore a configuration file from its newest backup",
		Long: `Restore the user configuration, or with --project .triesearch.yaml, from the
newest backup written by "config init --force". The file being replaced is
itself backed up first.`,
		Example: `  triesearch config restore --list
  triesearch config restore --project`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := configTarget(project)
			if err != nil {
				return err
			}
			return runConfigRestore(output.New(cmd.OutOrStdout()), path, list)
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "List backups instead of restoring")
	cmd.Flags().BoolVar(&project, "project", false, "Use .triesearch.yaml in the current directory")

	return cmd
}

func runConfigRestore(out *output.Writer, path string, list bool) error {
	backups, err := config.ListBackups(path)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		out.Warning("No backups found")
		out.Statusf("", "Location: %s", path)
		return nil
	}

	if list {
		out.Header("Backups (newest first)")
		for _, b := range backups {
			out.Status("", b)
		}
		return nil
	}

	if err := config.RestoreBackup(backups[0], path); err != nil {
		return err
	}
	out.Successf("Restored %s", filepath.Base(path))
	out.Statusf("", "From: %s", backups[0])
	return nil
}
