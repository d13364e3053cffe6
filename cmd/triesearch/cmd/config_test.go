package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/triesearch/configs"
	"github.com/Aman-CERP/triesearch/internal/config"
	"github.com/Aman-CERP/triesearch/internal/errors"
)

func TestConfigCmd_HasSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	configCmd, _, err := cmd.Find([]string{"config"})
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, sc := range configCmd.Commands() {
		names[sc.Name()] = true
	}
	assert.True(t, names["init"])
	assert.True(t, names["show"])
	assert.True(t, names["path"])
	assert.True(t, names["restore"])
}

func TestConfigPathCmd_OutputsPath(t *testing.T) {
	dir := sandbox(t)

	out, err := run(t, "config", "path")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".config", "triesearch", "config.yaml")+"\n", out)
}

func TestConfigInitCmd_WritesUserTemplate(t *testing.T) {
	// Given: no user config
	sandbox(t)

	// When
	out, err := run(t, "config", "init")

	// Then: the template is written and is a valid config
	require.NoError(t, err)
	assert.Contains(t, out, "Created configuration")
	data, err := os.ReadFile(config.GetUserConfigPath())
	require.NoError(t, err)
	assert.Equal(t, configs.UserConfigTemplate, string(data))

	_, err = config.LoadFile(config.GetUserConfigPath())
	assert.NoError(t, err)
}

func TestConfigInitCmd_ProjectTemplateIsValid(t *testing.T) {
	dir := sandbox(t)

	_, err := run(t, "config", "init", "--project")
	require.NoError(t, err)

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []any{"name"}, cfg.Keys)
}

func TestConfigInitCmd_ExistingWithoutForce(t *testing.T) {
	sandbox(t)
	path := config.GetUserConfigPath()
	writeData(t, filepath.Dir(path), filepath.Base(path), "version: 1\n")

	out, err := run(t, "config", "init")

	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
	data, _ := os.ReadFile(path)
	assert.Equal(t, "version: 1\n", string(data))
}

func TestConfigInitCmd_ForceKeepsBackup(t *testing.T) {
	// Given: an existing user config
	sandbox(t)
	path := config.GetUserConfigPath()
	writeData(t, filepath.Dir(path), filepath.Base(path), "version: 1\n")

	// When: forcing init
	out, err := run(t, "config", "init", "--force")

	// Then: the template replaced the file and the old content is backed up
	require.NoError(t, err)
	assert.Contains(t, out, "Backup:")
	data, _ := os.ReadFile(path)
	assert.Equal(t, configs.UserConfigTemplate, string(data))

	backups, err := config.ListBackups(path)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	old, _ := os.ReadFile(backups[0])
	assert.Equal(t, "version: 1\n", string(old))
}

func TestConfigShowCmd_Sources(t *testing.T) {
	tests := []struct {
		name    string
		project string
		args    []string
		check   func(t *testing.T, out string)
	}{
		{
			name: "defaults as yaml",
			args: []string{"--source", "defaults"},
			check: func(t *testing.T, out string) {
				var cfg config.Config
				require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
				assert.Equal(t, "or", cfg.Search.Reducer)
			},
		},
		{
			name:    "merged as json",
			project: "version: 1\nsearch:\n  reducer: all\n",
			args:    []string{"--json"},
			check: func(t *testing.T, out string) {
				var cfg config.Config
				require.NoError(t, json.Unmarshal([]byte(out), &cfg))
				assert.Equal(t, "all", cfg.Search.Reducer)
			},
		},
		{
			name: "missing user file",
			args: []string{"--source", "user"},
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "No user configuration file found")
			},
		},
		{
			name:    "project file",
			project: "version: 1\nkeys: [title]\n",
			args:    []string{"--source", "project"},
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "- title")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := sandbox(t)
			if tt.project != "" {
				writeData(t, dir, ".triesearch.yaml", tt.project)
			}

			out, err := run(t, append([]string{"config", "show"}, tt.args...)...)

			require.NoError(t, err)
			tt.check(t, out)
		})
	}
}

func TestConfigShowCmd_UnknownSource(t *testing.T) {
	sandbox(t)

	_, err := run(t, "config", "show", "--source", "nowhere")

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))
}

func TestConfigShowCmd_InvalidConfigFails(t *testing.T) {
	dir := sandbox(t)
	writeData(t, dir, ".triesearch.yaml", "version: 1\nsearch:\n  reducer: xor\n")

	_, err := run(t, "config", "show")

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err))
}

func TestConfigRestoreCmd_UndoesForcedInit(t *testing.T) {
	// Given: a user config replaced by a forced init
	sandbox(t)
	path := config.GetUserConfigPath()
	writeData(t, filepath.Dir(path), filepath.Base(path), "version: 1\nkeys: [city]\n")
	_, err := run(t, "config", "init", "--force")
	require.NoError(t, err)

	// When: listing then restoring
	listed, err := run(t, "config", "restore", "--list")
	require.NoError(t, err)
	out, err := run(t, "config", "restore")

	// Then: the original content is back
	require.NoError(t, err)
	assert.Contains(t, listed, config.BackupSuffix)
	assert.Contains(t, out, "Restored config.yaml")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "version: 1\nkeys: [city]\n", string(data))
}

func TestConfigRestoreCmd_NoBackups(t *testing.T) {
	sandbox(t)

	out, err := run(t, "config", "restore", "--project")

	require.NoError(t, err)
	assert.Contains(t, out, "No backups found")
}
