package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const peopleJSON = `[
  {"name": "Anna Berg", "city": "Oslo", "id": 1},
  {"name": "Anne Dahl", "city": "Bergen", "id": 2},
  {"name": "Bjørn Ås", "city": "Tromsø", "id": 3},
  {"name": "Ängel Lund", "city": "Oslo", "id": 4}
]`

// sandbox isolates HOME, the user config and the working directory.
func sandbox(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	t.Setenv("NO_COLOR", "1")
	t.Chdir(dir)
	return dir
}

func writeData(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// run executes the root command and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ro := &rootOptions{}
	cmd := newRootCmd(ro)
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := execute(context.Background(), cmd, ro)
	return stdout.String(), err
}
