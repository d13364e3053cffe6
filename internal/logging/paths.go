package logging

import (
	"os"
	"path/filepath"
)

// DefaultLogDir returns the default log directory (~/.triesearch/logs/).
// Falls back to temp directory if home directory is unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".triesearch", "logs")
	}
	return filepath.Join(home, ".triesearch", "logs")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "triesearch.log")
}
