package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appDirName = "wxcopilot"

// DefaultDatabasePath returns the default location of the transcript
// database under the XDG state directory.
func DefaultDatabasePath() string {
	return filepath.Join(xdg.StateHome, appDirName, "transcripts.db")
}

// DataDir returns the application data directory.
func DataDir() string {
	return filepath.Join(xdg.DataHome, appDirName)
}

// EnsureParentDir creates the parent directory of path if needed.
func EnsureParentDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
