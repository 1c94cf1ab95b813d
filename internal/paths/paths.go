package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "nitrocid"

// HomeEnv overrides every location below when set. Tests and portable
// installs point it at a scratch directory.
const HomeEnv = "NITROCID_HOME"

// AppDataDir returns the application data directory for the log and the
// history database. Uses os.UserConfigDir() which returns:
//   - macOS: ~/Library/Application Support
//   - Linux: $XDG_CONFIG_HOME or ~/.config
//   - Windows: %AppData% (roaming)
func AppDataDir() string {
	if home := os.Getenv(HomeEnv); home != "" {
		_ = os.MkdirAll(home, 0700)
		return home
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}

	path := filepath.Join(dir, appDirName)
	_ = os.MkdirAll(path, 0700)

	return path
}

// AppLocalDataDir returns the OS-appropriate local data directory, where
// addon manifests live.
//   - macOS: ~/Library/Application Support/nitrocid
//   - Linux: $XDG_DATA_HOME/nitrocid or ~/.local/share/nitrocid
//   - Windows: %LOCALAPPDATA%\nitrocid
func AppLocalDataDir() string {
	if home := os.Getenv(HomeEnv); home != "" {
		return home
	}

	var base string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		base = filepath.Join(home, "Library", "Application Support")

	case "windows":
		base = os.Getenv("LOCALAPPDATA")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "."
			}
			base = filepath.Join(home, "AppData", "Local")
		}

	default:
		base = os.Getenv("XDG_DATA_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "."
			}
			base = filepath.Join(home, ".local", "share")
		}
	}

	return filepath.Join(base, appDirName)
}

// AddonDir returns the default directory scanned for addon manifests.
func AddonDir() string {
	return filepath.Join(AppLocalDataDir(), "addons")
}

// ConfigFilePath returns the path of the rc file, ~/.nitrocidrc.
func ConfigFilePath() (string, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		return filepath.Join(home, ".nitrocidrc"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".nitrocidrc"), nil
}

// LogFilePath returns the path to the kernel log file.
func LogFilePath() string {
	return filepath.Join(AppDataDir(), "kernel.log")
}

// HistoryDBPath returns the path to the command history database.
func HistoryDBPath() string {
	return filepath.Join(AppDataDir(), "history.db")
}
