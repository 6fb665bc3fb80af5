package dirs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "bilicrawl"

// AppName returns the canonical application name for directory paths.
func AppName() string {
	return appName
}

// ConfigDir returns the directory searched for the optional settings file.
// - Linux: $XDG_CONFIG_HOME/bilicrawl or ~/.config/bilicrawl
// - macOS: ~/Library/Application Support/bilicrawl
// - Windows: %AppData%/bilicrawl
func ConfigDir() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", AppName()), nil
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName()), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppName()), nil
	default:
		cfg, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(cfg, AppName()), nil
	}
}

// RunDir returns the directory a run downloads into. Creator runs get their
// own sub-directory named after the uid; everything else lands in base.
func RunDir(base, uid string) string {
	if uid == "" {
		return filepath.Clean(base)
	}
	return filepath.Join(base, uid)
}

// NormalizeBase makes sure a download address ends with a separator.
func NormalizeBase(addr string) string {
	if addr == "" {
		addr = "."
	}
	if addr[len(addr)-1] != '/' && addr[len(addr)-1] != filepath.Separator {
		addr += string(filepath.Separator)
	}
	return addr
}

// Ensure creates the directory if it doesn't exist.
func Ensure(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}
