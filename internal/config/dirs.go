package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dirs holds the per-platform config and data directories.
type Dirs struct {
	Config string
	Data   string
}

// GetAppDirs resolves and creates the app's config and data directories.
// Config follows os.UserConfigDir; data follows XDG_DATA_HOME on Linux and
// shares the config directory elsewhere.
func GetAppDirs(appName string) (*Dirs, error) {
	configRoot, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}

	d := &Dirs{Config: filepath.Join(configRoot, appName)}

	if runtime.GOOS == "linux" {
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			d.Data = filepath.Join(xdgData, appName)
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			d.Data = filepath.Join(home, ".local", "share", appName)
		}
	} else {
		d.Data = d.Config
	}

	if err := os.MkdirAll(d.Config, 0755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(d.Data, 0755); err != nil {
		return nil, err
	}

	return d, nil
}
