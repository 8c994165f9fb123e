// Package paths resolves hollow's on-disk locations. Config follows
// XDG_CONFIG_HOME, durable state (version history, stats) follows
// XDG_DATA_HOME, with the usual dotfile fallbacks.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// ConfigFile returns the default config file location,
// ~/.config/hollow/config.yaml unless XDG_CONFIG_HOME overrides it.
func ConfigFile() string {
	return filepath.Join(configDir(), "config.yaml")
}

func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "hollow")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hollow"
	}
	return filepath.Join(home, ".config", "hollow")
}

// DataDir returns the directory for durable state,
// ~/.local/share/hollow unless XDG_DATA_HOME overrides it.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "hollow")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hollow"
	}
	return filepath.Join(home, ".local", "share", "hollow")
}

// VersionsDir is where the version history store keeps its files.
func VersionsDir() string {
	return filepath.Join(DataDir(), "versions")
}

// StatsDB is the word-count tracking database.
func StatsDB() string {
	return filepath.Join(DataDir(), "stats.db")
}

// DebugLog is where --debug logging goes.
func DebugLog() string {
	return filepath.Join(DataDir(), "debug.log")
}

// ExpandHome turns a leading ~/ into the user's home directory and
// returns an absolute path.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
