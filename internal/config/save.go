package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/hollow/internal/log"
)

// DefaultConfigTemplate returns the commented YAML written on first run.
func DefaultConfigTemplate() string {
	return `# hollow configuration
# https://github.com/zjrosen/hollow

editor:
  # Column the body wraps and centers to (20-200).
  text_width: 80
  # Rendered tab width (1-8).
  tab_width: 4
  # Autosave interval in seconds. 0 disables, otherwise 10-3600.
  auto_save_seconds: 30

display:
  # Show the status line at startup.
  show_status: false
  # Seconds before a toggled status line hides itself. 0 keeps it.
  status_timeout: 3
  # Screen rows per text line (1-3).
  line_spacing: 1

goals:
  # Target words per day. 0 disables goal tracking.
  daily_goal: 0
  show_progress: true
  show_streak: true

versions:
  # Record document versions on save.
  enabled: true
  # Versions kept per document before the oldest are evicted.
  max_versions: 100
  # Also record a version on autosave.
  save_on_autosave: false
`
}

// WriteDefaultConfig writes the default config template to configPath,
// atomically, creating parent directories as needed.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, err, "creating config directory", "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".config.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.WriteString(DefaultConfigTemplate()); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
