// Package config provides configuration types and defaults for hollow.
package config

import "os"

// EditorConfig holds text editing options.
type EditorConfig struct {
	// TextWidth is the column the body is wrapped and centered to.
	TextWidth int `mapstructure:"text_width"`
	// TabWidth is how many columns a tab renders as.
	TabWidth int `mapstructure:"tab_width"`
	// AutoSaveSeconds is the autosave interval. 0 disables autosave.
	AutoSaveSeconds int `mapstructure:"auto_save_seconds"`
}

// DisplayConfig holds status line and layout options.
type DisplayConfig struct {
	// ShowStatus makes the status line visible at startup.
	ShowStatus bool `mapstructure:"show_status"`
	// StatusTimeout hides a toggled status line after this many
	// seconds. 0 keeps it until toggled again.
	StatusTimeout int `mapstructure:"status_timeout"`
	// LineSpacing is the number of screen rows per text line (1-3).
	LineSpacing int `mapstructure:"line_spacing"`
}

// GoalsConfig holds the writing goal options.
type GoalsConfig struct {
	// DailyGoal is the target words per day. 0 disables goals.
	DailyGoal int `mapstructure:"daily_goal"`
	// ShowProgress includes goal progress in the stats overlay.
	ShowProgress bool `mapstructure:"show_progress"`
	// ShowStreak includes the streak in the stats overlay.
	ShowStreak bool `mapstructure:"show_streak"`
}

// VersionsConfig holds version history options.
type VersionsConfig struct {
	// Enabled turns version recording on.
	Enabled bool `mapstructure:"enabled"`
	// MaxVersions caps the number of records kept per document.
	MaxVersions int `mapstructure:"max_versions"`
	// SaveOnAutosave records a version on autosave as well as on
	// manual save.
	SaveOnAutosave bool `mapstructure:"save_on_autosave"`
}

// Config holds all configuration options for hollow.
type Config struct {
	Editor   EditorConfig   `mapstructure:"editor"`
	Display  DisplayConfig  `mapstructure:"display"`
	Goals    GoalsConfig    `mapstructure:"goals"`
	Versions VersionsConfig `mapstructure:"versions"`
	Debug    bool           `mapstructure:"debug"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Editor: EditorConfig{
			TextWidth:       80,
			TabWidth:        4,
			AutoSaveSeconds: 30,
		},
		Display: DisplayConfig{
			ShowStatus:    false,
			StatusTimeout: 3,
			LineSpacing:   1,
		},
		Goals: GoalsConfig{
			DailyGoal:    0,
			ShowProgress: true,
			ShowStreak:   true,
		},
		Versions: VersionsConfig{
			Enabled:        true,
			MaxVersions:    100,
			SaveOnAutosave: false,
		},
	}
}

// Validate clamps values into their documented ranges. The rest of the
// program only ever sees a validated Config.
func (c Config) Validate() Config {
	c.Editor.TextWidth = clamp(c.Editor.TextWidth, 20, 200)
	c.Editor.TabWidth = clamp(c.Editor.TabWidth, 1, 8)
	if c.Editor.AutoSaveSeconds != 0 {
		// 0 means disabled; anything else stays between 10s and 1h.
		c.Editor.AutoSaveSeconds = clamp(c.Editor.AutoSaveSeconds, 10, 3600)
	}
	c.Display.StatusTimeout = clamp(c.Display.StatusTimeout, 0, 60)
	c.Display.LineSpacing = clamp(c.Display.LineSpacing, 1, 3)
	if c.Versions.MaxVersions < 1 {
		c.Versions.MaxVersions = 1
	}
	if c.Goals.DailyGoal < 0 {
		c.Goals.DailyGoal = 0
	}
	return c
}

// WithOverrides applies command-line overrides on top of the loaded
// configuration. width <= 0 means not set.
func (c Config) WithOverrides(width int, noAutosave bool) Config {
	if width > 0 {
		c.Editor.TextWidth = clamp(width, 20, 200)
	}
	if noAutosave {
		c.Editor.AutoSaveSeconds = 0
	}
	return c
}

// DebugEnabled reports whether debug logging is requested via config or
// the HOLLOW_DEBUG environment variable.
func (c Config) DebugEnabled() bool {
	return c.Debug || os.Getenv("HOLLOW_DEBUG") != ""
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
