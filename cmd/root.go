package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/hollow/internal/config"
	"github.com/zjrosen/hollow/internal/dispatch"
	"github.com/zjrosen/hollow/internal/history"
	"github.com/zjrosen/hollow/internal/log"
	"github.com/zjrosen/hollow/internal/paths"
	"github.com/zjrosen/hollow/internal/pubsub"
	"github.com/zjrosen/hollow/internal/stats"
	"github.com/zjrosen/hollow/internal/ui"
	"github.com/zjrosen/hollow/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "hollow <file>",
	Short:   "A hollowed-out writing space in the terminal",
	Long:    `A full-screen modal editor for distraction-free prose, with autosave, version history, and daily word goals.`,
	Version: version,
	Args:    cobra.ExactArgs(1),
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/hollow/config.yaml)")
	rootCmd.Flags().IntP("width", "w", 0,
		"override text width for this session")
	rootCmd.Flags().Bool("no-autosave", false,
		"disable autosave for this session")
	rootCmd.Flags().Bool("debug", false,
		"write a debug log")

	_ = viper.BindPFlag("debug", rootCmd.Flags().Lookup("debug"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("editor.text_width", defaults.Editor.TextWidth)
	viper.SetDefault("editor.tab_width", defaults.Editor.TabWidth)
	viper.SetDefault("editor.auto_save_seconds", defaults.Editor.AutoSaveSeconds)
	viper.SetDefault("display.show_status", defaults.Display.ShowStatus)
	viper.SetDefault("display.status_timeout", defaults.Display.StatusTimeout)
	viper.SetDefault("display.line_spacing", defaults.Display.LineSpacing)
	viper.SetDefault("goals.daily_goal", defaults.Goals.DailyGoal)
	viper.SetDefault("goals.show_progress", defaults.Goals.ShowProgress)
	viper.SetDefault("goals.show_streak", defaults.Goals.ShowStreak)
	viper.SetDefault("versions.enabled", defaults.Versions.Enabled)
	viper.SetDefault("versions.max_versions", defaults.Versions.MaxVersions)
	viper.SetDefault("versions.save_on_autosave", defaults.Versions.SaveOnAutosave)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigFile(paths.ConfigFile())
	}

	if err := viper.ReadInConfig(); err != nil {
		// First run: write the commented default config and carry on
		// with defaults either way.
		if cfgFile == "" && os.IsNotExist(err) {
			if writeErr := config.WriteDefaultConfig(paths.ConfigFile()); writeErr == nil {
				_ = viper.ReadInConfig()
			}
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runApp(cmd *cobra.Command, args []string) error {
	width, _ := cmd.Flags().GetInt("width")
	noAutosave, _ := cmd.Flags().GetBool("no-autosave")
	cfg = cfg.Validate().WithOverrides(width, noAutosave)

	if cfg.DebugEnabled() {
		cleanup, err := log.InitWithTeaLog(paths.DebugLog(), "hollow")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer cleanup()
	}

	docPath := paths.ExpandHome(args[0])

	deps := dispatch.Deps{}

	if cfg.Versions.Enabled {
		store, err := history.Open(paths.VersionsDir(), cfg.Versions.MaxVersions)
		if err != nil {
			return fmt.Errorf("opening version store: %w", err)
		}
		deps.Store = store
	}

	tracker, err := stats.Open(paths.StatsDB(), cfg.Goals.DailyGoal)
	if err != nil {
		return fmt.Errorf("opening stats database: %w", err)
	}
	defer func() { _ = tracker.Close() }()
	deps.Tracker = tracker

	broker := pubsub.NewBroker[string]()
	defer broker.Close()
	w, err := watcher.New(watcher.DefaultConfig(docPath), broker)
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	deps.OnSave = w.NoteOwnWrite

	disp, err := dispatch.New(docPath, cfg, deps)
	if err != nil {
		return fmt.Errorf("opening %s: %w", docPath, err)
	}

	if err := w.Start(); err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}

	model := ui.New(disp, cfg).WithWatcher(w, broker)
	p := tea.NewProgram(model, tea.WithAltScreen())

	_, runErr := p.Run()
	model.Close()
	if runErr != nil {
		return fmt.Errorf("running program: %w", runErr)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
