package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestXDGOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	require.Equal(t, "/tmp/xdg-config/hollow/config.yaml", ConfigFile())
	require.Equal(t, "/tmp/xdg-data/hollow", DataDir())
	require.Equal(t, "/tmp/xdg-data/hollow/versions", VersionsDir())
	require.Equal(t, "/tmp/xdg-data/hollow/stats.db", StatsDB())
}

func TestHomeFallback(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".config", "hollow", "config.yaml"), ConfigFile())
	require.Equal(t, filepath.Join(home, ".local", "share", "hollow"), DataDir())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	require.Equal(t, filepath.Join(home, "notes", "draft.md"), ExpandHome("~/notes/draft.md"))
	require.Equal(t, home, ExpandHome("~"))

	abs := ExpandHome("draft.md")
	require.True(t, filepath.IsAbs(abs))
	require.Equal(t, "draft.md", filepath.Base(abs))
}
