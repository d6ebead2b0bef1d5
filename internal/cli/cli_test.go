package cli

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"monollogs/internal/installer"

	_ "github.com/mattn/go-sqlite3"
)

func run(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(Options{Version: "1.2.3", Home: home, PackageDir: "/opt/pkg"})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionOutputs(t *testing.T) {
	home := t.TempDir()
	for _, args := range [][]string{{"--version"}, {"-v"}, {"version"}} {
		out, err := run(t, home, args...)
		require.NoError(t, err)
		assert.Equal(t, "monol-logs v1.2.3\n", out, args)
	}
}

func TestNoArgsPrintsHelp(t *testing.T) {
	out, err := run(t, t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "monol-logs v1.2.3")
	assert.Contains(t, out, "/roadmap")
	assert.Contains(t, out, "--reinstall")
}

func TestUnknownCommandFails(t *testing.T) {
	out, err := run(t, t.TempDir(), "frobnicate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "frobnicate"`)
	assert.Contains(t, out, "Usage:")

	var stdout, stderr bytes.Buffer
	code := Execute("1.2.3", []string{"frobnicate"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "Usage:")
	assert.Contains(t, stdout.String(), "monol-logs [flags]")
	assert.Contains(t, stderr.String(), `Error: unknown command "frobnicate" for "monol-logs"`)
}

func TestSubcommandFailureSkipsUsage(t *testing.T) {
	home := t.TempDir()
	settings := installer.PathsFor(home).Settings
	require.NoError(t, os.MkdirAll(settings, 0o755))

	out, err := run(t, home, "--status")
	require.Error(t, err)
	assert.NotContains(t, out, "Usage:")
}

func TestInstallThenStatus(t *testing.T) {
	home := t.TempDir()

	out, err := run(t, home, "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "❌ Claude Code settings not found")

	out, err = run(t, home, "install")
	require.NoError(t, err)
	paths := installer.PathsFor(home)
	assert.Contains(t, out, "✅ Updated "+paths.Settings)
	assert.Contains(t, out, "✅ Updated "+paths.Registry)
	assert.Contains(t, out, "🎉 monol-logs installed successfully!")

	out, err = run(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Marketplace registered: ✅")
	assert.Contains(t, out, "Plugin enabled: ✅")
	assert.Contains(t, out, "Package location: /opt/pkg")
}

func TestReinstallHonoursPackageDir(t *testing.T) {
	home := t.TempDir()
	pkg := t.TempDir()

	_, err := run(t, home, "--reinstall", "--package-dir", pkg)
	require.NoError(t, err)

	inst := installer.New(home, pkg)
	st, err := inst.Status()
	require.NoError(t, err)
	assert.True(t, st.PluginEnabled)

	settings, err := os.ReadFile(installer.PathsFor(home).Settings)
	require.NoError(t, err)
	assert.Equal(t, pkg, gjson.GetBytes(settings, "extraKnownMarketplaces.monol.source.path").String())
}

func TestSeedWritesFixtures(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "fixtures.db")
	out, err := run(t, t.TempDir(), "seed", "--dsn", dsn)
	require.NoError(t, err)
	assert.Equal(t, "Seeded 5 sessions and 7 todos into sqlite3\n", out)

	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	defer db.Close()
	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM todos").Scan(&n))
	assert.Equal(t, 7, n)
}

func TestSeedRequiresDSN(t *testing.T) {
	_, err := run(t, t.TempDir(), "seed")
	require.Error(t, err)
}
