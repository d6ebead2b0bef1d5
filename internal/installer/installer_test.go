package installer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestInstaller(t *testing.T) *Installer {
	t.Helper()
	inst := New(t.TempDir(), "/opt/monol-logs")
	inst.Now = func() time.Time { return time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC) }
	return inst
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestInstallFreshHome(t *testing.T) {
	inst := newTestInstaller(t)
	require.NoError(t, inst.Install())

	settings := readFile(t, inst.Paths.Settings)
	assert.Equal(t, "directory", gjson.GetBytes(settings, "extraKnownMarketplaces.monol.source.source").String())
	assert.Equal(t, "/opt/monol-logs", gjson.GetBytes(settings, "extraKnownMarketplaces.monol.source.path").String())
	assert.True(t, gjson.GetBytes(settings, pluginPath).Bool())
	assert.Contains(t, string(settings), "\n  \"extraKnownMarketplaces\": {")

	registry := readFile(t, inst.Paths.Registry)
	assert.Equal(t, "/opt/monol-logs", gjson.GetBytes(registry, "monol.installLocation").String())
	assert.Equal(t, "/opt/monol-logs", gjson.GetBytes(registry, "monol.source.path").String())
	assert.Equal(t, "2026-01-20T12:00:00.000Z", gjson.GetBytes(registry, "monol.lastUpdated").String())
}

func TestInstallPreservesOtherKeys(t *testing.T) {
	inst := newTestInstaller(t)
	require.NoError(t, os.MkdirAll(inst.Paths.PluginsDir, 0o755))
	require.NoError(t, os.WriteFile(inst.Paths.Settings, []byte(`{"theme":"dark","enabledPlugins":{"other@x":true},"permissions":{"allow":["Bash"]}}`), 0o644))
	require.NoError(t, os.WriteFile(inst.Paths.Registry, []byte(`{"other":{"installLocation":"/x"}}`), 0o644))

	require.NoError(t, inst.Install())

	settings := readFile(t, inst.Paths.Settings)
	assert.Equal(t, "dark", gjson.GetBytes(settings, "theme").String())
	assert.True(t, gjson.GetBytes(settings, `enabledPlugins.other\@x`).Bool())
	assert.True(t, gjson.GetBytes(settings, pluginPath).Bool())
	assert.Equal(t, "Bash", gjson.GetBytes(settings, "permissions.allow.0").String())

	registry := readFile(t, inst.Paths.Registry)
	assert.Equal(t, "/x", gjson.GetBytes(registry, "other.installLocation").String())
	assert.True(t, gjson.GetBytes(registry, "monol").Exists())
}

func TestInstallIsIdempotent(t *testing.T) {
	inst := newTestInstaller(t)
	require.NoError(t, inst.Install())
	first := readFile(t, inst.Paths.Settings)
	require.NoError(t, inst.Install())
	assert.Equal(t, first, readFile(t, inst.Paths.Settings))
}

func TestInstallReplacesCorruptFiles(t *testing.T) {
	inst := newTestInstaller(t)
	require.NoError(t, os.MkdirAll(inst.Paths.PluginsDir, 0o755))
	require.NoError(t, os.WriteFile(inst.Paths.Settings, []byte(`{not json`), 0o644))
	require.NoError(t, os.WriteFile(inst.Paths.Registry, []byte(`[1,2]`), 0o644))

	require.NoError(t, inst.Install())
	assert.True(t, gjson.GetBytes(readFile(t, inst.Paths.Settings), pluginPath).Bool())
	assert.True(t, gjson.GetBytes(readFile(t, inst.Paths.Registry), "monol").IsObject())
}

func TestStatus(t *testing.T) {
	inst := newTestInstaller(t)

	st, err := inst.Status()
	require.NoError(t, err)
	assert.False(t, st.SettingsFound)
	assert.Equal(t, "/opt/monol-logs", st.PackageDir)

	require.NoError(t, inst.Install())
	st, err = inst.Status()
	require.NoError(t, err)
	assert.True(t, st.SettingsFound)
	assert.True(t, st.MarketplaceRegistered)
	assert.True(t, st.PluginEnabled)
}

func TestPathsFor(t *testing.T) {
	p := PathsFor("/home/dev")
	assert.Equal(t, filepath.Join("/home/dev", ".claude", "settings.json"), p.Settings)
	assert.Equal(t, filepath.Join("/home/dev", ".claude", "plugins", "known_marketplaces.json"), p.Registry)
}

func TestInstallWritesLiteralPluginKey(t *testing.T) {
	inst := newTestInstaller(t)
	require.NoError(t, os.MkdirAll(inst.Paths.PluginsDir, 0o755))
	require.NoError(t, os.WriteFile(inst.Paths.Settings, []byte(`{"enabledPlugins":{"x@y":false}}`), 0o644))

	require.NoError(t, inst.Install())

	var doc struct {
		EnabledPlugins map[string]bool `json:"enabledPlugins"`
	}
	require.NoError(t, json.Unmarshal(readFile(t, inst.Paths.Settings), &doc))
	assert.Equal(t, map[string]bool{"x@y": false, "monol-logs@monol": true}, doc.EnabledPlugins)
}

func TestInstallWritesOneArrayElementPerLine(t *testing.T) {
	inst := newTestInstaller(t)
	require.NoError(t, os.MkdirAll(inst.Paths.PluginsDir, 0o755))
	require.NoError(t, os.WriteFile(inst.Paths.Settings, []byte(`{"permissions":{"allow":["Bash","Read"]}}`), 0o644))

	require.NoError(t, inst.Install())

	settings := string(readFile(t, inst.Paths.Settings))
	assert.Contains(t, settings, "\"allow\": [\n      \"Bash\",\n      \"Read\"\n    ]")
	assert.True(t, strings.HasSuffix(settings, "}\n"))
}
