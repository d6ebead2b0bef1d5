package installer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

const (
	MarketplaceName = "monol"
	PluginName      = "monol-logs"
	PluginKey       = PluginName + "@" + MarketplaceName
)

// Width 0 puts every array element on its own line.
var prettyOptions = &pretty.Options{Width: 0, Prefix: "", Indent: "  "}

// pluginPath addresses the enabledPlugins entry. The key contains '@',
// which tidwall paths read as a modifier unless escaped.
var pluginPath = "enabledPlugins." + gjson.Escape(PluginKey)

// Paths locates the files the installer touches under a home directory.
type Paths struct {
	ClaudeDir  string
	Settings   string
	PluginsDir string
	Registry   string
}

func PathsFor(home string) Paths {
	claude := filepath.Join(home, ".claude")
	plugins := filepath.Join(claude, "plugins")
	return Paths{
		ClaudeDir:  claude,
		Settings:   filepath.Join(claude, "settings.json"),
		PluginsDir: plugins,
		Registry:   filepath.Join(plugins, "known_marketplaces.json"),
	}
}

type marketplaceSource struct {
	Source string `json:"source"`
	Path   string `json:"path"`
}

type settingsEntry struct {
	Source marketplaceSource `json:"source"`
}

type registryEntry struct {
	Source          marketplaceSource `json:"source"`
	InstallLocation string            `json:"installLocation"`
	LastUpdated     string            `json:"lastUpdated"`
}

// Installer registers the plugin directory with the local marketplace files.
type Installer struct {
	Paths      Paths
	PackageDir string
	Now        func() time.Time
}

func New(home, packageDir string) *Installer {
	return &Installer{Paths: PathsFor(home), PackageDir: packageDir, Now: time.Now}
}

// Install merges the marketplace and plugin entries into both files.
// Running it again rewrites the same entries.
func (i *Installer) Install() error {
	if err := os.MkdirAll(i.Paths.PluginsDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", i.Paths.PluginsDir, err)
	}
	src := marketplaceSource{Source: "directory", Path: i.PackageDir}

	err := updateJSON(i.Paths.Settings, func(doc []byte) ([]byte, error) {
		doc, err := sjson.SetBytes(doc, "extraKnownMarketplaces."+MarketplaceName, settingsEntry{Source: src})
		if err != nil {
			return nil, err
		}
		return sjson.SetBytes(doc, pluginPath, true)
	})
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}

	now := time.Now
	if i.Now != nil {
		now = i.Now
	}
	err = updateJSON(i.Paths.Registry, func(doc []byte) ([]byte, error) {
		return sjson.SetBytes(doc, MarketplaceName, registryEntry{
			Source:          src,
			InstallLocation: i.PackageDir,
			LastUpdated:     now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		})
	})
	if err != nil {
		return fmt.Errorf("update registry: %w", err)
	}
	return nil
}

// Status reports what the settings file says about the plugin.
type Status struct {
	SettingsFound         bool
	MarketplaceRegistered bool
	PluginEnabled         bool
	PackageDir            string
}

func (i *Installer) Status() (Status, error) {
	st := Status{PackageDir: i.PackageDir}
	doc, err := os.ReadFile(i.Paths.Settings)
	if errors.Is(err, os.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("read settings: %w", err)
	}
	st.SettingsFound = true
	st.MarketplaceRegistered = gjson.GetBytes(doc, "extraKnownMarketplaces."+MarketplaceName).Exists()
	st.PluginEnabled = gjson.GetBytes(doc, pluginPath).Bool()
	return st, nil
}

// updateJSON applies edit to the object stored at path. A missing file, or
// one that is not a JSON object, starts from {}.
func updateJSON(path string, edit func([]byte) ([]byte, error)) error {
	doc, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if !gjson.ValidBytes(doc) || !gjson.ParseBytes(doc).IsObject() {
		doc = []byte("{}")
	}
	doc, err = edit(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, pretty.PrettyOptions(doc, prettyOptions), 0o644)
}
