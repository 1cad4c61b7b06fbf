package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"
)

// ManifestFile is the manifest every plugin directory must contain.
const ManifestFile = "plugin.json"

// ErrPluginNotFound is returned when a requested plugin cannot be found.
var ErrPluginNotFound = errors.New("plugin not found")

// knownEvents are the events the app emits.
var knownEvents = []string{EventCommit, EventSpelling}

// Manager finds output plugins and answers which of them want an event.
type Manager struct {
	pluginDir string

	mu      sync.RWMutex
	byName  map[string]*Plugin
	byEvent map[string][]*Plugin
}

// NewManager creates a Manager for the plugins under pluginDir. Nothing is
// loaded until Discover is called.
func NewManager(pluginDir string) *Manager {
	return &Manager{
		pluginDir: pluginDir,
		byName:    make(map[string]*Plugin),
		byEvent:   make(map[string][]*Plugin),
	}
}

// Discover rescans the plugin directory. Every subdirectory holding a
// plugin.json is a plugin; broken manifests are logged and skipped. A
// missing plugin directory means no plugins.
func (m *Manager) Discover() error {
	entries, err := os.ReadDir(m.pluginDir)
	if errors.Is(err, fs.ErrNotExist) {
		m.install(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read plugin dir: %w", err)
	}

	var found []*Plugin
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		p, err := loadPlugin(filepath.Join(m.pluginDir, entry.Name()))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			log.Printf("Skipping plugin %s: %v", entry.Name(), err)
			continue
		}
		found = append(found, p)
	}

	m.install(found)
	return nil
}

// loadPlugin reads the manifest in dir. The directory name stands in for a
// missing plugin name, and events the app never emits are dropped.
func loadPlugin(dir string) (*Plugin, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	if manifest.Executable == "" {
		return nil, errors.New("manifest has no executable")
	}
	if manifest.Name == "" {
		manifest.Name = filepath.Base(dir)
	}

	events := manifest.Events[:0:0]
	for _, ev := range manifest.Events {
		if !slices.Contains(knownEvents, ev) {
			log.Printf("Plugin %s: ignoring unknown event %q", manifest.Name, ev)
			continue
		}
		events = append(events, ev)
	}
	manifest.Events = events

	return &Plugin{
		Manifest:   manifest,
		Path:       dir,
		Executable: filepath.Join(dir, manifest.Executable),
	}, nil
}

// install replaces the loaded plugins and rebuilds the event index.
func (m *Manager) install(plugins []*Plugin) {
	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Manifest.Name < plugins[j].Manifest.Name
	})

	byName := make(map[string]*Plugin, len(plugins))
	byEvent := make(map[string][]*Plugin)
	for _, p := range plugins {
		if _, dup := byName[p.Manifest.Name]; dup {
			log.Printf("Skipping plugin %s in %s: name already taken", p.Manifest.Name, p.Path)
			continue
		}
		byName[p.Manifest.Name] = p
		for _, ev := range p.Manifest.Events {
			byEvent[ev] = append(byEvent[ev], p)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.byName = byName
	m.byEvent = byEvent
}

// Get returns a plugin by name, or ErrPluginNotFound.
func (m *Manager) Get(name string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.byName[name]
	if !ok {
		return nil, ErrPluginNotFound
	}
	return p, nil
}

// List returns all discovered plugins sorted by name.
func (m *Manager) List() []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugins := make([]*Plugin, 0, len(m.byName))
	for _, p := range m.byName {
		plugins = append(plugins, p)
	}
	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Manifest.Name < plugins[j].Manifest.Name
	})
	return plugins
}

// Subscribers returns the plugins that handle event, sorted by name.
func (m *Manager) Subscribers(event string) []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.byEvent[event])
}

// PluginDir returns the plugin directory path.
func (m *Manager) PluginDir() string {
	return m.pluginDir
}
