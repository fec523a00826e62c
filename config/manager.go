package config

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

type (
	// Manager owns the configuration file. Snapshot returns a by-value copy,
	// so an operation keeps the settings it started with even when the file
	// is updated while it runs.
	Manager interface {
		Snapshot() VerdaConfig
		Update(updates map[string]any) error
		Path() string
	}

	configManager struct {
		path    string
		current *VerdaConfig
		mutex   sync.RWMutex
	}
)

func CreateManager(path string) Manager {
	return &configManager{
		path:    path,
		current: Load(path),
	}
}

func (m *configManager) Snapshot() VerdaConfig {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return *m.current
}

func (m *configManager) Path() string {
	return m.path
}

// Update deep-merges a partial document into the configuration file and
// reloads it. Keys absent from the updates keep their current values.
func (m *configManager) Update(updates map[string]any) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	document := make(map[string]any)

	if configData, err := os.ReadFile(m.path); err == nil {
		if err := yaml.Unmarshal(configData, &document); err != nil {
			return err
		}
	}

	deepMerge(document, updates)

	data, err := yaml.Marshal(document)
	if err != nil {
		return err
	}

	if err := os.WriteFile(m.path, data, 0755); err != nil {
		return err
	}

	m.current = Load(m.path)
	log.Info("Configuration updated.", "path", m.path)

	return nil
}

func deepMerge(target map[string]any, updates map[string]any) {
	for key, value := range updates {
		if updateMap, ok := value.(map[string]any); ok {
			if targetMap, ok := target[key].(map[string]any); ok {
				deepMerge(targetMap, updateMap)
				continue
			}
		}

		target[key] = value
	}
}
