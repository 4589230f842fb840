package preset

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned when a preset id is not registered.
var ErrNotFound = errors.New("preset not found")

// registry holds all registered preset configs in registration order.
var (
	registryMu sync.RWMutex
	configs    = make(map[string]*Config)
	order      []string
)

// Register validates and adds a preset config to the registry.
// Configs should be registered during init() or early in main(); a
// malformed config is a startup failure, never a per-request one.
func Register(cfg *Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := configs[cfg.ID]; exists {
		return fmt.Errorf("preset already registered: %s", cfg.ID)
	}
	configs[cfg.ID] = cfg
	order = append(order, cfg.ID)
	return nil
}

// MustRegister registers a config and panics on failure.
func MustRegister(cfg *Config) {
	if err := Register(cfg); err != nil {
		panic(err)
	}
}

// Get returns the config for the given preset id.
func Get(id string) (*Config, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	cfg, ok := configs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return cfg, nil
}

// IsValid reports whether the preset id is registered.
func IsValid(id string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := configs[id]
	return ok
}

// List returns all registered configs in registration order.
func List() []*Config {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]*Config, 0, len(order))
	for _, id := range order {
		out = append(out, configs[id])
	}
	return out
}

// Reset clears the registry. Only for testing.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	configs = make(map[string]*Config)
	order = nil
}
