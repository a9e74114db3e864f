// Package registry holds the check modules linked into the binary. Check
// packages register a static list of descriptors per source file; discovery
// resolves the function names it finds in a directory against this registry
// instead of introspecting arbitrary symbols at runtime.
package registry

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/log"

	"github.com/mcpeak/reconbf/types"
)

// Check binds a function identifier to its code and metadata.
type Check struct {
	Name string
	Fn   types.CheckFunc
	Meta types.Metadata
}

// Module is the static descriptor list one check source file exposes.
// Name must match the file's base name sans extension.
type Module struct {
	Name   string
	Checks []Check
}

// Resolve returns the check registered under the given function name.
func (m Module) Resolve(name string) (Check, bool) {
	for _, c := range m.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return Check{}, false
}

// Registry manages registered check modules, keyed by scope (the base name of
// the directory the module's file lives in) and module name. Scoping keeps
// identically named files in different directories apart.
type Registry struct {
	config  Config
	modules map[string]map[string]Module
	mu      sync.RWMutex
}

// Config contains registry configuration
type Config struct {
	Log log.Logger
}

// NewRegistry creates a new registry instance
func NewRegistry(cfg Config) *Registry {
	if cfg.Log == nil {
		cfg.Log = log.Root()
	}
	return &Registry{
		config:  cfg,
		modules: make(map[string]map[string]Module),
	}
}

// Register adds a module under a scope. Registering the same module name
// twice in one scope is an error.
func (r *Registry) Register(scope string, mod Module) error {
	if mod.Name == "" {
		return fmt.Errorf("module name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	scoped, ok := r.modules[scope]
	if !ok {
		scoped = make(map[string]Module)
		r.modules[scope] = scoped
	}
	if _, exists := scoped[mod.Name]; exists {
		return fmt.Errorf("module %s.%s is already registered", scope, mod.Name)
	}

	r.config.Log.Debug("Registered check module", "scope", scope, "module", mod.Name, "checks", len(mod.Checks))
	scoped[mod.Name] = mod
	return nil
}

// Module retrieves a registered module by scope and name.
func (r *Registry) Module(scope, name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mod, ok := r.modules[scope][name]
	return mod, ok
}

// GetConfig returns the registry configuration
func (r *Registry) GetConfig() Config {
	return r.config
}
