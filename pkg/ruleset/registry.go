package ruleset

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/dmitrymomot/formcheck/pkg/logger"
)

// Registry holds the rule sets a service validates against. Reloads swap
// the whole set at once, so readers never see a partially loaded state.
type Registry struct {
	path   string
	logger *slog.Logger

	mu   sync.RWMutex
	sets map[string]*Ruleset
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithPath sets the file or directory Reload reads from.
func WithPath(path string) RegistryOption {
	return func(r *Registry) { r.path = path }
}

// WithRegistryLogger sets the registry logger. Nil loggers are ignored.
func WithRegistryLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		logger: slog.Default(),
		sets:   make(map[string]*Ruleset),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open creates a registry for path and loads it.
func Open(path string, opts ...RegistryOption) (*Registry, error) {
	r := NewRegistry(append(opts, WithPath(path))...)
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Get returns the named rule set.
func (r *Registry) Get(name string) (*Ruleset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rs, ok := r.sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return rs, nil
}

// Names returns the registered rule set names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.sets))
}

// Len returns the number of registered rule sets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sets)
}

// Replace swaps in a new set of rule sets.
func (r *Registry) Replace(sets map[string]*Ruleset) {
	next := make(map[string]*Ruleset, len(sets))
	maps.Copy(next, sets)

	r.mu.Lock()
	r.sets = next
	r.mu.Unlock()
}

// Add registers or replaces a single rule set.
func (r *Registry) Add(rs *Ruleset) error {
	if rs == nil || rs.Name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := maps.Clone(r.sets)
	next[rs.Name] = rs
	r.sets = next
	return nil
}

// Reload reads the registry path again. On error the previously loaded
// rule sets stay in place.
func (r *Registry) Reload() error {
	if r.path == "" {
		return nil
	}

	sets, err := Load(r.path)
	if err != nil {
		r.logger.Error("failed to reload rule sets", logger.Path(r.path), logger.Error(err))
		return err
	}

	r.Replace(sets)
	r.logger.Info("rule sets loaded", logger.Path(r.path), slog.Int("count", len(sets)))
	return nil
}
