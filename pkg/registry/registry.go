// Package registry maps node kinds to the factories that build them.
//
// Node bodies live outside the engine. A module registers one factory per
// kind; the config builder then turns declarations such as
// `node "blur" "pre" {}` into nodes by looking the kind up here.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/specialistvlad/gridflow/pkg/node"
	"github.com/zclconf/go-cty/cty"
)

// ErrUnknownKind is returned by New for a kind nobody registered.
var ErrUnknownKind = errors.New("unknown node kind")

// Module is the interface that all node modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Spec describes one node to build.
type Spec struct {
	Kind string
	Name string
	// Unit overrides the kind's default compute unit when set.
	Unit      node.ComputeUnit
	UnitIsSet bool
	// Arguments are the raw values of the node's arguments block.
	Arguments map[string]cty.Value
}

// Factory builds a node from a spec whose unit has already been resolved.
type Factory func(spec Spec) (node.Node, error)

// Definition is what a module registers for a kind.
type Definition struct {
	DefaultUnit node.ComputeUnit
	Description string
	New         Factory
}

// Registry holds the registered node kinds for a single application instance.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]*Definition
}

// New creates a registry and registers the given modules into it.
func New(modules ...Module) *Registry {
	r := &Registry{kinds: make(map[string]*Definition)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Register adds a kind. Registering the same kind twice is a programmer
// error and panics.
func (r *Registry) Register(kind string, def *Definition) {
	if def == nil || def.New == nil {
		panic(fmt.Sprintf("node kind '%s' registered without a factory", kind))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.kinds[kind]; exists {
		panic(fmt.Sprintf("node kind '%s' already registered", kind))
	}
	slog.Debug("Registering node kind.", "kind", kind, "unit", def.DefaultUnit.String())
	r.kinds[kind] = def
}

// Lookup returns the definition of a kind.
func (r *Registry) Lookup(kind string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.kinds[kind]
	return def, ok
}

// Kinds returns every registered kind, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.kinds))
	for k := range r.kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// New builds a node for spec. When spec does not set a unit, the kind's
// default is used.
func (r *Registry) New(spec Spec) (node.Node, error) {
	def, ok := r.Lookup(spec.Kind)
	if !ok {
		return nil, fmt.Errorf("%w '%s' for node '%s'", ErrUnknownKind, spec.Kind, spec.Name)
	}
	if !spec.UnitIsSet {
		spec.Unit = def.DefaultUnit
		spec.UnitIsSet = true
	}
	n, err := def.New(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to build node '%s' of kind '%s': %w", spec.Name, spec.Kind, err)
	}
	return n, nil
}
