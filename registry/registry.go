// Package registry maps Go import paths to the live values of their exported
// schema bindings. Entity packages register their bindings from init so the
// declaration generator can pair a source scan with the values themselves.
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds exported bindings keyed by import path and export name.
type Registry struct {
	mu   sync.RWMutex
	pkgs map[string]map[string]any
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{pkgs: map[string]map[string]any{}}
}

var std = New()

// Default returns the process-wide registry entity packages register into.
func Default() *Registry { return std }

// Register records the value of an exported binding. Registering the same
// name twice panics.
func (r *Registry) Register(pkgPath, name string, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exports, ok := r.pkgs[pkgPath]
	if !ok {
		exports = map[string]any{}
		r.pkgs[pkgPath] = exports
	}
	if _, dup := exports[name]; dup {
		panic(fmt.Sprintf("registry: %s.%s registered twice", pkgPath, name))
	}
	exports[name] = v
}

// Register records a binding in the default registry.
func Register(pkgPath, name string, v any) { std.Register(pkgPath, name, v) }

// Lookup returns the value registered for pkgPath.name.
func (r *Registry) Lookup(pkgPath, name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.pkgs[pkgPath][name]
	return v, ok
}

// Exports lists the names registered for pkgPath in lexical order.
func (r *Registry) Exports(pkgPath string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.pkgs[pkgPath]))
	for name := range r.pkgs[pkgPath] {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Packages lists every import path with registered bindings in lexical order.
func (r *Registry) Packages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.pkgs))
	for p := range r.pkgs {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
