// Package natives holds the registry of built-in callables the interpreter
// exposes in the global scope. Lox's Non-goals deliberately keep this set
// to exactly one function (clock); the registry exists as the extension
// point a host embedding the interpreter would use to add more, without
// touching the interpreter's core evaluation loop.
package natives

import "sync"

// Native is a built-in function: a name, fixed arity, and a Go closure.
// The Fn signature takes and returns interface{} rather than an
// interpreter.Value to avoid a natives -> interpreter import cycle; the
// interpreter package wraps each Native in a callable when installing it
// into the global environment and converts Fn's result back into a Value
// on every call.
type Native struct {
	Name  string
	Arity int
	Fn    func(args []interface{}) interface{}
}

// Registry is a concurrency-safe name -> Native table, following the same
// RWMutex-guarded register/lookup shape used throughout this codebase for
// pluggable, name-keyed components.
type Registry struct {
	mu    sync.RWMutex
	table map[string]*Native
}

// Default is the process-wide registry populated by this package's init
// and consulted by the interpreter when building the global environment.
var Default = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{table: make(map[string]*Native)}
}

// Register installs n, overwriting any existing native of the same name.
func (r *Registry) Register(n *Native) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table[n.Name] = n
}

// Get looks up a native by name.
func (r *Registry) Get(name string) (*Native, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.table[name]
	return n, ok
}

// All returns every registered native, for installing them all into a
// fresh global environment.
func (r *Registry) All() []*Native {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Native, 0, len(r.table))
	for _, n := range r.table {
		out = append(out, n)
	}
	return out
}
