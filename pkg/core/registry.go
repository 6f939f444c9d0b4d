package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/joeydtaylor/servifier/pkg/servify"
)

var ErrDuplicateFunc = errors.New("function already registered")

// Registry maps the function names a manifest refers to onto servify
// Functions. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]servify.Function
}

func NewRegistry() *Registry { return &Registry{funcs: map[string]servify.Function{}} }

// Register makes fn available under name.
func (r *Registry) Register(name string, fn servify.Function) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("function name is required")
	}
	if fn.Call == nil {
		return fmt.Errorf("function %s: nil Call", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.funcs[name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateFunc, name)
	}
	r.funcs[name] = fn
	return nil
}

// Lookup retrieves a registered function by name.
func (r *Registry) Lookup(name string) (servify.Function, bool) {
	r.mu.RLock()
	fn, ok := r.funcs[name]
	r.mu.RUnlock()
	return fn, ok
}

// Names lists registered functions in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.funcs))
	for n := range r.funcs {
		out = append(out, n)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Funcs is the process-wide registry used by the fx wiring.
var Funcs = NewRegistry()

// RegisterFunc makes a function available under a name referenced in the manifest.
func RegisterFunc(name string, fn servify.Function) error { return Funcs.Register(name, fn) }

// MustRegisterFunc is RegisterFunc for init-time registration.
func MustRegisterFunc(name string, fn servify.Function) {
	if err := RegisterFunc(name, fn); err != nil {
		panic(err)
	}
}

// LookupFunc retrieves a function from the process-wide registry.
func LookupFunc(name string) (servify.Function, bool) { return Funcs.Lookup(name) }
