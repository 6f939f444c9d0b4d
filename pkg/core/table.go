package core

import (
	"errors"
	"fmt"
	"sync"

	"github.com/joeydtaylor/servifier/pkg/servify"
)

var ErrDuplicateHandle = errors.New("handle already registered")

// Table is the ordered set of servified handlers, unique by name and path.
type Table struct {
	mu     sync.RWMutex
	order  []*servify.Handler
	byName map[string]*servify.Handler
	byPath map[string]*servify.Handler
}

func NewTable() *Table {
	return &Table{
		byName: map[string]*servify.Handler{},
		byPath: map[string]*servify.Handler{},
	}
}

// Add registers h. Distinct paths such as /a/b and /a_b derive the same
// name and are rejected.
func (t *Table) Add(h *servify.Handler) error {
	if h == nil {
		return errors.New("nil handler")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if prev, dup := t.byName[h.Name()]; dup {
		return fmt.Errorf("%w: %s (paths %s and %s)", ErrDuplicateHandle, h.Name(), prev.Path(), h.Path())
	}
	if _, dup := t.byPath[h.Path()]; dup {
		return fmt.Errorf("%w: path %s", ErrDuplicateHandle, h.Path())
	}
	t.byName[h.Name()] = h
	t.byPath[h.Path()] = h
	t.order = append(t.order, h)
	return nil
}

func (t *Table) Lookup(name string) (*servify.Handler, bool) {
	t.mu.RLock()
	h, ok := t.byName[name]
	t.mu.RUnlock()
	return h, ok
}

// Handlers returns handlers in registration order.
func (t *Table) Handlers() []*servify.Handler {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]*servify.Handler(nil), t.order...)
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}
