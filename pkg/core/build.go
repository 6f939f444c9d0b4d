package core

import (
	"fmt"
	"time"

	manifest "github.com/joeydtaylor/servifier/pkg/manifest"
	"github.com/joeydtaylor/servifier/pkg/servify"
)

// BuildHandles servifies every manifest handle against funcs. Any failure is
// a startup error naming the offending handle.
func BuildHandles(cfg manifest.Config, funcs *Registry, opts ...servify.Option) (*Table, error) {
	t := NewTable()
	for _, hc := range cfg.Handles {
		h, err := buildHandle(hc, funcs, opts)
		if err != nil {
			return nil, fmt.Errorf("handle %s: %w", hc.Path, err)
		}
		if err := t.Add(h); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func buildHandle(hc manifest.Handle, funcs *Registry, opts []servify.Option) (*servify.Handler, error) {
	fn, ok := funcs.Lookup(hc.Function)
	if !ok {
		return nil, fmt.Errorf("unknown function %q", hc.Function)
	}
	schema, err := hc.Schema()
	if err != nil {
		return nil, err
	}
	secret, err := hc.Secret()
	if err != nil {
		return nil, err
	}
	return servify.Servify(servify.Handle{
		Path:       hc.Path,
		Func:       fn,
		Validator:  schema,
		AuthSecret: secret,
		Timeout:    time.Duration(hc.TimeoutMS) * time.Millisecond,
	}, opts...)
}
