package servify

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/joeydtaylor/servifier/pkg/validation"
)

// Handle is the registration of one endpoint.
type Handle struct {
	Path string
	Func Function

	// Validator, when set, must declare exactly Func's parameters.
	Validator *validation.Schema

	// AuthSecret, when set, requires login/token in every request.
	AuthSecret *string

	// Timeout bounds the context handed to Func. Zero means none.
	Timeout time.Duration
}

// Secret is a helper for filling Handle.AuthSecret.
func Secret(s string) *string { return &s }

// HandleName derives the handler identifier from its path:
// "/api/evaluate" becomes "handle_api_evaluate".
func HandleName(path string) string {
	p := strings.Trim(path, "/")
	if p == "" {
		return "handle_root"
	}
	return "handle_" + strings.ReplaceAll(p, "/", "_")
}

func (h Handle) check() error {
	if strings.TrimSpace(h.Path) == "" {
		return errors.New("servify: path is required")
	}
	if !strings.HasPrefix(h.Path, "/") {
		return fmt.Errorf("servify: path %q must start with /", h.Path)
	}
	if err := h.Func.check(); err != nil {
		return fmt.Errorf("%s: %w", h.Path, err)
	}
	if h.Timeout < 0 {
		return fmt.Errorf("servify: %s: negative timeout", h.Path)
	}
	if h.Validator != nil {
		want := h.Func.Names()
		got := h.Validator.Names()
		slices.Sort(want)
		slices.Sort(got)
		if !slices.Equal(want, got) {
			return fmt.Errorf("servify: %s: validator fields %v do not match parameters %v", h.Path, got, want)
		}
		optional := make(map[string]bool, len(h.Func.Params))
		for _, p := range h.Func.Params {
			optional[p.Name] = p.Optional
		}
		// an optional field must land on a parameter that accepts nil
		for _, f := range h.Validator.Fields() {
			if !f.Field.Required() && !optional[f.Name] {
				return fmt.Errorf("servify: %s: field %q is optional but its parameter is required", h.Path, f.Name)
			}
		}
	}
	return nil
}
