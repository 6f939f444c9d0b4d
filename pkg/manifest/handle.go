package manifest

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/joeydtaylor/servifier/pkg/validation"
)

// Handle describes one servified endpoint. Function names an entry in the
// in-process function registry.
type Handle struct {
	Path          string  `toml:"path" yaml:"path" json:"path"`
	Function      string  `toml:"function" yaml:"function" json:"function"`
	AuthSecret    *string `toml:"auth_secret" yaml:"auth_secret" json:"auth_secret"`
	AuthSecretEnv string  `toml:"auth_secret_env" yaml:"auth_secret_env" json:"auth_secret_env"`
	TimeoutMS     int     `toml:"timeout_ms" yaml:"timeout_ms" json:"timeout_ms"`
	LogBody       bool    `toml:"log_body" yaml:"log_body" json:"log_body"`
	Fields        []Field `toml:"field" yaml:"field" json:"field"`
}

// normalize path/function
func (h *Handle) normalize() error {
	h.Path = strings.TrimSpace(h.Path)
	if h.Path == "" {
		return errors.New("path is required")
	}
	if !strings.HasPrefix(h.Path, "/") {
		h.Path = "/" + h.Path
	}
	if h.Path != "/" {
		h.Path = path.Clean(h.Path)
	}
	h.Function = strings.TrimSpace(h.Function)
	h.AuthSecretEnv = strings.TrimSpace(h.AuthSecretEnv)
	for i := range h.Fields {
		h.Fields[i].Name = strings.TrimSpace(h.Fields[i].Name)
		h.Fields[i].Type = strings.ToLower(strings.TrimSpace(h.Fields[i].Type))
	}
	return nil
}

// validate fields that are independent of the function registry.
func (h *Handle) validate() error {
	if h.Function == "" {
		return errors.New("function is required")
	}
	if h.AuthSecret != nil && h.AuthSecretEnv != "" {
		return errors.New("auth_secret and auth_secret_env are mutually exclusive")
	}
	if h.TimeoutMS < 0 {
		return errors.New("timeout_ms must be >= 0")
	}
	seen := make(map[string]struct{}, len(h.Fields))
	for i, f := range h.Fields {
		if f.Name == "" {
			return fmt.Errorf("field %d: name is required", i)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("field %q declared twice", f.Name)
		}
		seen[f.Name] = struct{}{}
		if !validation.Kind(f.Type).Valid() {
			return fmt.Errorf("field %q: unknown type %q", f.Name, f.Type)
		}
	}
	return nil
}

// Secret resolves the shared secret. nil means the handle is open. A
// secret_env naming an unset variable is an error rather than an open handle.
func (h Handle) Secret() (*string, error) {
	if h.AuthSecret != nil {
		s := *h.AuthSecret
		return &s, nil
	}
	if h.AuthSecretEnv == "" {
		return nil, nil
	}
	s, ok := os.LookupEnv(h.AuthSecretEnv)
	if !ok {
		return nil, fmt.Errorf("auth_secret_env %s is not set", h.AuthSecretEnv)
	}
	return &s, nil
}

// Schema builds the validator declared by Fields; nil when none are declared.
func (h Handle) Schema() (*validation.Schema, error) {
	if len(h.Fields) == 0 {
		return nil, nil
	}
	named := make([]validation.Named, 0, len(h.Fields))
	for _, f := range h.Fields {
		fd, err := validation.FieldFor(validation.Kind(f.Type), !f.Optional)
		if err != nil {
			return nil, err
		}
		named = append(named, validation.Named{Name: f.Name, Field: fd})
	}
	return validation.NewSchema(named...)
}
