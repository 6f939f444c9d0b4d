package core

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeydtaylor/servifier/pkg/codec"
	manifest "github.com/joeydtaylor/servifier/pkg/manifest"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v2"
)

// LoadConfig reads a TOML, YAML or JSON manifest, chosen by file extension,
// and validates it. Unknown keys are an error in every format.
func LoadConfig(path string) (manifest.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return manifest.Config{}, err
	}
	cfg, err := DecodeConfig(filepath.Ext(path), b)
	if err != nil {
		return manifest.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig decodes and validates a manifest. ext selects the format
// (".yaml"/".yml" for YAML, ".json" for JSON, anything else TOML).
func DecodeConfig(ext string, b []byte) (manifest.Config, error) {
	var cfg manifest.Config
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
			return manifest.Config{}, err
		}
	case ".json":
		if err := codec.JSONStrict.Unmarshal(b, &cfg); err != nil {
			return manifest.Config{}, err
		}
	default:
		dec := toml.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return manifest.Config{}, unknownKeys(err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return manifest.Config{}, err
	}
	return cfg, nil
}

// unknownKeys names the offending keys; go-toml's strict error alone does not.
func unknownKeys(err error) error {
	var sme *toml.StrictMissingError
	if !errors.As(err, &sme) {
		return err
	}
	keys := make([]string, 0, len(sme.Errors))
	for _, e := range sme.Errors {
		keys = append(keys, strings.Join(e.Key(), "."))
	}
	return fmt.Errorf("unknown manifest keys %q: %w", keys, err)
}
