package manifest

import (
	"errors"
	"fmt"
)

// Config is the top-level manifest.
type Config struct {
	Server   Server   `toml:"server" yaml:"server" json:"server"`
	Operator Guard    `toml:"operator" yaml:"operator" json:"operator"`
	Handles  []Handle `toml:"handle" yaml:"handle" json:"handle"`
}

// Validate normalizes the manifest in place and rejects anything that would
// fail at startup.
func (c *Config) Validate() error {
	if len(c.Handles) == 0 {
		return errors.New("no handles defined")
	}
	if c.Server.Listen == "" {
		c.Server.Listen = DefaultListen
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New("server.max_body_bytes must be >= 0")
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Server.ReadTimeoutMS < 0 || c.Server.WriteTimeoutMS < 0 {
		return errors.New("server timeouts must be >= 0")
	}
	return c.validateHandles()
}

func (c *Config) validateHandles() error {
	paths := make(map[string]int, len(c.Handles))
	for i := range c.Handles {
		if err := c.Handles[i].normalize(); err != nil {
			return fmt.Errorf("handle %d: %w", i, err)
		}
		if err := c.Handles[i].validate(); err != nil {
			return fmt.Errorf("handle %d (%s): %w", i, c.Handles[i].Path, err)
		}
		if j, dup := paths[c.Handles[i].Path]; dup {
			return fmt.Errorf("handle %d: path %s already used by handle %d", i, c.Handles[i].Path, j)
		}
		paths[c.Handles[i].Path] = i
	}
	return nil
}
