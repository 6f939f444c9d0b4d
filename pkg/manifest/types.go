package manifest

const (
	DefaultListen       = ":4000"
	DefaultMaxBodyBytes = int64(1 << 20)
)

// Server holds listener settings. Environment variables still win over
// Listen (see serverfx).
type Server struct {
	Listen         string `toml:"listen" yaml:"listen" json:"listen"`
	MaxBodyBytes   int64  `toml:"max_body_bytes" yaml:"max_body_bytes" json:"max_body_bytes"`
	ReadTimeoutMS  int    `toml:"read_timeout_ms" yaml:"read_timeout_ms" json:"read_timeout_ms"`
	WriteTimeoutMS int    `toml:"write_timeout_ms" yaml:"write_timeout_ms" json:"write_timeout_ms"`
}

// Guard protects the operator endpoints (/handles, /metrics). It never
// applies to handle routes.
type Guard struct {
	Roles       []string `toml:"roles" yaml:"roles" json:"roles"`
	Users       []string `toml:"users" yaml:"users" json:"users"`
	RequireAuth bool     `toml:"require_auth" yaml:"require_auth" json:"require_auth"`
}

// Field declares one validated argument.
type Field struct {
	Name     string `toml:"name" yaml:"name" json:"name"`
	Type     string `toml:"type" yaml:"type" json:"type"` // string | integer | float | date
	Optional bool   `toml:"optional" yaml:"optional" json:"optional"`
}
