package backend

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig is the daemon's configuration file content.
type ServerConfig struct {
	// port the API server listens on.
	Port int32 `yaml:"port"`

	// connection string for the database.
	DBURI string `yaml:"database"`

	// directory holding versioned schema definitions.
	// When empty, the daemon refuses to upgrade schemas.
	SchemaRepository string `yaml:"schemaRepository"`

	// base64-encoded HMAC key verifying bearer tokens.
	TokenKey string `yaml:"tokenKey"`
}

// load server config from a file.
//
// args:
//   - filepath: filepath refers a config file.
//
// returns *ServerConfig, error:
//
//	When loading success, returns `(*ServerConfig, nil)`.
//	Otherwise, returns `(nil, error)`.
func LoadServerConfig(filepath string) (*ServerConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

func Unmarshal(conf []byte) (*ServerConfig, error) {
	out := &ServerConfig{}
	if err := yaml.Unmarshal(conf, out); err != nil {
		return nil, err
	}

	if out.Port == 0 {
		out.Port = 8080
	}
	if out.DBURI == "" {
		return nil, fmt.Errorf("config: database is required")
	}
	if out.TokenKey == "" {
		return nil, fmt.Errorf("config: tokenKey is required")
	}
	return out, nil
}
