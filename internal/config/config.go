package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = ".dcgraph.yaml"

// Config carries the tool's settings.
type Config struct {
	// IndexPath is where the index artifact lives.
	IndexPath string `yaml:"index_path"`

	// Extensions lists the file extensions treated as TCL source.
	Extensions []string `yaml:"extensions"`

	// ReservedWords extends the built-in table of TCL builtins that are
	// never recorded as call edges.
	ReservedWords []string `yaml:"reserved_words"`

	// MaxDepth is the default call-sequence depth bound.
	MaxDepth int `yaml:"max_depth"`

	// NoColor disables terminal styling even on a TTY.
	NoColor bool `yaml:"no_color"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		IndexPath:  filepath.Join(".dcgraph", "index.bin"),
		Extensions: []string{".tcl"},
		MaxDepth:   5,
	}
}

// Load reads configuration from path, falling back to DefaultFile when path
// is empty and to pure defaults when no file exists. File values override
// defaults field by field.
func Load(path string) (*Config, error) {
	defaults := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return defaults, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	defaults.Merge(&fileCfg)
	return defaults, nil
}

// Merge applies other on top of this config; zero values in other keep the
// receiver's setting.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.IndexPath != "" {
		c.IndexPath = other.IndexPath
	}
	if len(other.Extensions) > 0 {
		c.Extensions = other.Extensions
	}
	if len(other.ReservedWords) > 0 {
		c.ReservedWords = other.ReservedWords
	}
	if other.MaxDepth > 0 {
		c.MaxDepth = other.MaxDepth
	}
	if other.NoColor {
		c.NoColor = true
	}
}

// MatchesExtension reports whether path has one of the configured source
// extensions. Configured entries may be written with or without the dot.
func (c *Config) MatchesExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range c.Extensions {
		want = strings.ToLower(strings.TrimSpace(want))
		if want == "" {
			continue
		}
		if !strings.HasPrefix(want, ".") {
			want = "." + want
		}
		if ext == want {
			return true
		}
	}
	return false
}
