package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/spf13/viper"
)

// FileName is the configuration file name without extension
const FileName = "aepdoc"

// EnvPrefix prefixes environment overrides (AEPDOC_OUTPUT_FORMAT=yaml)
const EnvPrefix = "AEPDOC"

// Config represents the aepdoc configuration
type Config struct {
	Schema string       `mapstructure:"schema"`
	Output OutputConfig `mapstructure:"output"`
	Server ServerConfig `mapstructure:"server"`
	API    APIConfig    `mapstructure:"api"`
	Log    LogConfig    `mapstructure:"log"`

	// File is the configuration file that was read, empty when none
	File string `mapstructure:"-"`
}

// OutputConfig controls where documents are written
type OutputConfig struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"`
}

// ServerConfig is the server entry added to every document
type ServerConfig struct {
	URL         string `mapstructure:"url"`
	Description string `mapstructure:"description"`
}

// APIConfig overrides document metadata
type APIConfig struct {
	// Version replaces every service version when set
	Version string `mapstructure:"version"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads the configuration file at path. An empty path searches the
// current directory and its parents for aepdoc.yaml; finding none is not
// an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("schema", "schema.yaml")
	v.SetDefault("output.path", "openapi")
	v.SetDefault("output.format", "json")
	v.SetDefault("server.url", "")
	v.SetDefault("server.description", "")
	v.SetDefault("api.version", "")
	v.SetDefault("log.level", "info")

	if path == "" {
		if found, err := FindConfig(); err == nil {
			path = found
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.File = path

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// SchemaPath returns the schema path, resolved against the directory of the
// configuration file when relative
func (c *Config) SchemaPath() string {
	return c.resolve(c.Schema)
}

// OutputPath returns the output directory, resolved like SchemaPath
func (c *Config) OutputPath() string {
	return c.resolve(c.Output.Path)
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.File == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.File), p)
}

// FindConfig walks up from the working directory looking for aepdoc.yaml
// or aepdoc.yml
func FindConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, name := range []string{FileName + ".yaml", FileName + ".yml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s.yaml found", FileName)
		}
		dir = parent
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	switch cfg.Output.Format {
	case "json", "yaml", "yml":
	default:
		return fmt.Errorf("output.format must be json or yaml, got: %s", cfg.Output.Format)
	}

	if cfg.Server.URL != "" &&
		!strings.HasPrefix(cfg.Server.URL, "http://") && !strings.HasPrefix(cfg.Server.URL, "https://") {
		return fmt.Errorf("server.url must start with http:// or https://, got: %s", cfg.Server.URL)
	}

	if cfg.API.Version != "" {
		if _, err := version.NewSemver(cfg.API.Version); err != nil {
			return fmt.Errorf("api.version must be a semantic version, got: %s", cfg.API.Version)
		}
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got: %s", cfg.Log.Level)
	}

	return nil
}
