package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DirName is the per-project configuration directory.
const DirName = ".restuml2code"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// NewFileLoader creates a loader reading an explicit config file instead of
// searching the project directory. A missing file is an error.
func NewFileLoader(path string) Loader {
	return &loader{
		configFile: path,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (RESTUML2CODE_*)
// 2. Config file (.restuml2code/config.yml or .restuml2code/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, DirName))
	}

	// RESTUML2CODE_OUTPUT_DIR overrides output.dir and so on
	v.SetEnvPrefix("RESTUML2CODE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("output.dir")
	v.BindEnv("output.format")
	v.BindEnv("output.indent")
	v.BindEnv("output.sqlite_path")
	v.BindEnv("extraction.diagram_marker")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("paths.docs", defaults.Paths.Docs)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	v.SetDefault("output.dir", defaults.Output.Dir)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.indent", defaults.Output.Indent)
	v.SetDefault("output.sqlite_path", defaults.Output.SQLitePath)

	v.SetDefault("extraction.header_patterns", defaults.Extraction.HeaderPatterns)
	v.SetDefault("extraction.diagram_marker", defaults.Extraction.DiagramMarker)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
