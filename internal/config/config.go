package config

// Config represents the complete restuml2code configuration.
// It can be loaded from .restuml2code/config.yml with environment variable overrides.
type Config struct {
	Paths      PathsConfig      `yaml:"paths" mapstructure:"paths"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Extraction ExtractionConfig `yaml:"extraction" mapstructure:"extraction"`
}

// PathsConfig defines which documents to extract from and which to ignore.
type PathsConfig struct {
	Docs   []string `yaml:"docs" mapstructure:"docs"`     // glob patterns for reStructuredText documents
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns to ignore
}

// OutputConfig defines where and how header records are written.
type OutputConfig struct {
	Dir        string `yaml:"dir" mapstructure:"dir"`                 // directory for per-header JSON files
	Format     string `yaml:"format" mapstructure:"format"`           // "json" or "sqlite"
	Indent     int    `yaml:"indent" mapstructure:"indent"`           // JSON indent width, 0 for compact
	SQLitePath string `yaml:"sqlite_path" mapstructure:"sqlite_path"` // database file for the sqlite format
}

// ExtractionConfig tunes the extraction engine.
type ExtractionConfig struct {
	HeaderPatterns []string `yaml:"header_patterns" mapstructure:"header_patterns"` // globs a source file name must match to become a header
	DiagramMarker  string   `yaml:"diagram_marker" mapstructure:"diagram_marker"`   // marker that opts a diagram into dependency scanning
}

// Output formats.
const (
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Docs: []string{"**/*.rst"},
			Ignore: []string{
				".git/**",
				"build/**",
				"node_modules/**",
				".restuml2code/**",
			},
		},
		Output: OutputConfig{
			Dir:        "build/model",
			Format:     FormatJSON,
			Indent:     2,
			SQLitePath: "build/model.db",
		},
		Extraction: ExtractionConfig{
			HeaderPatterns: []string{"*.h"},
			DiagramMarker:  ":restuml2code:",
		},
	}
}
