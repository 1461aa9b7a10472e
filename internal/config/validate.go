package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrInvalidFormat indicates an unsupported output format
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrInvalidIndent indicates a negative JSON indent
	ErrInvalidIndent = errors.New("invalid indent")

	// ErrEmptyOutput indicates a missing output location
	ErrEmptyOutput = errors.New("empty output location")

	// ErrInvalidPattern indicates a glob pattern that does not compile
	ErrInvalidPattern = errors.New("invalid glob pattern")

	// ErrEmptyMarker indicates a missing diagram marker
	ErrEmptyMarker = errors.New("empty diagram marker")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}
	if err := validateOutput(&cfg.Output); err != nil {
		errs = append(errs, err)
	}
	if err := validateExtraction(&cfg.Extraction); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validatePaths(cfg *PathsConfig) error {
	// Empty docs is allowed: documents may be named on the command line.
	return validatePatterns("paths", append(append([]string{}, cfg.Docs...), cfg.Ignore...), '/')
}

func validateOutput(cfg *OutputConfig) error {
	var errs []error

	switch strings.ToLower(cfg.Format) {
	case FormatJSON:
		if strings.TrimSpace(cfg.Dir) == "" {
			errs = append(errs, fmt.Errorf("%w: dir is required for the json format", ErrEmptyOutput))
		}
	case FormatSQLite:
		if strings.TrimSpace(cfg.SQLitePath) == "" {
			errs = append(errs, fmt.Errorf("%w: sqlite_path is required for the sqlite format", ErrEmptyOutput))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: must be 'json' or 'sqlite', got '%s'", ErrInvalidFormat, cfg.Format))
	}

	if cfg.Indent < 0 {
		errs = append(errs, fmt.Errorf("%w: indent cannot be negative, got %d", ErrInvalidIndent, cfg.Indent))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateExtraction(cfg *ExtractionConfig) error {
	var errs []error

	if err := validatePatterns("header_patterns", cfg.HeaderPatterns); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(cfg.DiagramMarker) == "" {
		errs = append(errs, fmt.Errorf("%w: diagram_marker is required", ErrEmptyMarker))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validatePatterns(field string, patterns []string, separators ...rune) error {
	var errs []error
	for _, p := range patterns {
		if _, err := glob.Compile(p, separators...); err != nil {
			errs = append(errs, fmt.Errorf("%w in %s: %q: %v", ErrInvalidPattern, field, p, err))
		}
	}
	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
