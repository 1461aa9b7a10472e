package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mvp-joe/restuml2code/internal/config"
	"github.com/mvp-joe/restuml2code/internal/discovery"
	"github.com/mvp-joe/restuml2code/internal/pipeline"
	"github.com/mvp-joe/restuml2code/internal/storage"
	"github.com/mvp-joe/restuml2code/internal/watcher"
	"github.com/spf13/cobra"
)

var (
	extractOut            string
	extractFormat         string
	extractIndent         int
	extractSQLitePath     string
	extractHeaderPatterns []string
	extractStdout         bool
	extractWatch          bool
	extractQuiet          bool
)

// ErrNoDocuments is returned when neither arguments nor discovery yield a document.
var ErrNoDocuments = errors.New("no documents to extract")

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [documents...]",
	Short: "Extract header models from reStructuredText documents",
	Long: `Extract reads the given reStructuredText documents, or every document
matched by paths.docs in the project configuration, and writes one model per
header file.

Output formats:
  json    one <header>.json file per header in output.dir (default)
  sqlite  one run per invocation in output.sqlite_path

With --stdout all headers are written to standard output as a single JSON
object keyed by header name.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyExtractFlags(cmd, cfg)
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		root, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		opts := extractOptions{
			root:   root,
			docs:   args,
			cfg:    cfg,
			stdout: extractStdout,
			quiet:  extractQuiet,
			out:    cmd.OutOrStdout(),
			status: cmd.ErrOrStderr(),
		}
		if extractWatch {
			return watchExtract(ctx, opts)
		}
		_, err = runExtract(ctx, opts)
		return err
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "output directory for json files (overrides output.dir)")
	extractCmd.Flags().StringVar(&extractFormat, "format", "", "output format: json or sqlite (overrides output.format)")
	extractCmd.Flags().IntVar(&extractIndent, "indent", 0, "json indent width, 0 for compact (overrides output.indent)")
	extractCmd.Flags().StringVar(&extractSQLitePath, "sqlite", "", "sqlite database path (overrides output.sqlite_path)")
	extractCmd.Flags().StringSliceVar(&extractHeaderPatterns, "header-pattern", nil, "glob a described source file must match to be a header (overrides extraction.header_patterns)")
	extractCmd.Flags().BoolVar(&extractStdout, "stdout", false, "write all headers as one json object to stdout")
	extractCmd.Flags().BoolVarP(&extractWatch, "watch", "w", false, "re-extract when documents change")
	extractCmd.Flags().BoolVarP(&extractQuiet, "quiet", "q", false, "suppress progress output")
}

// applyExtractFlags overlays explicitly set flags on cfg.
func applyExtractFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Output.Dir = extractOut
	}
	if flags.Changed("format") {
		cfg.Output.Format = strings.ToLower(extractFormat)
	}
	if flags.Changed("indent") {
		cfg.Output.Indent = extractIndent
	}
	if flags.Changed("sqlite") {
		cfg.Output.SQLitePath = extractSQLitePath
		if !flags.Changed("format") {
			cfg.Output.Format = config.FormatSQLite
		}
	}
	if flags.Changed("header-pattern") {
		cfg.Extraction.HeaderPatterns = extractHeaderPatterns
	}
}

type extractOptions struct {
	root   string
	docs   []string
	cfg    *config.Config
	stdout bool
	quiet  bool
	out    io.Writer // model output for --stdout
	status io.Writer // progress and summaries
	runner *pipeline.Runner
}

func newRunner(opts extractOptions) *pipeline.Runner {
	return pipeline.NewRunner(pipeline.Options{
		HeaderPatterns: opts.cfg.Extraction.HeaderPatterns,
		DiagramMarker:  opts.cfg.Extraction.DiagramMarker,
		Logger:         slog.Default(),
		Progress:       NewCLIProgressReporter(opts.status, opts.quiet || opts.stdout),
	})
}

// resolveDocuments returns the explicit documents, or discovers them under root.
func resolveDocuments(opts extractOptions) ([]string, error) {
	if len(opts.docs) > 0 {
		return opts.docs, nil
	}
	m, err := discovery.NewMatcher(opts.cfg.Paths.Docs, opts.cfg.Paths.Ignore)
	if err != nil {
		return nil, fmt.Errorf("invalid document patterns: %w", err)
	}
	docs, err := discovery.Discover(opts.root, m)
	if err != nil {
		return nil, fmt.Errorf("failed to discover documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	return docs, nil
}

// runExtract extracts the documents once and writes the model. opts.runner is
// used when set so repeated runs share its document cache.
func runExtract(ctx context.Context, opts extractOptions) (*pipeline.Result, error) {
	docs, err := resolveDocuments(opts)
	if err != nil {
		return nil, err
	}

	runner := opts.runner
	if runner == nil {
		runner = newRunner(opts)
	}
	res, err := runner.Run(ctx, docs)
	if err != nil {
		return nil, err
	}

	if err := writeModel(opts, docs, res); err != nil {
		return nil, err
	}
	return res, nil
}

func writeModel(opts extractOptions, docs []string, res *pipeline.Result) error {
	out := opts.cfg.Output

	if opts.stdout {
		return storage.NewJSONWriter(out.Indent).WriteCombined(opts.out, res.Registry)
	}

	switch out.Format {
	case config.FormatSQLite:
		if err := os.MkdirAll(filepath.Dir(out.SQLitePath), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
		w, err := storage.OpenSQLiteWriter(out.SQLitePath)
		if err != nil {
			return err
		}
		defer w.Close()
		stored := make([]storage.Document, 0, len(res.Documents))
		for _, d := range res.Documents {
			stored = append(stored, storage.Document{Path: d.Path, Hash: d.Hash})
		}
		runID, err := w.WriteRun(strings.Join(docs, ","), res.Registry, stored...)
		if err != nil {
			return err
		}
		slog.Debug("stored run", "run", runID, "db", out.SQLitePath)
		if !opts.quiet {
			fmt.Fprintf(opts.status, "  Run %s written to %s\n", runID, out.SQLitePath)
		}

	default:
		written, err := storage.NewJSONWriter(out.Indent).WriteDir(out.Dir, res.Registry)
		if err != nil {
			return err
		}
		for _, path := range written {
			slog.Debug("wrote header", "path", path)
		}
		if !opts.quiet {
			fmt.Fprintf(opts.status, "  Wrote %s files to %s\n", formatNumber(len(written)), out.Dir)
		}
	}
	return nil
}

// watchExtract extracts once, then again whenever a watched document changes.
// Extraction errors are reported and watching continues.
func watchExtract(ctx context.Context, opts extractOptions) error {
	patterns := opts.cfg.Paths.Docs
	if len(opts.docs) > 0 {
		patterns = make([]string, 0, len(opts.docs))
		for _, d := range opts.docs {
			rel, err := filepath.Rel(opts.root, absPath(opts.root, d))
			if err != nil {
				return err
			}
			patterns = append(patterns, filepath.ToSlash(rel))
		}
	}
	m, err := discovery.NewMatcher(patterns, opts.cfg.Paths.Ignore)
	if err != nil {
		return fmt.Errorf("invalid document patterns: %w", err)
	}

	opts.runner = newRunner(opts)
	if _, err := runExtract(ctx, opts); err != nil {
		slog.Error("extraction failed", "error", err)
	}

	w, err := watcher.New(opts.root, m, watcher.WithLogger(slog.Default()))
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Stop()

	w.Start(ctx, func(changed []string) {
		slog.Info("documents changed", "files", changed)
		res, err := runExtract(ctx, opts)
		if err != nil {
			slog.Error("extraction failed", "error", err)
			return
		}
		slog.Debug("re-extracted", "documents", res.Stats.Documents, "unchanged", res.Stats.Cached)
	})

	if !opts.quiet {
		fmt.Fprintln(opts.status, "Watching for changes (Ctrl+C to stop)...")
	}
	<-ctx.Done()
	return nil
}

func absPath(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
