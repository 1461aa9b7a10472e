// Package pipeline runs extraction over a set of documents and merges the
// results into one model.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/mvp-joe/restuml2code/internal/extract"
	"github.com/mvp-joe/restuml2code/internal/model"
	"github.com/mvp-joe/restuml2code/internal/rst"
	"github.com/mvp-joe/restuml2code/internal/uml"
)

// ProgressReporter receives progress notifications while documents are processed.
type ProgressReporter interface {
	OnStart(totalDocs int)
	OnDocumentProcessed(path string, headers int)
	OnComplete(stats *Stats)
}

// NoOpProgressReporter discards all notifications.
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) OnStart(int) {}
func (NoOpProgressReporter) OnDocumentProcessed(string, int) {}
func (NoOpProgressReporter) OnComplete(*Stats) {}

// Options configures a Runner.
type Options struct {
	HeaderPatterns []string
	DiagramMarker  string
	Logger         *slog.Logger
	Progress       ProgressReporter
}

// Stats summarises a run.
type Stats struct {
	Documents int
	Cached    int
	Headers   int
	Elements  int
	Warnings  int
	Duration  time.Duration
}

// Result is the merged model of a run.
type Result struct {
	Registry  *model.Registry
	Documents []DocumentInfo
	Warnings  []DocumentWarning
	Stats     Stats
}

// DocumentInfo identifies a processed document by its content hash.
type DocumentInfo struct {
	Path    string
	Hash    string
	Headers int
	Cached  bool
}

// DocumentWarning is an extraction warning tagged with its document.
type DocumentWarning struct {
	Source string
	extract.Warning
}

func (w DocumentWarning) String() string {
	return w.Source + ":" + w.Warning.String()
}

// Runner parses and extracts documents. Results are cached per path and content
// hash, so running again over unchanged documents skips their extraction.
type Runner struct {
	parser   *rst.Parser
	opts     Options
	logger   *slog.Logger
	progress ProgressReporter

	mu    sync.Mutex
	cache map[string]cachedDocument
}

type cachedDocument struct {
	hash   string
	result *extract.Result
}

// NewRunner creates a runner.
func NewRunner(opts Options) *Runner {
	if opts.DiagramMarker == "" {
		opts.DiagramMarker = uml.DefaultMarker
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	progress := opts.Progress
	if progress == nil {
		progress = NoOpProgressReporter{}
	}
	return &Runner{
		parser:   rst.NewParser(rst.WithDiagramMarker(opts.DiagramMarker)),
		opts:     opts,
		logger:   logger,
		progress: progress,
		cache:    make(map[string]cachedDocument),
	}
}

// Run extracts every document in order. Each document is extracted into its
// own registry so its global fields only reach its own headers; the
// registries are then merged. The first failing document aborts the run.
func (r *Runner) Run(ctx context.Context, paths []string) (*Result, error) {
	start := time.Now()
	r.progress.OnStart(len(paths))

	merged := model.NewRegistry()
	var (
		warnings []DocumentWarning
		docs     []DocumentInfo
		cached   int
	)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		hash := ContentHash(data)

		res, hit := r.lookup(path, hash)
		if hit {
			cached++
			r.logger.Debug("document unchanged", "doc", path, "hash", hash)
		} else {
			res, err = r.Document(path, string(data))
			if err != nil {
				return nil, err
			}
			r.store(path, hash, res)
		}

		for _, w := range res.Warnings {
			warnings = append(warnings, DocumentWarning{Source: path, Warning: w})
		}
		merged.Merge(res.Registry)
		docs = append(docs, DocumentInfo{Path: path, Hash: hash, Headers: res.Registry.Len(), Cached: hit})
		r.progress.OnDocumentProcessed(path, res.Registry.Len())
	}

	stats := Stats{
		Documents: len(paths),
		Cached:    cached,
		Headers:   merged.Len(),
		Elements:  countElements(merged),
		Warnings:  len(warnings),
		Duration:  time.Since(start),
	}
	r.progress.OnComplete(&stats)

	return &Result{Registry: merged, Documents: docs, Warnings: warnings, Stats: stats}, nil
}

func (r *Runner) lookup(path, hash string) (*extract.Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cache[path]
	if !ok || c.hash != hash {
		return nil, false
	}
	return c.result, true
}

func (r *Runner) store(path, hash string, res *extract.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[path] = cachedDocument{hash: hash, result: res}
}

// ContentHash returns the hex xxhash of a document's content.
func ContentHash(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// Document extracts a single document from its text.
func (r *Runner) Document(source, text string) (*extract.Result, error) {
	doc, err := r.parser.Parse(source, text)
	if err != nil {
		return nil, err
	}

	opts := []extract.Option{
		extract.WithLogger(r.logger.With("doc", source)),
		extract.WithDiagramMarker(r.opts.DiagramMarker),
	}
	if len(r.opts.HeaderPatterns) > 0 {
		opts = append(opts, extract.WithHeaderPatterns(r.opts.HeaderPatterns...))
	}
	return extract.Extract(doc, opts...)
}

func countElements(reg *model.Registry) int {
	n := 0
	for _, h := range reg.Headers() {
		n += len(h.Functions) + len(h.Types) + len(h.MacroConstants) +
			len(h.MacroFunctions) + len(h.Variables)
	}
	return n
}
