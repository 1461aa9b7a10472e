package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/mvp-joe/restuml2code/internal/pipeline"
	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter implements pipeline.ProgressReporter with a progress bar.
type CLIProgressReporter struct {
	out    io.Writer
	quiet  bool
	docBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a new CLI progress reporter writing to out.
func NewCLIProgressReporter(out io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{out: out, quiet: quiet}
}

func (c *CLIProgressReporter) OnStart(totalDocs int) {
	if c.quiet || totalDocs < 2 {
		return
	}
	c.docBar = progressbar.NewOptions(totalDocs,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Extracting documents"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnDocumentProcessed(path string, headers int) {
	if c.quiet {
		return
	}
	if c.docBar != nil {
		c.docBar.Describe(filepath.Base(path))
		c.docBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnComplete(stats *pipeline.Stats) {
	if c.quiet {
		return
	}
	if c.docBar != nil {
		c.docBar.Finish()
		c.docBar = nil
	}
	fmt.Fprintf(c.out, "✓ Extraction complete: %s headers, %s elements from %s documents in %.1fs\n",
		formatNumber(stats.Headers),
		formatNumber(stats.Elements),
		formatNumber(stats.Documents),
		stats.Duration.Seconds())
	if stats.Warnings > 0 {
		fmt.Fprintf(c.out, "  Warnings: %s\n", formatNumber(stats.Warnings))
	}
}

// formatNumber formats integer with thousand separators.
// Examples: 1234 -> "1,234", 1234567 -> "1,234,567"
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
