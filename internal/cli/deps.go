package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mvp-joe/restuml2code/internal/model"
	"github.com/mvp-joe/restuml2code/internal/pipeline"
	"github.com/mvp-joe/restuml2code/internal/storage"
	"github.com/spf13/cobra"
)

var (
	depsJSON   bool
	depsSQLite string
	depsRun    string
)

// ErrIncludeCycle is returned by deps when headers include each other.
var ErrIncludeCycle = errors.New("include cycle detected")

// depsCmd represents the deps command
var depsCmd = &cobra.Command{
	Use:   "deps [documents...]",
	Short: "Show header include order and include cycles",
	Long: `Deps extracts the documents and prints every header in include order:
each header appears after the headers it includes. Headers that include each
other are reported as cycles and make the command fail.

With --sqlite the model is read from a previous "extract --format sqlite" run
instead of extracting the documents again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			reg *model.Registry
			err error
		)
		if depsSQLite != "" {
			reg, err = loadStoredRun(depsSQLite, depsRun)
		} else {
			reg, err = extractRegistry(cmd.Context(), args)
		}
		if err != nil {
			return err
		}
		return runDeps(reg, cmd.OutOrStdout(), depsJSON)
	},
}

func init() {
	rootCmd.AddCommand(depsCmd)
	depsCmd.Flags().BoolVar(&depsJSON, "json", false, "print the result as json")
	depsCmd.Flags().StringVar(&depsSQLite, "sqlite", "", "read the model from this sqlite export instead of extracting")
	depsCmd.Flags().StringVar(&depsRun, "run", "", "run ID to read with --sqlite (default is the latest run)")
}

// extractRegistry extracts the given documents, or the discovered ones, into one registry.
func extractRegistry(ctx context.Context, args []string) (*model.Registry, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	docs, err := resolveDocuments(extractOptions{root: root, docs: args, cfg: cfg})
	if err != nil {
		return nil, err
	}

	runner := pipeline.NewRunner(pipeline.Options{
		HeaderPatterns: cfg.Extraction.HeaderPatterns,
		DiagramMarker:  cfg.Extraction.DiagramMarker,
		Logger:         slog.Default(),
	})
	res, err := runner.Run(ctx, docs)
	if err != nil {
		return nil, err
	}
	return res.Registry, nil
}

// loadStoredRun reads runID, or the latest run when empty, from the sqlite export at path.
func loadStoredRun(path, runID string) (*model.Registry, error) {
	r, err := storage.OpenSQLiteReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if runID == "" {
		if runID, err = r.LatestRun(""); err != nil {
			return nil, err
		}
	}
	slog.Debug("reading stored run", "run", runID, "db", path)
	return r.ReadRun(runID)
}

// depsReport is the --json output of deps.
type depsReport struct {
	Order  []string   `json:"order"`
	Cycles [][]string `json:"cycles"`
}

func runDeps(reg *model.Registry, out io.Writer, asJSON bool) error {
	report := depsReport{Order: []string{}, Cycles: [][]string{}}
	cycles, err := reg.IncludeCycles()
	if err != nil {
		return err
	}
	if len(cycles) > 0 {
		report.Cycles = cycles
	} else {
		order, err := reg.IncludeOrder()
		if err != nil {
			return err
		}
		report.Order = order
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	} else {
		printDeps(out, report)
	}

	if len(report.Cycles) > 0 {
		return fmt.Errorf("%w: %d cycle(s)", ErrIncludeCycle, len(report.Cycles))
	}
	return nil
}

func printDeps(out io.Writer, report depsReport) {
	if len(report.Cycles) > 0 {
		fmt.Fprintln(out, "Include cycles:")
		for _, c := range report.Cycles {
			fmt.Fprintf(out, "  %s\n", strings.Join(c, " <-> "))
		}
		return
	}
	fmt.Fprintln(out, "Include order:")
	for i, name := range report.Order {
		fmt.Fprintf(out, "  %d. %s\n", i+1, name)
	}
}
