package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mvp-joe/restuml2code/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "restuml2code",
	Short: "Extract C header models from reStructuredText interface specifications",
	Long: `restuml2code reads reStructuredText documents describing a C software
element (attribute tables for functions, types, macros and variables, plus a
PlantUML include diagram) and produces one machine-readable model per header
file for code generators.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(newLogger(cmd.ErrOrStderr(), verbose))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.restuml2code/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// newLogger builds the text logger used by all commands.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig loads the --config file when given, otherwise the project config
// of the working directory.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.NewFileLoader(cfgFile).Load()
	}
	return config.LoadConfig()
}
