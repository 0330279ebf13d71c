// Package cmd implements the taskwatch CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/taskwatch/internal/clierr"
	"github.com/twiced-technology-gmbh/taskwatch/internal/config"
	"github.com/twiced-technology-gmbh/taskwatch/internal/output"
	"github.com/twiced-technology-gmbh/taskwatch/internal/poll"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON     bool
	flagYAML     bool
	flagTable    bool
	flagCompact  bool
	flagDir      string
	flagConfig   string
	flagNoColor  bool
	flagLogLevel string
)

// logger is configured in PersistentPreRunE from --log-level.
var logger = slog.New(slog.DiscardHandler)

var rootCmd = &cobra.Command{
	Use:   "taskwatch",
	Short: "Watch markdown task tables and serve their progress",
	Long: `taskwatch reads the task tables in a directory of markdown files, one file
per sequence, and tracks task status across poll cycles.

Run taskwatch without a subcommand to open the interactive board, or use
"taskwatch serve" to expose the snapshot over HTTP.`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	RunE:              runTUI,
	PersistentPreRunE: setupGlobals,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flagJSON, "json", false, "output as JSON")
	pf.BoolVar(&flagYAML, "yaml", false, "output as YAML")
	pf.BoolVar(&flagTable, "table", false, "output as table")
	pf.BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	pf.BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	pf.StringVar(&flagDir, "dir", "", "task directory (overrides the configured one)")
	pf.StringVar(&flagConfig, "config", "", "path to config file (default: user config dir)")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable color output")
	pf.StringVar(&flagLogLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	// Accept --log_level and friends.
	rootCmd.SetGlobalNormalizationFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	jsonMode := flagJSON || os.Getenv("TASKWATCH_OUTPUT") == "json"
	cliErr := clierr.As(err)
	if jsonMode {
		output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
		os.Exit(cliErr.ExitCode())
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	var known *clierr.Error
	if errors.As(err, &known) {
		os.Exit(known.ExitCode())
	}
	os.Exit(1)
}

func setupGlobals(_ *cobra.Command, _ []string) error {
	output.ConfigureColor(os.Stdout, flagNoColor)

	var level slog.Level
	if err := level.UnmarshalText([]byte(flagLogLevel)); err != nil {
		return clierr.Newf(clierr.InvalidInput, "invalid --log-level %q; valid: debug, info, warn, error", flagLogLevel)
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// configStore opens the config file named by --config, or the default one.
func configStore() (*config.Store, error) {
	if flagConfig != "" {
		return config.NewStore(flagConfig), nil
	}
	path, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}
	return config.NewStore(path), nil
}

// resolveDir returns the task directory from --dir or the config file.
func resolveDir(store *config.Store) (string, error) {
	raw := flagDir
	if raw == "" {
		raw = store.Load().Dir()
	}
	if raw == "" {
		return "", clierr.New(clierr.NoDirectory,
			"No task directory configured. Use --dir or 'taskwatch config set directory PATH'.")
	}
	return config.ValidateDirectory(raw)
}

// loadSnapshot runs a single poll cycle over the task directory.
func loadSnapshot(ctx context.Context) (poll.Snapshot, error) {
	store, err := configStore()
	if err != nil {
		return poll.Snapshot{}, err
	}
	dir, err := resolveDir(store)
	if err != nil {
		return poll.Snapshot{}, err
	}

	engine := poll.New(poll.Options{Directory: dir, Logger: logger})
	if _, err := engine.PollOnce(ctx); err != nil {
		return poll.Snapshot{}, err
	}
	snap := engine.Snapshot()
	printWarnings(snap.Status.Errors)
	return snap, nil
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagYAML, flagTable, flagCompact)
}

// printWarnings writes cycle errors and parse warnings to stderr.
func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
}

// writeData encodes data for the machine-readable formats. It reports false
// when the caller should render a human format instead.
func writeData(data any) (bool, error) {
	switch outputFormat() {
	case output.FormatJSON:
		return true, output.JSON(os.Stdout, data)
	case output.FormatYAML:
		return true, output.YAML(os.Stdout, data)
	default:
		return false, nil
	}
}
