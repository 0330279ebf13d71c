package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskwatch/internal/board"
	"github.com/twiced-technology-gmbh/taskwatch/internal/clierr"
	"github.com/twiced-technology-gmbh/taskwatch/internal/output"
	"github.com/twiced-technology-gmbh/taskwatch/internal/poll"
	"github.com/twiced-technology-gmbh/taskwatch/internal/watcher"
)

var flagWatch bool

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"summary", "status"},
	Short:   "Show board summary",
	Long: `Displays a summary of the task directory: task counts per status, tasks
waiting on dependencies, per-sequence progress, the changes detected in the
last cycle, and any file errors.

Use --watch to keep the display live-updating. The board re-renders after every
poll cycle, and file changes on disk trigger an early cycle. Press Ctrl+C to stop.`,
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "live-update the board after every poll cycle")
	boardCmd.Flags().Duration("interval", 0, "poll interval in watch mode (default from config)")
	boardCmd.Flags().String("group-by", "", "group board by field ("+strings.Join(board.ValidGroupByFields(), ", ")+")")
}

func runBoard(cmd *cobra.Command, _ []string) error {
	groupBy, _ := cmd.Flags().GetString("group-by")
	if groupBy != "" && !slices.Contains(board.ValidGroupByFields(), groupBy) {
		return clierr.Newf(clierr.InvalidGroupBy, "invalid --group-by field %q; valid: %s",
			groupBy, strings.Join(board.ValidGroupByFields(), ", "))
	}

	if !flagWatch {
		snap, err := loadSnapshot(cmd.Context())
		if err != nil {
			return err
		}
		return renderBoard(snap, groupBy)
	}

	interval, _ := cmd.Flags().GetDuration("interval")
	return watchBoard(interval, groupBy)
}

func renderBoard(snap poll.Snapshot, groupBy string) error {
	if groupBy != "" {
		grouped := board.GroupBy(snap.Tasks, groupBy)
		if done, err := writeData(grouped); done {
			return err
		}
		output.GroupedTable(os.Stdout, grouped)
		return nil
	}

	summary := board.Summary(snap.Directory, snap.Cycle, snap.Tasks, snap.Sequences, snap.Changes, snap.Status.Errors)
	if done, err := writeData(summary); done {
		return err
	}
	if outputFormat() == output.FormatCompact {
		output.OverviewCompact(os.Stdout, summary)
		return nil
	}
	output.OverviewTable(os.Stdout, summary)
	return nil
}

func watchBoard(interval time.Duration, groupBy string) error {
	store, err := configStore()
	if err != nil {
		return err
	}
	dir, err := resolveDir(store)
	if err != nil {
		return err
	}
	if interval <= 0 {
		interval = store.Load().Interval()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var engine *poll.Engine
	engine = poll.New(poll.Options{
		Directory: dir,
		Interval:  interval,
		Logger:    logger,
		OnCycle: func(poll.Result) {
			clearScreen()
			if renderErr := renderBoard(engine.Snapshot(), groupBy); renderErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: rendering board: %v\n", renderErr)
			}
		},
	})
	engine.Start()
	defer engine.Stop()

	w, err := watcher.New(dir, engine.Trigger)
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		fmt.Fprintf(os.Stderr, "Warning: file watcher: %v\n", watchErr)
	})
	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}
