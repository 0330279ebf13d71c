package cmd

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskwatch/internal/poll"
	"github.com/twiced-technology-gmbh/taskwatch/internal/tui"
	"github.com/twiced-technology-gmbh/taskwatch/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive board",
	Long: `Opens a read-only kanban board with one column per status. The board
refreshes after every poll cycle; file changes trigger an early cycle.`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().Duration("interval", 0, "poll interval (default from config)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	store, err := configStore()
	if err != nil {
		return err
	}
	dir, err := resolveDir(store)
	if err != nil {
		return err
	}
	interval := store.Load().Interval()
	if f := cmd.Flags().Lookup("interval"); f != nil && f.Changed {
		interval, _ = cmd.Flags().GetDuration("interval")
	}

	var p *tea.Program
	engine := poll.New(poll.Options{
		Directory: dir,
		Interval:  interval,
		// The TUI owns the terminal.
		Logger: slog.New(slog.DiscardHandler),
		OnCycle: func(poll.Result) {
			p.Send(tui.ReloadMsg{})
		},
	})

	model := tui.NewBoard(engine, engine.Trigger)
	p = tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	engine.Start()
	defer engine.Stop()
	go startTUIWatcher(ctx, dir, engine)

	_, err = p.Run()
	return err
}

func startTUIWatcher(ctx context.Context, dir string, engine *poll.Engine) {
	w, err := watcher.New(dir, engine.Trigger)
	if err != nil {
		return // non-fatal: the poll interval still refreshes the board
	}
	defer w.Close()
	w.Run(ctx, nil)
}
