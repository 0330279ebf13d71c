package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskwatch/internal/config"
	"github.com/twiced-technology-gmbh/taskwatch/internal/output"
	"github.com/twiced-technology-gmbh/taskwatch/internal/poll"
)

var initCmd = &cobra.Command{
	Use:   "init [DIR]",
	Short: "Point taskwatch at a task directory",
	Long: `Stores DIR (default: the current directory) as the watched task directory
and runs one poll cycle over it, reporting what was found.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().Int("polling-interval", 0, "polling interval in milliseconds (default: keep current)")
	rootCmd.AddCommand(initCmd)
}

// initResult reports a completed init.
type initResult struct {
	Directory string   `json:"directory" yaml:"directory"`
	Previous  string   `json:"previous,omitempty" yaml:"previous,omitempty"`
	Config    string   `json:"config" yaml:"config"`
	Files     int      `json:"files" yaml:"files"`
	Tasks     int      `json:"tasks" yaml:"tasks"`
	Errors    []string `json:"errors" yaml:"errors"`
}

func runInit(cmd *cobra.Command, args []string) error {
	raw := "."
	switch {
	case len(args) == 1:
		raw = args[0]
	case flagDir != "":
		raw = flagDir
	}
	dir, err := config.ValidateDirectory(raw)
	if err != nil {
		return err
	}

	store, err := configStore()
	if err != nil {
		return err
	}
	previous := store.Load().Dir()

	interval, _ := cmd.Flags().GetInt("polling-interval")
	cfg, err := store.Update(func(c *config.Config) error {
		c.SetDir(dir)
		if interval != 0 {
			c.PollingInterval = interval
		}
		return nil
	})
	if err != nil {
		return configError(err)
	}

	engine := poll.New(poll.Options{Directory: dir, Interval: cfg.Interval(), Logger: logger})
	res, err := engine.PollOnce(cmd.Context())
	if err != nil {
		return err
	}
	status := engine.Status()

	result := initResult{
		Directory: dir,
		Config:    store.Path(),
		Files:     res.Files,
		Tasks:     res.Tasks,
		Errors:    status.Errors,
	}
	if previous != dir {
		result.Previous = previous
	}
	if done, err := writeData(result); done {
		return err
	}

	output.Messagef(os.Stdout, "Watching %s", dir)
	if result.Previous != "" {
		output.Messagef(os.Stdout, "  Previously: %s", result.Previous)
	}
	output.Messagef(os.Stdout, "  Config:   %s", result.Config)
	output.Messagef(os.Stdout, "  Interval: %s", cfg.Interval())
	output.Messagef(os.Stdout, "  Found:    %d tasks in %d files", result.Tasks, result.Files)
	printWarnings(result.Errors)
	return nil
}
