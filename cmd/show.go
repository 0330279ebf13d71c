package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/taskwatch/internal/clierr"
	"github.com/twiced-technology-gmbh/taskwatch/internal/output"
	"github.com/twiced-technology-gmbh/taskwatch/internal/task"
)

const defaultWrapWidth = 100

var showCmd = &cobra.Command{
	Use:   "show FILE",
	Short: "Render a sequence file and what was parsed from it",
	Long: `Renders a markdown sequence file and summarizes the tasks parsed from it,
including any warnings for malformed rows. FILE may be a path or the name of a
file in the task directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().Bool("raw", false, "print the markdown source without rendering")
	rootCmd.AddCommand(showCmd)
}

// showResult is the machine-readable form of a parsed file.
type showResult struct {
	Sequence task.Sequence `json:"sequence" yaml:"sequence"`
	Tasks    []task.Task   `json:"tasks" yaml:"tasks"`
	Warnings []string      `json:"warnings" yaml:"warnings"`
}

func runShow(cmd *cobra.Command, args []string) error {
	path, err := resolveFile(args[0])
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return fileNotFound(args[0], err)
	}
	content, err := os.ReadFile(path) //nolint:gosec // user-named file
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	res := task.ParseAt(string(content), filepath.Base(path), info.ModTime())

	tasks, warnings := res.Tasks, res.Warnings
	if tasks == nil {
		tasks = []task.Task{}
	}
	if warnings == nil {
		warnings = []string{}
	}
	if done, err := writeData(showResult{Sequence: res.Sequence, Tasks: tasks, Warnings: warnings}); done {
		return err
	}
	if outputFormat() == output.FormatCompact {
		output.SequenceCompact(os.Stdout, []task.Sequence{res.Sequence})
		output.TaskCompact(os.Stdout, tasks)
		printWarnings(warnings)
		return nil
	}

	raw, _ := cmd.Flags().GetBool("raw")
	rendered, err := renderMarkdown(string(content), raw)
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, rendered)
	fmt.Fprintln(os.Stdout)
	output.ParseSummary(os.Stdout, res)
	return nil
}

// resolveFile accepts an existing path, or a file name relative to the task
// directory.
func resolveFile(arg string) (string, error) {
	if _, err := os.Stat(arg); err == nil || filepath.IsAbs(arg) {
		return arg, nil
	}
	store, err := configStore()
	if err != nil {
		return "", err
	}
	dir, err := resolveDir(store)
	if err != nil {
		return "", fileNotFound(arg, err)
	}
	return filepath.Join(dir, filepath.Base(arg)), nil
}

func fileNotFound(name string, err error) error {
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) && cliErr.Code == clierr.NoDirectory {
		return cliErr
	}
	if errors.Is(err, fs.ErrNotExist) || cliErr != nil {
		return clierr.Newf(clierr.FileNotFound, "file %q not found", name)
	}
	return err
}

// renderMarkdown renders md with glamour when stdout is a terminal and color
// is enabled; otherwise it uses glamour's plain style, or returns md as-is
// when raw is set.
func renderMarkdown(md string, raw bool) (string, error) {
	if raw {
		return md, nil
	}

	fd := int(os.Stdout.Fd()) //nolint:gosec // fd fits in int
	width := defaultWrapWidth
	opts := []glamour.TermRendererOption{}
	if term.IsTerminal(fd) && !flagNoColor && os.Getenv("NO_COLOR") == "" {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = min(w, defaultWrapWidth)
		}
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	}
	opts = append(opts, glamour.WithWordWrap(width))

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
