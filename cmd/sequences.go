package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskwatch/internal/board"
	"github.com/twiced-technology-gmbh/taskwatch/internal/output"
	"github.com/twiced-technology-gmbh/taskwatch/internal/task"
)

var sequencesCmd = &cobra.Command{
	Use:     "sequences [ID]",
	Aliases: []string{"seq", "progress"},
	Short:   "Show per-sequence progress",
	Long: `Shows completion progress for every sequence in the task directory, or the
tasks of a single sequence when an ID is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSequences,
}

func init() {
	rootCmd.AddCommand(sequencesCmd)
}

// sequenceDetail is the machine-readable form of a single sequence.
type sequenceDetail struct {
	task.Sequence `yaml:",inline"`
	Tasks         []task.Task `json:"tasks" yaml:"tasks"`
}

func runSequences(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot(cmd.Context())
	if err != nil {
		return err
	}

	if len(args) == 0 {
		seqs := snap.Sequences
		if done, err := writeData(seqs); done {
			return err
		}
		if outputFormat() == output.FormatCompact {
			output.SequenceCompact(os.Stdout, seqs)
			return nil
		}
		output.SequenceTable(os.Stdout, seqs)
		return nil
	}

	seq, err := board.FindSequence(snap.Sequences, args[0])
	if err != nil {
		return err
	}
	tasks := board.List(snap.Tasks, board.ListOptions{
		Filter: board.FilterOptions{Sequences: []string{seq.SequenceID}},
	})
	if done, err := writeData(sequenceDetail{Sequence: seq, Tasks: tasks}); done {
		return err
	}
	if outputFormat() == output.FormatCompact {
		output.SequenceCompact(os.Stdout, []task.Sequence{seq})
		output.TaskCompact(os.Stdout, tasks)
		return nil
	}
	output.SequenceDetail(os.Stdout, seq, tasks, board.NewResolver(snap.Tasks))
	return nil
}
