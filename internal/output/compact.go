package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/taskwatch/internal/board"
	"github.com/twiced-technology-gmbh/taskwatch/internal/poll"
	"github.com/twiced-technology-gmbh/taskwatch/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// SequenceCompact renders one line per sequence.
func SequenceCompact(w io.Writer, seqs []task.Sequence) {
	if len(seqs) == 0 {
		fmt.Fprintln(os.Stderr, "No sequences found.")
		return
	}
	for _, s := range seqs {
		fmt.Fprintln(w, formatSequenceLine(s))
	}
}

// StatusCompact renders the engine health on one line plus any errors.
func StatusCompact(w io.Writer, dir string, cycle uint64, st poll.Status) {
	line := "dir:" + dir + " cycle:" + strconv.FormatUint(cycle, 10) +
		" files:" + strconv.Itoa(st.FileCount) + " errors:" + strconv.Itoa(st.ErrorCount)
	if st.IsPolling {
		line += " polling"
	}
	fmt.Fprintln(w, line)
	for _, e := range st.Errors {
		fmt.Fprintln(w, "  ! "+e)
	}
}

// OverviewCompact renders a board summary in compact format.
func OverviewCompact(w io.Writer, o board.Overview) {
	fmt.Fprintf(w, "%s (%d tasks, %d%%)\n", o.Directory, o.TotalTasks, o.Percent())

	for _, ss := range o.Statuses {
		line := "  " + ss.Status.String() + ": " + strconv.Itoa(ss.Count)
		if ss.Waiting > 0 {
			line += " (" + strconv.Itoa(ss.Waiting) + " waiting)"
		}
		fmt.Fprintln(w, line)
	}
	for _, s := range o.Sequences {
		fmt.Fprintln(w, "  "+formatSequenceLine(s))
	}
	for _, c := range o.Changes {
		fmt.Fprintf(w, "  changed %s %s->%s\n", c.TaskID, c.PreviousStatus, c.NewStatus)
	}
	for _, e := range o.Errors {
		fmt.Fprintln(w, "  ! "+e)
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t task.Task) string {
	line := t.SequenceID + "/" + t.TaskID + " [" + t.Status.String()
	if t.Priority != "" {
		line += "/" + t.Priority
	}
	line += "] " + t.TaskName

	if t.Agent != "" {
		line += " @" + t.Agent
	}
	if len(t.BlockedBy) > 0 {
		line += " after:" + strings.Join(t.BlockedBy, ",")
	}
	return line
}

func formatSequenceLine(s task.Sequence) string {
	return fmt.Sprintf("%s %s %d/%d (%d%%)", s.SequenceID, s.SequenceName,
		s.CompletedTasks, s.TotalTasks, s.Percent())
}
