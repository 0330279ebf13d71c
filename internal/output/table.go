package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/taskwatch/internal/board"
	"github.com/twiced-technology-gmbh/taskwatch/internal/poll"
	"github.com/twiced-technology-gmbh/taskwatch/internal/task"
)

const progressBarWidth = 20

var (
	colorEnabled = true

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	agentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("44")).Bold(true)
	waitingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	priorityStyles = map[string]lipgloss.Style{
		"critical": lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		"high":     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"medium":   lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		"low":      lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}
)

// DisableColor strips all styling from table output.
func DisableColor() {
	colorEnabled = false
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	titleStyle = lipgloss.NewStyle()
	warnStyle = lipgloss.NewStyle()
	agentStyle = lipgloss.NewStyle()
	waitingStyle = lipgloss.NewStyle()
	priorityStyles = map[string]lipgloss.Style{}
}

func statusText(s task.Status) string {
	if !colorEnabled {
		return s.String()
	}
	return lipgloss.NewStyle().Foreground(StatusColor(s)).Render(s.String())
}

func sequenceText(id string) string {
	if !colorEnabled {
		return id
	}
	return lipgloss.NewStyle().Foreground(SequenceColor(id)).Bold(true).Render(id)
}

// TaskTable renders a list of tasks as a formatted table. Dependencies that
// are not yet satisfied are highlighted when r is non-nil.
func TaskTable(w io.Writer, tasks []task.Task, r *board.Resolver) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	seqW, idW, statusW, agentW, prioW, nameW := 5, 4, 8, 7, 10, 6
	for _, t := range tasks {
		idW = max(idW, len(t.TaskID)+pad)
		agentW = max(agentW, len(t.Agent)+pad)
		prioW = max(prioW, len(t.Priority)+pad)
		nameW = max(nameW, min(len(t.TaskName)+pad, 50)) //nolint:mnd // max name column width
	}
	statusW = max(statusW, len("in-progress")+pad)

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s %s",
		seqW, "SEQ", idW, "ID", statusW, "STATUS", agentW, "AGENT",
		prioW, "PRIORITY", nameW, "NAME", "BLOCKED BY")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		name := t.TaskName
		const maxName = 48
		if len(name) > maxName {
			name = name[:maxName-3] + "..."
		}

		row := fmt.Sprintf("%s %s %s %s %s %s %s",
			padRight(sequenceText(t.SequenceID), seqW),
			padRight(t.TaskID, idW),
			padRight(statusText(t.Status), statusW),
			padRight(agentDisplay(t.Agent), agentW),
			padRight(priorityDisplay(t.Priority), prioW),
			padRight(name, nameW),
			blockedByDisplay(t, r))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// SequenceTable renders per-sequence progress bars.
func SequenceTable(w io.Writer, seqs []task.Sequence) {
	if len(seqs) == 0 {
		fmt.Fprintln(os.Stderr, "No sequences found.")
		return
	}

	nameW := 8
	for _, s := range seqs {
		nameW = max(nameW, min(len(s.SequenceName)+2, 40)) //nolint:mnd // max name column width
	}

	header := fmt.Sprintf("%-5s %-*s %-*s %9s %s",
		"SEQ", nameW, "NAME", progressBarWidth+5, "PROGRESS", "DONE", "BREAKDOWN")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, s := range seqs {
		name := s.SequenceName
		if len(name) > nameW-2 {
			name = name[:nameW-5] + "..."
		}
		fmt.Fprintf(w, "%s %s %s %4d%% %3d/%-3d %s\n",
			padRight(sequenceText(s.SequenceID), 5), //nolint:mnd // seq column width
			padRight(name, nameW),
			progressBar(s.SequenceID, s.CompletedTasks, s.TotalTasks),
			s.Percent(), s.CompletedTasks, s.TotalTasks,
			breakdownDisplay(s.StatusBreakdown))
	}
}

// SequenceDetail renders one sequence with its tasks.
func SequenceDetail(w io.Writer, s task.Sequence, tasks []task.Task, r *board.Resolver) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Sequence %s: %s", s.SequenceID, s.SequenceName)))
	printField(w, "File", s.SourceFile)
	printField(w, "Progress", fmt.Sprintf("%s %d%% (%d/%d)",
		progressBar(s.SequenceID, s.CompletedTasks, s.TotalTasks), s.Percent(), s.CompletedTasks, s.TotalTasks))
	printField(w, "Breakdown", breakdownDisplay(s.StatusBreakdown))
	if !s.LastModified.IsZero() {
		printField(w, "Modified", s.LastModified.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(w)
	TaskTable(w, tasks, r)
}

// StatusTable renders the engine health.
func StatusTable(w io.Writer, dir string, cycle uint64, st poll.Status) {
	printField(w, "Directory", stringOrDash(dir))
	printField(w, "Polling", strconv.FormatBool(st.IsPolling))
	printField(w, "Cycle", strconv.FormatUint(cycle, 10))
	if st.LastPollTime != nil {
		printField(w, "Last poll", st.LastPollTime.Local().Format("2006-01-02 15:04:05"))
	} else {
		printField(w, "Last poll", dimStyle.Render("--"))
	}
	printField(w, "Files", strconv.Itoa(st.FileCount))
	printField(w, "Errors", strconv.Itoa(st.ErrorCount))
	errorList(w, st.Errors)
}

// OverviewTable renders a board summary as a formatted dashboard.
func OverviewTable(w io.Writer, o board.Overview) {
	fmt.Fprintln(w, titleStyle.Render(o.Directory))
	fmt.Fprintf(w, "Total: %d tasks, %d%% complete (cycle %d)\n\n", o.TotalTasks, o.Percent(), o.Cycle)

	const statusColW = 16
	header := fmt.Sprintf("%-*s %6s %8s", statusColW, "STATUS", "COUNT", "WAITING")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, ss := range o.Statuses {
		waiting := dimStyle.Render(fmt.Sprintf("%8s", "--"))
		if ss.Waiting > 0 {
			waiting = waitingStyle.Render(fmt.Sprintf("%8d", ss.Waiting))
		}
		fmt.Fprintf(w, "%s %6d %s\n", padRight(statusText(ss.Status), statusColW), ss.Count, waiting)
	}

	if len(o.Sequences) > 0 {
		fmt.Fprintln(w)
		SequenceTable(w, o.Sequences)
	}

	if len(o.Changes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("RECENT CHANGES"))
		for _, c := range o.Changes {
			fmt.Fprintf(w, "  %s %s -> %s\n", padRight(c.TaskID, 10), //nolint:mnd // id column width
				statusText(c.PreviousStatus), statusText(c.NewStatus))
		}
	}

	if len(o.Errors) > 0 {
		fmt.Fprintln(w)
		errorList(w, o.Errors)
	}
}

// GroupedTable renders a grouped board view with per-group status breakdowns.
func GroupedTable(w io.Writer, gs board.GroupedSummary) {
	if len(gs.Groups) == 0 {
		fmt.Fprintln(os.Stderr, "No groups found.")
		return
	}

	for i, g := range gs.Groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s (%d tasks)", g.Key, g.Total)))

		for _, ss := range g.Statuses {
			if ss.Count == 0 {
				continue
			}
			const groupStatusW = 16
			fmt.Fprintf(w, "  %s %d\n", padRight(statusText(ss.Status), groupStatusW), ss.Count)
		}
	}
}

// ParseSummary renders what was extracted from a single file.
func ParseSummary(w io.Writer, res task.ParseResult) {
	s := res.Sequence
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Sequence %s: %s", s.SequenceID, s.SequenceName)))
	printField(w, "Tasks", strconv.Itoa(s.TotalTasks))
	printField(w, "Completed", fmt.Sprintf("%d (%d%%)", s.CompletedTasks, s.Percent()))
	printField(w, "Breakdown", breakdownDisplay(s.StatusBreakdown))
	printField(w, "Warnings", strconv.Itoa(len(res.Warnings)))
	for _, warning := range res.Warnings {
		fmt.Fprintln(w, "    "+warnStyle.Render(warning))
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

func errorList(w io.Writer, errs []string) {
	for _, e := range errs {
		fmt.Fprintln(w, "  "+warnStyle.Render("! "+e))
	}
}

func progressBar(sequenceID string, done, total int) string {
	filled := 0
	if total > 0 {
		filled = done * progressBarWidth / total
	}
	bar := strings.Repeat("█", filled)
	rest := strings.Repeat("░", progressBarWidth-filled)
	if colorEnabled {
		bar = lipgloss.NewStyle().Foreground(SequenceColor(sequenceID)).Render(bar)
		rest = dimStyle.Render(rest)
	}
	return bar + rest
}

func breakdownDisplay(b task.Breakdown) string {
	parts := make([]string, 0, len(b))
	for _, s := range task.Statuses() {
		if n := b.Count(s); n > 0 {
			parts = append(parts, statusText(s)+"="+strconv.Itoa(n))
		}
	}
	if len(parts) == 0 {
		return dimStyle.Render("--")
	}
	return strings.Join(parts, " ")
}

func blockedByDisplay(t task.Task, r *board.Resolver) string {
	if len(t.BlockedBy) == 0 {
		return dimStyle.Render("--")
	}
	if r == nil {
		return strings.Join(t.BlockedBy, ",")
	}
	waiting := make(map[string]bool)
	for _, id := range r.Unresolved(t) {
		waiting[id] = true
	}
	parts := make([]string, len(t.BlockedBy))
	for i, id := range t.BlockedBy {
		if waiting[id] {
			parts[i] = waitingStyle.Render(id)
		} else {
			parts[i] = id
		}
	}
	return strings.Join(parts, ",")
}

func agentDisplay(agent string) string {
	if agent == "" {
		return dimStyle.Render("--")
	}
	return agentStyle.Render(agent)
}

func priorityDisplay(priority string) string {
	if priority == "" {
		return dimStyle.Render("--")
	}
	if st, ok := priorityStyles[strings.ToLower(priority)]; ok {
		return st.Render(priority)
	}
	return priority
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func stringOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}
