package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/taskwatch/internal/board"
	"github.com/twiced-technology-gmbh/taskwatch/internal/output"
	"github.com/twiced-technology-gmbh/taskwatch/internal/task"
)

// headerLines is the height of the title line above the columns.
const headerLines = 1

var (
	titleBarStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230"))

	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	waitingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	changedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	agentStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("44"))

	activeBorder  = lipgloss.Color("226")
	changedBorder = lipgloss.Color("214")

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

func (b *Board) viewBoard() string {
	colWidth := b.columnWidth()

	renderedCols := make([]string, len(b.columns))
	for i, col := range b.columns {
		renderedCols[i] = b.renderColumn(i, col, colWidth)
	}
	boardView := lipgloss.JoinHorizontal(lipgloss.Top, renderedCols...)

	// A single card can exceed the budget on tiny terminals. Clamp from the
	// bottom so the headers stay visible, and pad short boards.
	targetHeight := b.height - b.chromeHeight()
	if targetHeight > 0 {
		actual := strings.Count(boardView, "\n") + 1
		if actual > targetHeight {
			viewLines := strings.SplitN(boardView, "\n", targetHeight+1)
			boardView = strings.Join(viewLines[:targetHeight], "\n")
		} else if actual < targetHeight {
			boardView += strings.Repeat("\n", targetHeight-actual)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, b.renderTitle(), boardView, "", b.renderStatusBar())
}

func (b *Board) columnWidth() int {
	if b.width == 0 || len(b.columns) == 0 {
		return 30 //nolint:mnd // default column width
	}
	const maxColWidth = 60
	return min(b.width/len(b.columns), maxColWidth)
}

func (b *Board) renderTitle() string {
	dir := b.snap.Directory
	if dir == "" {
		dir = "(no directory)"
	}
	done, total := 0, 0
	for _, s := range b.snap.Sequences {
		done += s.CompletedTasks
		total += s.TotalTasks
	}
	pct := 0
	if total > 0 {
		pct = done * 100 / total //nolint:mnd // percentage
	}
	title := fmt.Sprintf(" %s  %d/%d complete (%d%%)", dir, done, total, pct)
	return titleBarStyle.Render(truncate(title, max(b.width, 4))) //nolint:mnd // truncate minimum
}

func (b *Board) renderColumn(colIdx int, col column, width int) string {
	const headerPad = 2
	headerText := truncate(fmt.Sprintf("%s (%d)", col.status, len(col.tasks)), width-headerPad)

	headerStyle := columnHeaderStyle.Foreground(output.StatusColor(col.status))
	if colIdx == b.activeCol {
		headerStyle = activeColumnHeaderStyle
	}
	header := headerStyle.Width(width).Render(headerText)

	maxVis := b.visibleCardsForColumn(&col, width)
	start := min(col.scrollOff, len(col.tasks))
	end := min(start+maxVis, len(col.tasks))

	parts := []string{header}
	if start > 0 {
		parts = append(parts, dimStyle.Width(width).Render(truncate(fmt.Sprintf("  ↑ %d more", start), width)))
	}
	if len(col.tasks) == 0 {
		parts = append(parts, dimStyle.Width(width).Render("  (empty)"))
	} else {
		for rowIdx := start; rowIdx < end; rowIdx++ {
			active := colIdx == b.activeCol && rowIdx == b.activeRow
			parts = append(parts, b.renderCard(col.tasks[rowIdx], active, width))
		}
	}
	if end < len(col.tasks) {
		indicator := fmt.Sprintf("  ↓ %d more", len(col.tasks)-end)
		parts = append(parts, dimStyle.Width(width).Render(truncate(indicator, width)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderCard borders each card in its sequence color; changed and selected
// cards override it.
func (b *Board) renderCard(t task.Task, active bool, width int) string {
	content := strings.Join(b.cardContentLines(t, width), "\n")

	border := output.SequenceColor(t.SequenceID)
	switch {
	case active:
		border = activeBorder
	case b.changed[t.TaskID]:
		border = changedBorder
	}
	return cardStyle.BorderForeground(border).Width(width - 2).Render(content) //nolint:mnd // border width
}

func (b *Board) cardHeight(t task.Task, width int) int {
	return len(b.cardContentLines(t, width)) + 2 //nolint:mnd // top and bottom borders
}

func (b *Board) cardContentLines(t task.Task, width int) []string {
	const cardChrome = 4 // border (2) + padding (2)
	cardWidth := max(width-cardChrome, 1)

	seqStyle := lipgloss.NewStyle().Foreground(output.SequenceColor(t.SequenceID)).Bold(true)
	head := seqStyle.Render(t.SequenceID) + " " + t.TaskID
	if t.Priority != "" {
		head += dimStyle.Render(" !" + t.Priority)
	}
	if t.Agent != "" {
		head += "  " + agentStyle.Render("@"+t.Agent)
	}

	lines := []string{truncateStyled(head, cardWidth)}
	lines = append(lines, wrapTitle(t.TaskName, cardWidth, 2)...) //nolint:mnd // max name lines

	if len(t.BlockedBy) > 0 {
		lines = append(lines, truncateStyled(b.blockedByLine(t), cardWidth))
	}
	if b.changed[t.TaskID] {
		lines = append(lines, changedStyle.Render("● changed"))
	}
	return lines
}

func (b *Board) blockedByLine(t task.Task) string {
	waiting := make(map[string]bool)
	for _, id := range b.resolver.Unresolved(t) {
		waiting[id] = true
	}
	parts := make([]string, len(t.BlockedBy))
	for i, id := range t.BlockedBy {
		if waiting[id] {
			parts[i] = waitingStyle.Render(id)
		} else {
			parts[i] = dimStyle.Render(id)
		}
	}
	return dimStyle.Render("after ") + strings.Join(parts, dimStyle.Render(","))
}

func (b *Board) renderStatusBar() string {
	seq := "all"
	if b.seqFilter >= 0 && b.seqFilter < len(b.snap.Sequences) {
		seq = b.snap.Sequences[b.seqFilter].SequenceID
	}
	filter := "seq:" + seq
	if b.unblockedOnly {
		filter += " unblocked"
	}

	helpParts := make([]string, 0, len(keys.shortHelp()))
	for _, kb := range keys.shortHelp() {
		h := kb.Help()
		helpParts = append(helpParts, h.Key+":"+h.Desc)
	}

	status := fmt.Sprintf(" cycle %d (%s) | %d tasks | %s | %s",
		b.snap.Cycle, b.lastPollAge(), b.visible, filter, strings.Join(helpParts, " "))
	status = statusBarStyle.Render(truncate(status, max(b.width, 4))) //nolint:mnd // truncate minimum

	if n := b.snap.Status.ErrorCount; n > 0 {
		msg := b.snap.Status.Errors[0]
		if n > 1 {
			msg += " (+" + strconv.Itoa(n-1) + " more)"
		}
		return errorStyle.Render(truncate("Error: "+msg, max(b.width, 4))) + "\n" + status //nolint:mnd // truncate minimum
	}
	return status
}

func (b *Board) lastPollAge() string {
	if b.snap.Status.LastPollTime == nil {
		return "never polled"
	}
	return humanDuration(b.now().Sub(*b.snap.Status.LastPollTime)) + " ago"
}

func (b *Board) viewDetail() string {
	t := b.selectedTask()
	if t == nil {
		return b.viewBoard()
	}

	var sb strings.Builder
	seqStyle := lipgloss.NewStyle().Foreground(output.SequenceColor(t.SequenceID)).Bold(true)
	sb.WriteString(seqStyle.Render(t.SequenceID+" "+t.SequenceName) + "\n")
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render(t.TaskID+": "+t.TaskName) + "\n\n")

	field := func(label, value string) {
		sb.WriteString(fmt.Sprintf("  %-11s %s\n", label+":", value))
	}
	field("Status", lipgloss.NewStyle().Foreground(output.StatusColor(t.Status)).Render(t.Status.String()))
	field("Agent", orDash(t.Agent))
	field("Priority", orDash(t.Priority))
	field("File", t.SourceFile)
	if len(t.BlockedBy) > 0 {
		field("After", b.blockedByLine(*t))
	} else {
		field("After", dimStyle.Render("--"))
	}
	if unknown := b.resolver.Unknown(*t); len(unknown) > 0 {
		field("Unknown", waitingStyle.Render(strings.Join(unknown, ",")))
	}

	dependents := board.Dependents(b.snap.Tasks, t.TaskID)
	ids := make([]string, len(dependents))
	for i, d := range dependents {
		ids[i] = d.TaskID
	}
	field("Unblocks", orDash(strings.Join(ids, ",")))

	if b.changed[t.TaskID] {
		for _, c := range b.snap.Changes {
			if c.TaskID == t.TaskID {
				field("Changed", changedStyle.Render(c.PreviousStatus.String()+" -> "+c.NewStatus.String()))
			}
		}
	}

	sb.WriteString("\n" + dimStyle.Render("esc/enter: back  q: quit"))
	return dialogStyle.Render(sb.String())
}

func orDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}

// humanDuration formats a duration as a compact human-readable string.
func humanDuration(d time.Duration) string {
	const day = 24 * time.Hour
	switch {
	case d < time.Minute:
		return strconv.Itoa(int(d.Seconds())) + "s"
	case d < time.Hour:
		return strconv.Itoa(int(d.Minutes())) + "m"
	case d < day:
		return strconv.Itoa(int(d.Hours())) + "h"
	default:
		return strconv.Itoa(int(d/day)) + "d"
	}
}
