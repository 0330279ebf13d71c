// Package tui implements a read-only terminal kanban for a task directory.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/taskwatch/internal/board"
	"github.com/twiced-technology-gmbh/taskwatch/internal/poll"
	"github.com/twiced-technology-gmbh/taskwatch/internal/task"
)

// view represents the current screen state.
type view int

const (
	viewBoard view = iota
	viewDetail
)

// Key and layout constants.
const (
	keyEsc = "esc"

	boardChrome  = 2 // blank line + status bar below the column area
	errorChrome  = 1 // extra line when cycle errors are displayed
	tickInterval = 30 * time.Second
)

// Source provides snapshots of the latest poll cycle.
type Source interface {
	Snapshot() poll.Snapshot
}

// Board is the top-level bubbletea model.
type Board struct {
	src     Source
	refresh func()

	snap      poll.Snapshot
	resolver  *board.Resolver
	changed   map[string]bool
	visible   int
	columns   []column
	activeCol int
	activeRow int
	view      view
	width     int
	height    int
	now       func() time.Time

	// seqFilter indexes snap.Sequences; -1 shows every sequence.
	seqFilter     int
	unblockedOnly bool

	lastClickCol  int
	lastClickRow  int
	lastClickTime time.Time
}

// column groups tasks belonging to a single status.
type column struct {
	status    task.Status
	tasks     []task.Task
	scrollOff int
}

// NewBoard creates a Board fed by src. refresh, if non-nil, is called when
// the user asks for an immediate poll.
func NewBoard(src Source, refresh func()) *Board {
	b := &Board{src: src, refresh: refresh, now: time.Now, seqFilter: -1}
	b.reload()
	return b
}

// SetNow overrides the clock used for the last-poll display.
func (b *Board) SetNow(fn func() time.Time) {
	b.now = fn
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.MouseMsg:
		return b.handleMouse(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.ensureVisible()
		return b, nil
	case ReloadMsg:
		b.reload()
		return b, nil
	case TickMsg:
		return b, tickCmd()
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}
	if b.view == viewDetail {
		return b.viewDetail()
	}
	return b.viewBoard()
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.ForceQuit) {
		return b, tea.Quit
	}

	if b.view == viewDetail {
		switch {
		case key.Matches(msg, keys.Back), key.Matches(msg, keys.Detail):
			b.view = viewBoard
		case key.Matches(msg, keys.Quit):
			return b, tea.Quit
		}
		return b, nil
	}

	switch {
	case key.Matches(msg, keys.Quit), key.Matches(msg, keys.Back):
		return b, tea.Quit
	case key.Matches(msg, keys.Left):
		if b.activeCol > 0 {
			b.activeCol--
			b.clampRow()
		}
	case key.Matches(msg, keys.Right):
		if b.activeCol < len(b.columns)-1 {
			b.activeCol++
			b.clampRow()
		}
	case key.Matches(msg, keys.Down):
		col := b.currentColumn()
		if col != nil && b.activeRow < len(col.tasks)-1 {
			b.activeRow++
			b.ensureVisible()
		}
	case key.Matches(msg, keys.Up):
		if b.activeRow > 0 {
			b.activeRow--
			b.ensureVisible()
		}
	case key.Matches(msg, keys.Sequence):
		b.cycleSequenceFilter()
	case key.Matches(msg, keys.Unblocked):
		b.unblockedOnly = !b.unblockedOnly
		b.rebuild()
	case key.Matches(msg, keys.Detail):
		if b.selectedTask() != nil {
			b.view = viewDetail
		}
	case key.Matches(msg, keys.Refresh):
		if b.refresh != nil {
			b.refresh()
		}
	}
	return b, nil
}

// handleMouse selects the clicked card; a double click opens its detail.
func (b *Board) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return b, nil
	}
	if b.view != viewBoard || len(b.columns) == 0 {
		return b, nil
	}

	colWidth := b.columnWidth()
	clickedCol := msg.X / colWidth
	if clickedCol >= len(b.columns) {
		return b, nil
	}

	col := &b.columns[clickedCol]
	lineY := msg.Y - headerLines - 1
	if lineY < 0 {
		b.activeCol = clickedCol
		b.clampRow()
		return b, nil
	}
	if col.scrollOff > 0 {
		lineY-- // "↑ N more" indicator
	}

	clickedRow := -1
	cardLine := 0
	for rowIdx := col.scrollOff; rowIdx < len(col.tasks); rowIdx++ {
		cardH := b.cardHeight(col.tasks[rowIdx], colWidth)
		if lineY < cardLine+cardH {
			clickedRow = rowIdx
			break
		}
		cardLine += cardH
	}
	if clickedRow < 0 {
		b.activeCol = clickedCol
		b.clampRow()
		return b, nil
	}

	now := b.now()
	isDoubleClick := clickedCol == b.lastClickCol &&
		clickedRow == b.lastClickRow &&
		now.Sub(b.lastClickTime) < 500*time.Millisecond

	b.activeCol = clickedCol
	b.activeRow = clickedRow
	b.lastClickCol = clickedCol
	b.lastClickRow = clickedRow
	b.lastClickTime = now
	b.ensureVisible()

	if isDoubleClick {
		b.view = viewDetail
	}
	return b, nil
}

// reload takes a fresh snapshot and rebuilds the columns, keeping the
// selection on the same task when it is still visible.
func (b *Board) reload() {
	var selected string
	if t := b.selectedTask(); t != nil {
		selected = t.Key()
	}
	var seqID string
	if b.seqFilter >= 0 && b.seqFilter < len(b.snap.Sequences) {
		seqID = b.snap.Sequences[b.seqFilter].SequenceID
	}

	b.snap = b.src.Snapshot()
	b.resolver = board.NewResolver(b.snap.Tasks)
	b.changed = make(map[string]bool, len(b.snap.Changes))
	for _, c := range b.snap.Changes {
		b.changed[c.TaskID] = true
	}

	b.seqFilter = -1
	for i, s := range b.snap.Sequences {
		if seqID != "" && s.SequenceID == seqID {
			b.seqFilter = i
			break
		}
	}

	b.rebuild()
	if selected != "" {
		b.selectKey(selected)
	}
}

// rebuild distributes the filtered snapshot into one column per status.
func (b *Board) rebuild() {
	opts := board.ListOptions{Unblocked: b.unblockedOnly}
	if b.seqFilter >= 0 {
		opts.Filter.Sequences = []string{b.snap.Sequences[b.seqFilter].SequenceID}
	}
	tasks := board.List(b.snap.Tasks, opts)
	b.visible = len(tasks)

	statuses := task.Statuses()
	b.columns = make([]column, len(statuses))
	for i, s := range statuses {
		b.columns[i] = column{status: s}
	}
	for _, t := range tasks {
		if t.Status.Valid() {
			b.columns[t.Status].tasks = append(b.columns[t.Status].tasks, t)
		}
	}
	b.clampRow()
}

func (b *Board) cycleSequenceFilter() {
	if len(b.snap.Sequences) == 0 {
		b.seqFilter = -1
		return
	}
	b.seqFilter++
	if b.seqFilter >= len(b.snap.Sequences) {
		b.seqFilter = -1
	}
	b.activeRow = 0
	b.rebuild()
}

func (b *Board) selectKey(k string) {
	for ci, col := range b.columns {
		for ri, t := range col.tasks {
			if t.Key() == k {
				b.activeCol = ci
				b.activeRow = ri
				b.ensureVisible()
				return
			}
		}
	}
}

func (b *Board) currentColumn() *column {
	if b.activeCol >= 0 && b.activeCol < len(b.columns) {
		return &b.columns[b.activeCol]
	}
	return nil
}

func (b *Board) selectedTask() *task.Task {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		return nil
	}
	if b.activeRow >= 0 && b.activeRow < len(col.tasks) {
		return &col.tasks[b.activeRow]
	}
	return nil
}

func (b *Board) clampRow() {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		b.activeRow = 0
		return
	}
	if b.activeRow >= len(col.tasks) {
		b.activeRow = len(col.tasks) - 1
	}
	b.ensureVisible()
}

// chromeHeight returns the number of lines consumed outside the column area.
func (b *Board) chromeHeight() int {
	h := headerLines + boardChrome
	if b.snap.Status.ErrorCount > 0 {
		h += errorChrome
	}
	return h
}

// visibleCardsForColumn returns the number of cards that fit in the column,
// accounting for the scroll indicator lines.
func (b *Board) visibleCardsForColumn(col *column, width int) int {
	budget := b.height - b.chromeHeight()
	if budget < 1 {
		return 1
	}

	avail := budget - 1 // column header
	if col.scrollOff > 0 {
		avail--
	}

	n := b.fitCardsInHeight(col, avail, width)
	if col.scrollOff+n < len(col.tasks) {
		n = max(b.fitCardsInHeight(col, avail-1, width), 1)
	}
	return n
}

// ensureVisible adjusts the active column's scroll offset so the selected
// row is within the visible window.
func (b *Board) ensureVisible() {
	col := b.currentColumn()
	if col == nil {
		return
	}
	w := b.columnWidth()
	for range len(col.tasks) + 1 {
		maxVis := b.visibleCardsForColumn(col, w)
		switch {
		case b.activeRow >= col.scrollOff+maxVis:
			col.scrollOff = b.activeRow - maxVis + 1
		case b.activeRow < col.scrollOff:
			col.scrollOff = b.activeRow
		default:
			return
		}
	}
}

func (b *Board) fitCardsInHeight(col *column, avail, width int) int {
	if len(col.tasks) == 0 || avail < 1 {
		return 1
	}

	used, count := 0, 0
	for i := col.scrollOff; i < len(col.tasks); i++ {
		cardLines := b.cardHeight(col.tasks[i], width)
		if count > 0 && used+cardLines > avail {
			break
		}
		count++
		used += cardLines
		if used >= avail {
			break
		}
	}
	return max(count, 1)
}

// ReloadMsg asks the board to take a fresh snapshot.
type ReloadMsg struct{}

// TickMsg is sent periodically to refresh the last-poll age.
type TickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}
