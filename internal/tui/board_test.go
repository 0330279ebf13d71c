package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskwatch/internal/poll"
	"github.com/twiced-technology-gmbh/taskwatch/internal/task"
)

type stubSource struct {
	snap  poll.Snapshot
	calls int
}

func (s *stubSource) Snapshot() poll.Snapshot {
	s.calls++
	return s.snap
}

func testSnapshot() poll.Snapshot {
	last := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	return poll.Snapshot{
		Directory: "/tasks",
		Cycle:     4,
		Tasks: []task.Task{
			{TaskID: "T1", TaskName: "Lexer", Status: task.StatusComplete, SequenceID: "001", SequenceName: "Parser"},
			{TaskID: "T2", TaskName: "Parser", Status: task.StatusInProgress, BlockedBy: []string{"T1"}, Agent: "bob", SequenceID: "001", SequenceName: "Parser"},
			{TaskID: "T3", TaskName: "Checker", Status: task.StatusPending, BlockedBy: []string{"T2"}, SequenceID: "001", SequenceName: "Parser"},
			{TaskID: "A1", TaskName: "Routes", Status: task.StatusPending, SequenceID: "002", SequenceName: "API"},
		},
		Sequences: []task.Sequence{
			{SequenceID: "001", SequenceName: "Parser", TotalTasks: 3, CompletedTasks: 1},
			{SequenceID: "002", SequenceName: "API", TotalTasks: 1},
		},
		Changes: []task.Change{{TaskID: "T2", PreviousStatus: task.StatusPending, NewStatus: task.StatusInProgress}},
		Status:  poll.Status{LastPollTime: &last, FileCount: 2, Errors: []string{}},
	}
}

func newTestBoard(t *testing.T) (*Board, *stubSource) {
	t.Helper()
	src := &stubSource{snap: testSnapshot()}
	b := NewBoard(src, nil)
	b.SetNow(func() time.Time { return time.Date(2026, 1, 1, 12, 5, 0, 0, time.UTC) })
	b.Update(tea.WindowSizeMsg{Width: 150, Height: 40})
	return b, src
}

func press(b *Board, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		b.Update(msg)
	}
}

func columnIDs(b *Board) [][]string {
	out := make([][]string, len(b.columns))
	for i, c := range b.columns {
		out[i] = []string{}
		for _, tk := range c.tasks {
			out[i] = append(out[i], tk.TaskID)
		}
	}
	return out
}

func TestColumnsByStatus(t *testing.T) {
	b, _ := newTestBoard(t)
	require.Len(t, b.columns, 5)
	assert.Equal(t, [][]string{{"T1"}, {"T2"}, {"T3", "A1"}, {}, {}}, columnIDs(b))
	assert.True(t, b.changed["T2"])
}

func TestNavigation(t *testing.T) {
	b, _ := newTestBoard(t)
	press(b, "l", "l", "j")
	require.NotNil(t, b.selectedTask())
	assert.Equal(t, "A1", b.selectedTask().TaskID)

	press(b, "j")
	assert.Equal(t, 1, b.activeRow, "clamped at the last card")

	press(b, "l")
	assert.Nil(t, b.selectedTask(), "blocked column is empty")
	press(b, "h", "h", "h", "h", "h")
	assert.Equal(t, 0, b.activeCol)
}

func TestSequenceFilter(t *testing.T) {
	b, _ := newTestBoard(t)

	press(b, "s")
	assert.Equal(t, [][]string{{"T1"}, {"T2"}, {"T3"}, {}, {}}, columnIDs(b))
	press(b, "s")
	assert.Equal(t, [][]string{{}, {}, {"A1"}, {}, {}}, columnIDs(b))
	press(b, "s")
	assert.Equal(t, -1, b.seqFilter)
	assert.Equal(t, 4, b.visible)
}

func TestUnblockedToggle(t *testing.T) {
	b, _ := newTestBoard(t)
	press(b, "u")
	assert.Equal(t, [][]string{{"T1"}, {"T2"}, {"A1"}, {}, {}}, columnIDs(b))
	press(b, "u")
	assert.Equal(t, 4, b.visible)
}

func TestReloadKeepsSelectionAndFilter(t *testing.T) {
	b, src := newTestBoard(t)
	press(b, "s", "l", "l")
	require.Equal(t, "T3", b.selectedTask().TaskID)

	next := testSnapshot()
	next.Cycle = 5
	next.Tasks[1].Status = task.StatusComplete
	next.Tasks[2].Status = task.StatusInProgress
	src.snap = next

	b.Update(ReloadMsg{})
	assert.Equal(t, uint64(5), b.snap.Cycle)
	assert.Equal(t, "001", b.snap.Sequences[b.seqFilter].SequenceID)
	require.NotNil(t, b.selectedTask())
	assert.Equal(t, "T3", b.selectedTask().TaskID)
	assert.Equal(t, 1, b.activeCol)
}

func TestRefreshKey(t *testing.T) {
	called := 0
	b := NewBoard(&stubSource{snap: testSnapshot()}, func() { called++ })
	press(b, "r")
	assert.Equal(t, 1, called)
}

func TestQuit(t *testing.T) {
	b, _ := newTestBoard(t)
	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestDetailView(t *testing.T) {
	b, _ := newTestBoard(t)
	press(b, "l", "enter")
	require.Equal(t, viewDetail, b.view)

	out := b.View()
	assert.Contains(t, out, "T2: Parser")
	assert.Contains(t, out, "Unblocks:")
	assert.Contains(t, out, "T3")
	assert.Contains(t, out, "pending -> in-progress")

	press(b, "esc")
	assert.Equal(t, viewBoard, b.view)
}

func TestViewBoard(t *testing.T) {
	b, _ := newTestBoard(t)
	out := b.View()

	assert.Contains(t, out, "/tasks")
	assert.Contains(t, out, "1/4 complete (25%)")
	assert.Contains(t, out, "complete (1)")
	assert.Contains(t, out, "pending (2)")
	assert.Contains(t, out, "● changed")
	assert.Contains(t, out, "cycle 4 (5m ago)")
	assert.LessOrEqual(t, strings.Count(out, "\n")+1, 40)
}

func TestViewShowsErrors(t *testing.T) {
	src := &stubSource{snap: testSnapshot()}
	src.snap.Status.Errors = []string{"bad.md: boom", "other.md: x"}
	src.snap.Status.ErrorCount = 2
	b := NewBoard(src, nil)
	b.Update(tea.WindowSizeMsg{Width: 150, Height: 40})

	assert.Contains(t, b.View(), "Error: bad.md: boom (+1 more)")
}

func TestLoadingBeforeSize(t *testing.T) {
	b := NewBoard(&stubSource{}, nil)
	assert.Equal(t, "Loading...", b.View())
}

func TestWrapTitle(t *testing.T) {
	assert.Equal(t, []string{"short"}, wrapTitle("short", 10, 2))
	assert.Equal(t, []string{"alpha beta", "gamma delta"}, wrapTitle("alpha beta gamma delta", 11, 2))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "42s", humanDuration(42*time.Second))
	assert.Equal(t, "5m", humanDuration(5*time.Minute))
	assert.Equal(t, "3h", humanDuration(3*time.Hour))
	assert.Equal(t, "2d", humanDuration(49*time.Hour))
}
