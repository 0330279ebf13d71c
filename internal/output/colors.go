package output

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/taskwatch/internal/task"
)

// sequencePalette holds accent colors cycled through by sequence number.
var sequencePalette = []lipgloss.Color{
	"#E11D48", "#9333EA", "#2563EB", "#0891B2", "#059669", "#CA8A04",
	"#EA580C", "#DC2626", "#7C3AED", "#0284C7", "#0D9488", "#D97706",
}

// statusColors is shared by table output and the TUI column headers.
var statusColors = map[task.Status]lipgloss.Color{
	task.StatusComplete:   "34",
	task.StatusInProgress: "33",
	task.StatusPending:    "252",
	task.StatusBlocked:    "196",
	task.StatusDeferred:   "242",
}

// SequenceColor returns the accent color for a sequence ID. Non-numeric IDs
// use the first palette entry.
func SequenceColor(sequenceID string) lipgloss.Color {
	n, err := strconv.Atoi(sequenceID)
	if err != nil || n < 0 {
		n = 0
	}
	return sequencePalette[n%len(sequencePalette)]
}

// StatusColor returns the display color for a status.
func StatusColor(s task.Status) lipgloss.Color {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return "252"
}
