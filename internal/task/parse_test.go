package task

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEndToEnd(t *testing.T) {
	content := strings.Join([]string{
		"# Parser Task List",
		"",
		"| ID | Task | Status | Blocked By |",
		"|----|------|--------|------------|",
		"| T001 | Lexer | complete | - |",
		"| T002 | Parser | in-progress | T001 |",
	}, "\n")
	modified := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	res := ParseAt(content, "004-parser-tasks.md", modified)

	assert.Empty(t, res.Warnings)
	require.Len(t, res.Tasks, 2)
	assert.Equal(t, Task{
		TaskID:       "T001",
		TaskName:     "Lexer",
		Status:       StatusComplete,
		BlockedBy:    []string{},
		SequenceID:   "004",
		SequenceName: "Parser",
		SourceFile:   "004-parser-tasks.md",
	}, res.Tasks[0])
	assert.Equal(t, StatusInProgress, res.Tasks[1].Status)
	assert.Equal(t, []string{"T001"}, res.Tasks[1].BlockedBy)

	seq := res.Sequence
	assert.Equal(t, "004", seq.SequenceID)
	assert.Equal(t, "Parser", seq.SequenceName)
	assert.Equal(t, 2, seq.TotalTasks)
	assert.Equal(t, 1, seq.CompletedTasks)
	assert.Equal(t, 50, seq.Percent())
	assert.Equal(t, modified, seq.LastModified)

	data, err := json.Marshal(seq.StatusBreakdown)
	require.NoError(t, err)
	assert.JSONEq(t, `{"complete":1,"in-progress":1,"pending":0,"blocked":0,"deferred":0}`, string(data))
}

func TestParseBreakdownSumsToTotal(t *testing.T) {
	content := strings.Join([]string{
		"| ID | Task | Status |",
		"|----|------|--------|",
		"| A | a | done |",
		"| B | b | wip |",
		"| C | c | todo |",
		"| D | d | blocked |",
		"| E | e | skipped |",
		"| F | f | ??? |",
		"| | g | pending |",
	}, "\n")

	res := Parse(content, "tasks.md")
	assert.Equal(t, res.Sequence.TotalTasks, res.Sequence.StatusBreakdown.Total())
	assert.Equal(t, 6, res.Sequence.TotalTasks)
	assert.Equal(t, 2, res.Sequence.StatusBreakdown.Count(StatusPending))
	assert.Len(t, res.Warnings, 1)
}

func TestParseEmptyDocument(t *testing.T) {
	res := Parse("", "001-empty.md")
	assert.Empty(t, res.Tasks)
	assert.NotNil(t, res.Warnings)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "001", res.Sequence.SequenceID)
	assert.Equal(t, "empty", res.Sequence.SequenceName)
	assert.Zero(t, res.Sequence.TotalTasks)
	assert.Zero(t, res.Sequence.Percent())
}

func TestTaskJSONBlockedByNeverNull(t *testing.T) {
	data, err := json.Marshal(Task{TaskID: "T1", Status: StatusBlocked})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"blockedBy":[]`)
	assert.Contains(t, string(data), `"status":"blocked"`)
	assert.Equal(t, "000:T1", Task{TaskID: "T1", SequenceID: "000"}.Key())
}
