package task

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTableNoTable(t *testing.T) {
	rows, warnings := ParseTable("# Heading\n\nJust prose, no table here.\n")
	assert.Empty(t, rows)
	assert.Empty(t, warnings)
}

func TestParseTableBasic(t *testing.T) {
	content := strings.Join([]string{
		"# Parser Tasks",
		"",
		"| ID | Task | Status | Blocked By | Agent | Notes |",
		"|----|------|:------:|------------|-------|-------|",
		"| T001 | Write lexer | done | - | alice | high |",
		"| T002 | Write parser | wip | T001 | bob | |",
		"",
		"| T003 | Not part of the table | pending | | | |",
	}, "\n")

	rows, warnings := ParseTable(content)
	assert.Empty(t, warnings)
	require.Len(t, rows, 2)

	assert.Equal(t, Row{
		ID: "T001", Task: "Write lexer", Status: "done", BlockedBy: "-",
		Agent: "alice", Priority: "high", Line: 5,
	}, rows[0])
	assert.Equal(t, "T002", rows[1].ID)
	assert.Equal(t, "T001", rows[1].BlockedBy)
	assert.Empty(t, rows[1].Priority)
	assert.Equal(t, 6, rows[1].Line)
}

func TestParseTableCRLF(t *testing.T) {
	content := "| id | task | status |\r\n|---|---|---|\r\n| A1 | First | pending |\r\n"
	rows, warnings := ParseTable(content)
	assert.Empty(t, warnings)
	require.Len(t, rows, 1)
	assert.Equal(t, "A1", rows[0].ID)
	assert.Equal(t, "pending", rows[0].Status)
}

func TestParseTableMissingColumns(t *testing.T) {
	content := strings.Join([]string{
		"| ID | Description | Agent |",
		"|----|-------------|-------|",
		"| T001 | Something | alice |",
		"",
		"| ID | Task | Status |",
		"|----|------|--------|",
		"| T002 | Second table | pending |",
	}, "\n")

	rows, warnings := ParseTable(content)
	assert.Empty(t, rows)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Missing required columns")
	assert.Equal(t, "Missing required columns: task, status", warnings[0])
}

func TestParseTableSectionMarkers(t *testing.T) {
	content := strings.Join([]string{
		"| ID | Task | Status |",
		"|----|------|--------|",
		"| **Architecture Phase** | | |",
		"| T001 | Design | complete |",
		"| **Build Phase** |",
		"| T002 | Build | pending |",
	}, "\n")

	rows, warnings := ParseTable(content)
	assert.Empty(t, warnings)
	require.Len(t, rows, 2)
	assert.Equal(t, "T001", rows[0].ID)
	assert.Equal(t, "T002", rows[1].ID)
}

func TestParseTableMalformedRows(t *testing.T) {
	content := strings.Join([]string{
		"intro",
		"| ID | Task | Status |",
		"|----|------|--------|",
		"| | Orphan task | pending |",
		"| | | |",
		"| T003 | | |",
	}, "\n")

	rows, warnings := ParseTable(content)
	require.Len(t, rows, 1)
	assert.Equal(t, Row{ID: "T003", Line: 6}, rows[0])
	assert.Equal(t, []string{
		"Skipped malformed row at line 4",
		"Skipped malformed row at line 5",
	}, warnings)
}

func TestParseTableDuplicateHeaderRightmostWins(t *testing.T) {
	content := strings.Join([]string{
		"| ID | Task | Status | Priority | Notes |",
		"|----|------|--------|----------|-------|",
		"| T001 | Task | pending | P1 | see docs |",
	}, "\n")

	rows, _ := ParseTable(content)
	require.Len(t, rows, 1)
	assert.Equal(t, "see docs", rows[0].Priority)
}

func TestIsSeparatorRow(t *testing.T) {
	assert.True(t, isSeparatorRow("|---|---|"))
	assert.True(t, isSeparatorRow("  | :-- | --: | :-: |  "))
	assert.False(t, isSeparatorRow("| a | --- |"))
	assert.False(t, isSeparatorRow("---|---"))
}
