package task

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	sectionMarkerRe = regexp.MustCompile(`^\*\*.+\*\*$`)
	separatorCellRe = regexp.MustCompile(`^[\s\-:]+$`)
)

// Row is one data row of a task table, keyed by canonical field.
// Absent optional columns are empty strings.
type Row struct {
	ID        string
	Task      string
	Status    string
	BlockedBy string
	Agent     string
	Priority  string

	// Line is the 1-indexed line of the row in the source text.
	Line int
}

func (r *Row) set(f Field, v string) {
	switch f {
	case FieldID:
		r.ID = v
	case FieldTask:
		r.Task = v
	case FieldStatus:
		r.Status = v
	case FieldBlockedBy:
		r.BlockedBy = v
	case FieldAgent:
		r.Agent = v
	case FieldPriority:
		r.Priority = v
	}
}

// ParseTable finds the first pipe table in content and returns its data rows.
// A document without a table yields no rows and no warnings.
func ParseTable(content string) ([]Row, []string) {
	lines := strings.Split(content, "\n")

	header := -1
	for i := 0; i+1 < len(lines); i++ {
		if isTableRow(lines[i]) && isSeparatorRow(lines[i+1]) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, nil
	}

	cols, err := mapColumns(splitCells(lines[header]))
	if err != nil {
		return nil, []string{err.Error()}
	}

	var (
		rows     []Row
		warnings []string
	)
	for i := header + 2; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || !isTableRow(line) {
			break // tables are contiguous
		}

		cells := splitCells(line)
		if isSectionMarker(cells) {
			continue
		}

		row := Row{Line: i + 1}
		hasData := false
		for _, c := range cols {
			if c.index < len(cells) {
				row.set(c.field, cells[c.index])
				if cells[c.index] != "" {
					hasData = true
				}
			}
		}
		if !hasData || row.ID == "" {
			warnings = append(warnings, fmt.Sprintf("Skipped malformed row at line %d", i+1))
			continue
		}
		rows = append(rows, row)
	}

	return rows, warnings
}

// isTableRow reports whether line, once trimmed, starts and ends with a pipe
// and has content between them.
func isTableRow(line string) bool {
	line = strings.TrimSpace(line)
	return len(line) >= 3 && line[0] == '|' && line[len(line)-1] == '|' //nolint:mnd // "|x|"
}

// isSeparatorRow reports whether line is a header separator such as |---|:--:|.
func isSeparatorRow(line string) bool {
	if !isTableRow(line) {
		return false
	}
	trimmed := strings.TrimSpace(line)
	for _, c := range strings.Split(trimmed[1:len(trimmed)-1], "|") {
		if !separatorCellRe.MatchString(c) {
			return false
		}
	}
	return true
}

// splitCells strips one leading and one trailing pipe and splits on the rest.
func splitCells(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	cells := strings.Split(line, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

// isSectionMarker reports whether cells form a heading row like
// "| **Architecture Phase** |" with every other cell empty.
func isSectionMarker(cells []string) bool {
	if len(cells) == 0 || !sectionMarkerRe.MatchString(cells[0]) {
		return false
	}
	for _, c := range cells[1:] {
		if c != "" {
			return false
		}
	}
	return true
}
