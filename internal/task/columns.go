package task

import "strings"

// Field is a canonical task-table column.
type Field string

// Canonical fields.
const (
	FieldID        Field = "id"
	FieldTask      Field = "task"
	FieldStatus    Field = "status"
	FieldBlockedBy Field = "blockedBy"
	FieldAgent     Field = "agent"
	FieldPriority  Field = "priority"
)

// headerSynonyms maps lower-cased header text to a canonical field.
var headerSynonyms = map[string]Field{
	"id":         FieldID,
	"task":       FieldTask,
	"status":     FieldStatus,
	"blocked-by": FieldBlockedBy,
	"blocked by": FieldBlockedBy,
	"blockedby":  FieldBlockedBy,
	"agent":      FieldAgent,
	"priority":   FieldPriority,
	"notes":      FieldPriority,
	"note":       FieldPriority,
}

var requiredFields = []Field{FieldID, FieldTask, FieldStatus}

// MissingColumnsError reports required fields absent from a table header.
type MissingColumnsError struct {
	Fields []Field
}

// Error implements the error interface.
func (e *MissingColumnsError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return "Missing required columns: " + strings.Join(names, ", ")
}

// column binds a header cell index to the field it feeds.
type column struct {
	index int
	field Field
}

// mapColumns maps header cells to canonical fields in header order, so when
// two headers share a field the rightmost one wins. Unknown headers are
// ignored. It returns an error naming the missing required fields, if any.
func mapColumns(header []string) ([]column, error) {
	cols := make([]column, 0, len(header))
	present := make(map[Field]bool, len(header))
	for i, h := range header {
		if f, ok := headerSynonyms[strings.ToLower(strings.TrimSpace(h))]; ok {
			cols = append(cols, column{index: i, field: f})
			present[f] = true
		}
	}

	var missing []Field
	for _, f := range requiredFields {
		if !present[f] {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Fields: missing}
	}
	return cols, nil
}
