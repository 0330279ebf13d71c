package board

import (
	"cmp"
	"slices"
	"strings"

	"github.com/twiced-technology-gmbh/taskwatch/internal/task"
)

// Sort fields.
const (
	SortID       = "id"
	SortSequence = "sequence"
	SortStatus   = "status"
	SortAgent    = "agent"
	SortPriority = "priority"
	SortName     = "name"
)

// ValidSortFields returns the list of valid --sort field names.
func ValidSortFields() []string {
	return []string{SortSequence, SortID, SortStatus, SortAgent, SortPriority, SortName}
}

// Sort sorts tasks in place by the given field; ties keep snapshot order.
// Status sorts in canonical order, not alphabetically.
func Sort(tasks []task.Task, field string, reverse bool) {
	slices.SortStableFunc(tasks, func(a, b task.Task) int {
		c := compareTasks(a, b, field)
		if reverse {
			return -c
		}
		return c
	})
}

func compareTasks(a, b task.Task, field string) int {
	switch field {
	case SortID:
		return cmp.Compare(a.TaskID, b.TaskID)
	case SortStatus:
		return cmp.Compare(a.Status, b.Status)
	case SortAgent:
		return compareEmptyLast(a.Agent, b.Agent)
	case SortPriority:
		return compareEmptyLast(a.Priority, b.Priority)
	case SortName:
		return cmp.Compare(strings.ToLower(a.TaskName), strings.ToLower(b.TaskName))
	default:
		return cmp.Or(
			cmp.Compare(a.SequenceID, b.SequenceID),
			cmp.Compare(a.SourceFile, b.SourceFile),
		)
	}
}

func compareEmptyLast(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	default:
		return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
	}
}
