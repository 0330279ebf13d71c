package board

import (
	"slices"

	"github.com/twiced-technology-gmbh/taskwatch/internal/task"
)

// Group-by fields.
const (
	GroupSequence = "sequence"
	GroupAgent    = "agent"
	GroupStatus   = "status"
	GroupPriority = "priority"
)

// Placeholder keys for tasks with an empty grouping field.
const (
	unassignedKey = "(unassigned)"
	noPriorityKey = "(none)"
)

// GroupedSummary holds tasks grouped by a field.
type GroupedSummary struct {
	Groups []GroupSummary `json:"groups" yaml:"groups"`
}

// GroupSummary is one group within a grouped view.
type GroupSummary struct {
	Key      string          `json:"key" yaml:"key"`
	Statuses []StatusSummary `json:"statuses" yaml:"statuses"`
	Total    int             `json:"total" yaml:"total"`
}

// ValidGroupByFields returns the list of valid --group-by field names.
func ValidGroupByFields() []string {
	return []string{GroupSequence, GroupAgent, GroupStatus, GroupPriority}
}

// GroupBy groups tasks by the specified field and returns summaries per group.
func GroupBy(tasks []task.Task, field string) GroupedSummary {
	groups := make(map[string][]task.Task)
	for _, t := range tasks {
		key := groupKey(t, field)
		groups[key] = append(groups[key], t)
	}

	keys := sortGroupKeys(groups, field)
	resolver := NewResolver(tasks)

	result := GroupedSummary{Groups: make([]GroupSummary, 0, len(keys))}
	for _, key := range keys {
		groupTasks := groups[key]
		result.Groups = append(result.Groups, GroupSummary{
			Key:      key,
			Statuses: statusSummaries(groupTasks, resolver),
			Total:    len(groupTasks),
		})
	}
	return result
}

func groupKey(t task.Task, field string) string {
	switch field {
	case GroupSequence:
		if t.SequenceName == "" {
			return t.SequenceID
		}
		return t.SequenceID + " " + t.SequenceName
	case GroupAgent:
		if t.Agent == "" {
			return unassignedKey
		}
		return t.Agent
	case GroupPriority:
		if t.Priority == "" {
			return noPriorityKey
		}
		return t.Priority
	case GroupStatus:
		return t.Status.String()
	default:
		return "(all)"
	}
}

func sortGroupKeys(groups map[string][]task.Task, field string) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}

	if field == GroupStatus {
		slices.SortFunc(keys, func(a, b string) int {
			return int(groups[a][0].Status) - int(groups[b][0].Status)
		})
		return keys
	}
	slices.SortFunc(keys, func(a, b string) int {
		// Placeholder groups go last.
		ap, bp := a[0] == '(', b[0] == '('
		switch {
		case ap && !bp:
			return 1
		case bp && !ap:
			return -1
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	})
	return keys
}
