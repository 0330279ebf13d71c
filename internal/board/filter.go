// Package board answers queries over a task snapshot: filtering, sorting,
// grouping, dependency resolution and overview summaries.
package board

import (
	"slices"
	"strings"

	"github.com/twiced-technology-gmbh/taskwatch/internal/task"
)

// FilterOptions defines which tasks to include. Empty fields do not filter.
type FilterOptions struct {
	Sequences       []string      // sequence IDs, e.g. "004"
	Statuses        []task.Status // include only these statuses
	ExcludeStatuses []task.Status // statuses to exclude from results
	Agent           string        // case-insensitive exact match
	Priority        string        // case-insensitive exact match
	Search          string        // case-insensitive substring across id, name and agent
}

// Filter returns tasks matching all specified criteria (AND logic).
func Filter(tasks []task.Task, opts FilterOptions) []task.Task {
	result := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if matchesFilter(t, opts) {
			result = append(result, t)
		}
	}
	return result
}

func matchesFilter(t task.Task, opts FilterOptions) bool {
	if len(opts.Sequences) > 0 && !slices.Contains(opts.Sequences, t.SequenceID) {
		return false
	}
	if !matchesStatus(t.Status, opts.Statuses, opts.ExcludeStatuses) {
		return false
	}
	if opts.Agent != "" && !strings.EqualFold(t.Agent, opts.Agent) {
		return false
	}
	if opts.Priority != "" && !strings.EqualFold(t.Priority, opts.Priority) {
		return false
	}
	if opts.Search != "" && !matchesSearch(t, opts.Search) {
		return false
	}
	return true
}

func matchesStatus(status task.Status, include, exclude []task.Status) bool {
	if len(include) > 0 && !slices.Contains(include, status) {
		return false
	}
	if len(exclude) > 0 && slices.Contains(exclude, status) {
		return false
	}
	return true
}

// matchesSearch performs case-insensitive substring matching across id, name and agent.
func matchesSearch(t task.Task, query string) bool {
	q := strings.ToLower(query)
	for _, field := range []string{t.TaskID, t.TaskName, t.Agent} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
