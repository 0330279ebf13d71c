package board

import (
	"github.com/twiced-technology-gmbh/taskwatch/internal/task"
)

// Resolver looks up dependency statuses across a snapshot. A dependency ID is
// resolved within the dependent's own sequence first and then against any
// sequence.
type Resolver struct {
	byKey map[string]task.Status
	byID  map[string]task.Status
}

// NewResolver indexes tasks for dependency lookups.
func NewResolver(tasks []task.Task) *Resolver {
	r := &Resolver{
		byKey: make(map[string]task.Status, len(tasks)),
		byID:  make(map[string]task.Status, len(tasks)),
	}
	for _, t := range tasks {
		r.byKey[t.Key()] = t.Status
		if _, ok := r.byID[t.TaskID]; !ok {
			r.byID[t.TaskID] = t.Status
		}
	}
	return r
}

// Satisfied reports whether a dependency in this status no longer blocks.
func Satisfied(s task.Status) bool {
	return s == task.StatusComplete || s == task.StatusDeferred
}

// Unresolved returns t's dependencies that are known and not yet satisfied.
// Unknown IDs are skipped: they usually point at another directory or a
// task that was renamed.
func (r *Resolver) Unresolved(t task.Task) []string {
	var open []string
	for _, dep := range t.BlockedBy {
		s, ok := r.lookup(t.SequenceID, dep)
		if ok && !Satisfied(s) {
			open = append(open, dep)
		}
	}
	return open
}

// Unknown returns t's dependencies that match no task in the snapshot.
func (r *Resolver) Unknown(t task.Task) []string {
	var missing []string
	for _, dep := range t.BlockedBy {
		if _, ok := r.lookup(t.SequenceID, dep); !ok {
			missing = append(missing, dep)
		}
	}
	return missing
}

func (r *Resolver) lookup(seq, id string) (task.Status, bool) {
	if s, ok := r.byKey[seq+":"+id]; ok {
		return s, true
	}
	s, ok := r.byID[id]
	return s, ok
}

// FilterUnblocked returns tasks from candidates whose dependencies are all
// satisfied. lookup supplies the statuses and may include tasks not in
// candidates.
func FilterUnblocked(candidates, lookup []task.Task) []task.Task {
	r := NewResolver(lookup)
	result := make([]task.Task, 0, len(candidates))
	for _, t := range candidates {
		if len(r.Unresolved(t)) == 0 {
			result = append(result, t)
		}
	}
	return result
}

// Dependents returns the tasks that list id as a dependency, in input order.
func Dependents(tasks []task.Task, id string) []task.Task {
	var result []task.Task
	for _, t := range tasks {
		for _, dep := range t.BlockedBy {
			if dep == id {
				result = append(result, t)
				break
			}
		}
	}
	return result
}
