package board

import (
	"strings"

	"github.com/twiced-technology-gmbh/taskwatch/internal/clierr"
	"github.com/twiced-technology-gmbh/taskwatch/internal/task"
)

// ListOptions controls how tasks are listed.
type ListOptions struct {
	Filter    FilterOptions
	SortBy    string
	Reverse   bool
	Limit     int
	Unblocked bool // only tasks whose dependencies are all satisfied
}

// List applies filters, sorting and the limit to a snapshot. The input slice
// is not modified.
func List(all []task.Task, opts ListOptions) []task.Task {
	tasks := Filter(all, opts.Filter)

	if opts.Unblocked {
		// Look up dependency statuses in the full snapshot, not just the
		// filtered view.
		tasks = FilterUnblocked(tasks, all)
	}

	sortField := opts.SortBy
	if sortField == "" {
		sortField = SortSequence
	}
	Sort(tasks, sortField, opts.Reverse)

	if opts.Limit > 0 && len(tasks) > opts.Limit {
		tasks = tasks[:opts.Limit]
	}
	return tasks
}

// StatusSummary holds metrics for a single status column.
type StatusSummary struct {
	Status task.Status `json:"status" yaml:"status"`
	Count  int         `json:"count" yaml:"count"`
	// Waiting counts tasks in this column with unsatisfied dependencies.
	Waiting int `json:"waiting" yaml:"waiting"`
}

// Overview is the aggregate board overview.
type Overview struct {
	Directory      string          `json:"directory" yaml:"directory"`
	Cycle          uint64          `json:"pollCycle" yaml:"pollCycle"`
	TotalTasks     int             `json:"totalTasks" yaml:"totalTasks"`
	CompletedTasks int             `json:"completedTasks" yaml:"completedTasks"`
	Statuses       []StatusSummary `json:"statuses" yaml:"statuses"`
	Sequences      []task.Sequence `json:"sequences" yaml:"sequences"`
	Changes        []task.Change   `json:"changes" yaml:"changes"`
	Errors         []string        `json:"errors" yaml:"errors"`
}

// Percent returns the completed share of all tasks, rounded down.
func (o Overview) Percent() int {
	if o.TotalTasks == 0 {
		return 0
	}
	return o.CompletedTasks * 100 / o.TotalTasks //nolint:mnd // percentage
}

// Summary computes a board overview from a snapshot.
func Summary(dir string, cycle uint64, tasks []task.Task, seqs []task.Sequence, changes []task.Change, errs []string) Overview {
	statuses := statusSummaries(tasks, NewResolver(tasks))
	completed := 0
	for _, s := range statuses {
		if s.Status == task.StatusComplete {
			completed = s.Count
		}
	}
	return Overview{
		Directory:      dir,
		Cycle:          cycle,
		TotalTasks:     len(tasks),
		CompletedTasks: completed,
		Statuses:       statuses,
		Sequences:      seqs,
		Changes:        changes,
		Errors:         errs,
	}
}

func statusSummaries(tasks []task.Task, r *Resolver) []StatusSummary {
	all := task.Statuses()
	statuses := make([]StatusSummary, len(all))
	for i, s := range all {
		statuses[i].Status = s
	}
	for _, t := range tasks {
		ss := &statuses[t.Status]
		ss.Count++
		if len(r.Unresolved(t)) > 0 {
			ss.Waiting++
		}
	}
	return statuses
}

// ParseStatuses splits a comma-separated list of canonical status names.
func ParseStatuses(arg string) ([]task.Status, error) {
	if strings.TrimSpace(arg) == "" {
		return nil, nil
	}
	var statuses []task.Status
	for _, p := range strings.Split(arg, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		s, err := task.ParseStatus(strings.ToLower(p))
		if err != nil {
			return nil, clierr.Newf(clierr.InvalidStatus, "invalid status %q; valid: %s", p, statusNames()).
				WithDetails(map[string]any{"status": p})
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}

// ParseSequences splits a comma-separated list of sequence IDs.
func ParseSequences(arg string) []string {
	var ids []string
	for _, p := range strings.Split(arg, ",") {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

// FindSequence returns the sequence with the given ID.
func FindSequence(seqs []task.Sequence, id string) (task.Sequence, error) {
	for _, s := range seqs {
		if s.SequenceID == id {
			return s, nil
		}
	}
	return task.Sequence{}, clierr.Newf(clierr.SequenceNotFound, "sequence %q not found", id).
		WithDetails(map[string]any{"sequence": id})
}

// CountByStatus returns the number of tasks in each status.
func CountByStatus(tasks []task.Task) task.Breakdown {
	var b task.Breakdown
	for _, t := range tasks {
		b[t.Status]++
	}
	return b
}

func statusNames() string {
	all := task.Statuses()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}
