// Package task parses markdown task tables into tasks and sequence summaries.
package task

import (
	"encoding/json"
	"time"
)

// Task represents one row of a sequence's task table.
type Task struct {
	TaskID       string   `json:"taskId" yaml:"taskId"`
	TaskName     string   `json:"taskName" yaml:"taskName"`
	Status       Status   `json:"status" yaml:"status"`
	BlockedBy    []string `json:"blockedBy" yaml:"blockedBy"`
	Agent        string   `json:"agent" yaml:"agent"`
	Priority     string   `json:"priority" yaml:"priority"`
	SequenceID   string   `json:"sequenceId" yaml:"sequenceId"`
	SequenceName string   `json:"sequenceName" yaml:"sequenceName"`
	SourceFile   string   `json:"sourceFile" yaml:"sourceFile"`
}

// Key identifies a task across poll cycles.
func (t Task) Key() string {
	return t.SequenceID + ":" + t.TaskID
}

// MarshalJSON keeps blockedBy an array even when a task has no dependencies.
func (t Task) MarshalJSON() ([]byte, error) {
	type plain Task
	p := plain(t)
	if p.BlockedBy == nil {
		p.BlockedBy = []string{}
	}
	return json.Marshal(p)
}

// Sequence is the aggregate progress of one source file.
type Sequence struct {
	SequenceID      string    `json:"sequenceId" yaml:"sequenceId"`
	SequenceName    string    `json:"sequenceName" yaml:"sequenceName"`
	SourceFile      string    `json:"sourceFile" yaml:"sourceFile"`
	TotalTasks      int       `json:"totalTasks" yaml:"totalTasks"`
	CompletedTasks  int       `json:"completedTasks" yaml:"completedTasks"`
	StatusBreakdown Breakdown `json:"statusBreakdown" yaml:"statusBreakdown"`
	LastModified    time.Time `json:"lastModified" yaml:"lastModified"`
}

// Percent returns the share of completed tasks, rounded down.
func (s Sequence) Percent() int {
	if s.TotalTasks == 0 {
		return 0
	}
	return s.CompletedTasks * 100 / s.TotalTasks //nolint:mnd // percentage
}

// ParseResult is the outcome of parsing a single file.
type ParseResult struct {
	Tasks    []Task
	Sequence Sequence
	Warnings []string
}

// Change records a status transition detected between two poll cycles.
type Change struct {
	TaskID         string    `json:"taskId" yaml:"taskId"`
	PreviousStatus Status    `json:"previousStatus" yaml:"previousStatus"`
	NewStatus      Status    `json:"newStatus" yaml:"newStatus"`
	ChangedAt      time.Time `json:"changedAt" yaml:"changedAt"`
}
