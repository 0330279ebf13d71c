package task

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is one of the five canonical task states.
type Status uint8

// Canonical statuses, in display order.
const (
	StatusComplete Status = iota
	StatusInProgress
	StatusPending
	StatusBlocked
	StatusDeferred

	statusCount = int(StatusDeferred) + 1
)

var statusNames = [statusCount]string{
	StatusComplete:   "complete",
	StatusInProgress: "in-progress",
	StatusPending:    "pending",
	StatusBlocked:    "blocked",
	StatusDeferred:   "deferred",
}

// statusSynonyms maps lower-cased, trimmed status text to a canonical status.
var statusSynonyms = map[string]Status{
	"complete":                StatusComplete,
	"completed":               StatusComplete,
	"done":                    StatusComplete,
	"in progress":             StatusInProgress,
	"in-progress":             StatusInProgress,
	"active":                  StatusInProgress,
	"wip":                     StatusInProgress,
	"pending":                 StatusPending,
	"todo":                    StatusPending,
	"not started":             StatusPending,
	"queued":                  StatusPending,
	"blocked":                 StatusBlocked,
	"deferred":                StatusDeferred,
	"deferred (not blocking)": StatusDeferred,
	"skipped":                 StatusDeferred,
}

// Statuses returns every canonical status in display order.
func Statuses() []Status {
	return []Status{StatusComplete, StatusInProgress, StatusPending, StatusBlocked, StatusDeferred}
}

// Normalize maps free-text status to a canonical status.
// Unrecognized input, including the empty string, is pending.
func Normalize(raw string) Status {
	if s, ok := statusSynonyms[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return StatusPending
}

// ParseStatus parses a canonical status name. Unlike Normalize it rejects
// anything that is not one of the five canonical names.
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", name)
}

// String returns the canonical name.
func (s Status) String() string {
	if int(s) < statusCount {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Valid reports whether s is one of the canonical statuses.
func (s Status) Valid() bool {
	return int(s) < statusCount
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %d", uint8(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Breakdown counts tasks per canonical status.
type Breakdown [statusCount]int

// Count returns the number of tasks with the given status.
func (b Breakdown) Count(s Status) int {
	if !s.Valid() {
		return 0
	}
	return b[s]
}

// Total returns the sum over all statuses.
func (b Breakdown) Total() int {
	n := 0
	for _, c := range b {
		n += c
	}
	return n
}

// breakdownFields fixes the wire field order.
type breakdownFields struct {
	Complete   int `json:"complete" yaml:"complete"`
	InProgress int `json:"in-progress" yaml:"in-progress"`
	Pending    int `json:"pending" yaml:"pending"`
	Blocked    int `json:"blocked" yaml:"blocked"`
	Deferred   int `json:"deferred" yaml:"deferred"`
}

func (b Breakdown) fields() breakdownFields {
	return breakdownFields{
		Complete:   b[StatusComplete],
		InProgress: b[StatusInProgress],
		Pending:    b[StatusPending],
		Blocked:    b[StatusBlocked],
		Deferred:   b[StatusDeferred],
	}
}

// MarshalJSON renders the breakdown as an object keyed by status name.
func (b Breakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.fields())
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Breakdown) UnmarshalJSON(data []byte) error {
	var f breakdownFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*b = Breakdown{
		StatusComplete:   f.Complete,
		StatusInProgress: f.InProgress,
		StatusPending:    f.Pending,
		StatusBlocked:    f.Blocked,
		StatusDeferred:   f.Deferred,
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (b Breakdown) MarshalYAML() (interface{}, error) {
	return b.fields(), nil
}
