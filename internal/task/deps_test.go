package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDependencies(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"dash", "-", []string{}},
		{"padded dash", "  -  ", []string{}},
		{"single", "TASK-001-005", []string{"TASK-001-005"}},
		{"comma list", "T001, T002, T003", []string{"T001", "T002", "T003"}},
		{"drops empty pieces", "T001,, T002,", []string{"T001", "T002"}},
		{"keeps duplicates", "T001, T001", []string{"T001", "T001"}},
		{
			"range",
			"TASK-001-062 through TASK-001-065",
			[]string{"TASK-001-062", "TASK-001-063", "TASK-001-064", "TASK-001-065"},
		},
		{"range case insensitive", "T08 THROUGH T10", []string{"T08", "T09", "T10"}},
		{"range extra spaces", "T1   through   T3", []string{"T1", "T2", "T3"}},
		{"range crosses width", "T098 through T101", []string{"T098", "T099", "T100", "T101"}},
		{"range numeric only", "1 through 3", []string{"1", "2", "3"}},
		{"range single element", "T5 through T5", []string{"T5"}},
		{"range without digits", "alpha through omega", []string{"alpha", "omega"}},
		{"range prefix mismatch", "A-001 through B-003", []string{"A-001", "B-003"}},
		{"range reversed", "T010 through T005", []string{}},
		{"range too large", "T1 through T99999", []string{"T1", "T99999"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDependencies(tt.in))
		})
	}
}
