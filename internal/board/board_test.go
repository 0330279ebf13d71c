package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskwatch/internal/clierr"
	"github.com/twiced-technology-gmbh/taskwatch/internal/task"
)

func snapshot() []task.Task {
	return []task.Task{
		{TaskID: "P1", TaskName: "Lexer", Status: task.StatusComplete, Agent: "alice", SequenceID: "001", SequenceName: "Parser", SourceFile: "001-parser.md"},
		{TaskID: "P2", TaskName: "Parser", Status: task.StatusInProgress, BlockedBy: []string{"P1"}, Agent: "bob", Priority: "high", SequenceID: "001", SequenceName: "Parser", SourceFile: "001-parser.md"},
		{TaskID: "P3", TaskName: "Checker", Status: task.StatusPending, BlockedBy: []string{"P2"}, SequenceID: "001", SequenceName: "Parser", SourceFile: "001-parser.md"},
		{TaskID: "A1", TaskName: "Routes", Status: task.StatusBlocked, BlockedBy: []string{"P3", "X9"}, Agent: "Alice", SequenceID: "002", SequenceName: "API", SourceFile: "002-api.md"},
		{TaskID: "A2", TaskName: "Docs", Status: task.StatusDeferred, Priority: "low", SequenceID: "002", SequenceName: "API", SourceFile: "002-api.md"},
		{TaskID: "A3", TaskName: "Deploy", Status: task.StatusPending, BlockedBy: []string{"A2"}, SequenceID: "002", SequenceName: "API", SourceFile: "002-api.md"},
	}
}

func ids(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.TaskID
	}
	return out
}

func TestFilter(t *testing.T) {
	all := snapshot()
	tests := []struct {
		name string
		opts FilterOptions
		want []string
	}{
		{"no filter", FilterOptions{}, []string{"P1", "P2", "P3", "A1", "A2", "A3"}},
		{"sequence", FilterOptions{Sequences: []string{"002"}}, []string{"A1", "A2", "A3"}},
		{"status", FilterOptions{Statuses: []task.Status{task.StatusPending}}, []string{"P3", "A3"}},
		{"exclude", FilterOptions{ExcludeStatuses: []task.Status{task.StatusComplete, task.StatusDeferred}}, []string{"P2", "P3", "A1", "A3"}},
		{"agent case-insensitive", FilterOptions{Agent: "ALICE"}, []string{"P1", "A1"}},
		{"priority", FilterOptions{Priority: "High"}, []string{"P2"}},
		{"search name", FilterOptions{Search: "pars"}, []string{"P2"}},
		{"search agent", FilterOptions{Search: "bob"}, []string{"P2"}},
		{"combined", FilterOptions{Sequences: []string{"001"}, Statuses: []task.Status{task.StatusComplete}}, []string{"P1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(all, tt.opts)))
		})
	}
}

func TestResolver(t *testing.T) {
	all := snapshot()
	r := NewResolver(all)

	assert.Empty(t, r.Unresolved(all[1]), "P1 is complete")
	assert.Equal(t, []string{"P2"}, r.Unresolved(all[2]))
	assert.Equal(t, []string{"P3"}, r.Unresolved(all[3]), "cross-sequence lookup; unknown X9 is skipped")
	assert.Equal(t, []string{"X9"}, r.Unknown(all[3]))
	assert.Empty(t, r.Unresolved(all[5]), "deferred dependencies do not block")
}

func TestResolverPrefersOwnSequence(t *testing.T) {
	tasks := []task.Task{
		{TaskID: "T1", Status: task.StatusPending, SequenceID: "001"},
		{TaskID: "T1", Status: task.StatusComplete, SequenceID: "002"},
		{TaskID: "T2", Status: task.StatusPending, BlockedBy: []string{"T1"}, SequenceID: "002"},
	}
	assert.Empty(t, NewResolver(tasks).Unresolved(tasks[2]))
}

func TestDependents(t *testing.T) {
	assert.Equal(t, []string{"P3"}, ids(Dependents(snapshot(), "P2")))
	assert.Empty(t, Dependents(snapshot(), "A3"))
}

func TestListUnblockedUsesFullSnapshot(t *testing.T) {
	all := snapshot()
	got := List(all, ListOptions{
		Filter:    FilterOptions{Sequences: []string{"001"}},
		Unblocked: true,
	})
	assert.Equal(t, []string{"P1", "P2"}, ids(got))
	assert.Len(t, all, 6, "input is not modified")
}

func TestListSortAndLimit(t *testing.T) {
	all := snapshot()

	got := List(all, ListOptions{SortBy: SortStatus})
	assert.Equal(t, []string{"P1", "P2", "P3", "A3", "A1", "A2"}, ids(got))

	got = List(all, ListOptions{SortBy: SortID, Reverse: true, Limit: 2})
	assert.Equal(t, []string{"P3", "P2"}, ids(got))

	got = List(all, ListOptions{SortBy: SortAgent})
	assert.Equal(t, []string{"P1", "A1", "P2", "P3", "A2", "A3"}, ids(got))

	assert.Equal(t, "P1", all[0].TaskID, "sorting works on a copy")
}

func TestGroupBy(t *testing.T) {
	all := snapshot()

	grouped := GroupBy(all, GroupSequence)
	require.Len(t, grouped.Groups, 2)
	assert.Equal(t, "001 Parser", grouped.Groups[0].Key)
	assert.Equal(t, 3, grouped.Groups[0].Total)

	grouped = GroupBy(all, GroupAgent)
	keys := make([]string, len(grouped.Groups))
	for i, g := range grouped.Groups {
		keys[i] = g.Key
	}
	assert.Equal(t, []string{"Alice", "alice", "bob", "(unassigned)"}, keys)

	grouped = GroupBy(all, GroupStatus)
	require.Len(t, grouped.Groups, 5)
	assert.Equal(t, "complete", grouped.Groups[0].Key)
	assert.Equal(t, "deferred", grouped.Groups[4].Key)
}

func TestSummary(t *testing.T) {
	all := snapshot()
	o := Summary("/tasks", 3, all, nil, nil, nil)

	assert.Equal(t, 6, o.TotalTasks)
	assert.Equal(t, 1, o.CompletedTasks)
	assert.Equal(t, 16, o.Percent())
	require.Len(t, o.Statuses, 5)

	pending := o.Statuses[task.StatusPending]
	assert.Equal(t, task.StatusPending, pending.Status)
	assert.Equal(t, 2, pending.Count)
	assert.Equal(t, 1, pending.Waiting, "P3 waits on P2, A3 waits on deferred A2")

	assert.Equal(t, CountByStatus(all).Total(), o.TotalTasks)
}

func TestParseStatuses(t *testing.T) {
	got, err := ParseStatuses("pending, In-Progress")
	require.NoError(t, err)
	assert.Equal(t, []task.Status{task.StatusPending, task.StatusInProgress}, got)

	got, err = ParseStatuses("")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseStatuses("done")
	var cliErr *clierr.Error
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierr.InvalidStatus, cliErr.Code)
}

func TestFindSequence(t *testing.T) {
	seqs := []task.Sequence{{SequenceID: "001"}, {SequenceID: "002"}}
	s, err := FindSequence(seqs, "002")
	require.NoError(t, err)
	assert.Equal(t, "002", s.SequenceID)

	_, err = FindSequence(seqs, "009")
	var cliErr *clierr.Error
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierr.SequenceNotFound, cliErr.Code)
	assert.Equal(t, []string{"001", "002"}, ParseSequences(" 001,,002 "))
}
