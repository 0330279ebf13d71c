package task

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"complete", StatusComplete},
		{"Completed", StatusComplete},
		{"  DONE  ", StatusComplete},
		{"in progress", StatusInProgress},
		{"In-Progress", StatusInProgress},
		{"active", StatusInProgress},
		{"WIP", StatusInProgress},
		{"pending", StatusPending},
		{"todo", StatusPending},
		{"Not Started", StatusPending},
		{"queued", StatusPending},
		{"blocked", StatusBlocked},
		{"deferred", StatusDeferred},
		{"Deferred (not blocking)", StatusDeferred},
		{"skipped", StatusDeferred},
		{"", StatusPending},
		{"unknown", StatusPending},
		{"in  progress", StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"done", "wip", "todo", "blocked", "skipped", "", "garbage"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once.String()), "input %q", in)
	}
}

func TestStatusText(t *testing.T) {
	for _, s := range Statuses() {
		text, err := s.MarshalText()
		require.NoError(t, err)

		var back Status
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, s, back)
	}

	_, err := Status(42).MarshalText()
	require.Error(t, err)
	assert.Equal(t, "Status(42)", Status(42).String())

	var s Status
	require.Error(t, s.UnmarshalText([]byte("done")))
}

func TestBreakdownJSON(t *testing.T) {
	var b Breakdown
	b[StatusComplete] = 2
	b[StatusBlocked] = 1

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"complete":2,"in-progress":0,"pending":0,"blocked":1,"deferred":0}`, string(data))
	assert.Equal(t, 3, b.Total())

	var back Breakdown
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, b, back)
}
