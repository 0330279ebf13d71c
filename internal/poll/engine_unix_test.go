//go:build !windows

package poll

import (
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskwatch/internal/task"
)

func TestPollOnceLockedFileRetried(t *testing.T) {
	fsys := &faultyFs{Fs: newMemFs(t), fail: map[string]error{}}
	path := filepath.Join(testDir, "001-a.md")
	writeFile(t, fsys, "001-a.md", taskTable("A", "| A1 | a | pending | - |"), baseTime)

	e := newTestEngine(t, fsys)
	pollOnce(t, e)

	writeFile(t, fsys, "001-a.md", taskTable("A", "| A1 | a | done | - |"), baseTime.Add(time.Second))
	fsys.setFailure(path, syscall.EBUSY)
	pollOnce(t, e)

	assert.Equal(t, []string{"001-a.md: file locked, will retry next cycle"}, e.Status().Errors)
	assert.Equal(t, task.StatusPending, e.Tasks()[0].Status)

	fsys.setFailure(path, nil)
	pollOnce(t, e)
	assert.Equal(t, task.StatusComplete, e.Tasks()[0].Status)
	require.Len(t, e.Changes(), 1)
}
