package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskwatch/internal/clierr"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "nested", FileName))
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	s := newStore(t)
	cfg := s.Load()
	assert.Nil(t, cfg.Directory)
	assert.Equal(t, DefaultPollingInterval, cfg.PollingInterval)
	assert.Equal(t, 30*time.Second, cfg.Interval())
	assert.Empty(t, cfg.Dir())
}

func TestLoadDefaultsWhenCorrupt(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o600))

	assert.Equal(t, Default(), s.Load())
}

func TestLoadFillsMissingFields(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		dir      string
		interval int
	}{
		{"directory only", `{"directory":"/srv/tasks"}`, "/srv/tasks", DefaultPollingInterval},
		{"interval only", `{"pollingInterval":5000}`, "", 5000},
		{"null directory", `{"directory":null,"pollingInterval":2000}`, "", 2000},
		{"interval too small", `{"directory":"/x","pollingInterval":10}`, "/x", DefaultPollingInterval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
			require.NoError(t, os.WriteFile(s.Path(), []byte(tt.content), 0o600))

			cfg := s.Load()
			assert.Equal(t, tt.dir, cfg.Dir())
			assert.Equal(t, tt.interval, cfg.PollingInterval)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	s := newStore(t)
	cfg := Default()
	cfg.SetDir("/srv/tasks")
	cfg.PollingInterval = 5000

	require.NoError(t, s.Save(cfg))
	assert.Equal(t, cfg, s.Load())

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `{"directory":"/srv/tasks","pollingInterval":5000}`, string(data))
}

func TestSaveNullDirectory(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save(Default()))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `{"directory":null,"pollingInterval":30000}`, string(data))
}

func TestSaveRejectsInvalid(t *testing.T) {
	s := newStore(t)
	err := s.Save(Config{PollingInterval: 10})
	require.ErrorIs(t, err, ErrInvalid)
	assert.NoFileExists(t, s.Path())
}

func TestUpdate(t *testing.T) {
	s := newStore(t)

	cfg, err := s.Update(func(c *Config) error {
		c.SetDir("/a")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "/a", cfg.Dir())
	assert.Equal(t, "/a", s.Load().Dir())

	boom := errors.New("boom")
	_, err = s.Update(func(c *Config) error {
		c.SetDir("/b")
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "/a", s.Load().Dir(), "failed update leaves the file untouched")

	_, err = s.Update(func(c *Config) error {
		c.PollingInterval = 1
		return nil
	})
	require.ErrorIs(t, err, ErrInvalid)
}

func TestUpdateConcurrent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save(Config{PollingInterval: MinPollingInterval}))

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(func(c *Config) error {
				c.PollingInterval += 1000
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, MinPollingInterval+10*1000, s.Load().PollingInterval)
}

func TestSetDirEmptyClears(t *testing.T) {
	cfg := Default()
	cfg.SetDir("/x")
	cfg.SetDir("")
	assert.Nil(t, cfg.Directory)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AppData", t.TempDir())

	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, FileName, filepath.Base(p))
	assert.Equal(t, AppDir, filepath.Base(filepath.Dir(p)))
}

func TestValidateDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tasks.md")
	require.NoError(t, os.WriteFile(file, []byte("# x"), 0o600))

	got, err := ValidateDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	tests := []struct {
		name string
		in   string
		msg  string
	}{
		{"empty", "", "directory field is required."},
		{"traversal", dir + string(filepath.Separator) + ".." + string(filepath.Separator) + filepath.Base(dir), "Path does not exist or is not a readable directory."},
		{"dots in name", filepath.Join(dir, "a..b"), "Path does not exist or is not a readable directory."},
		{"missing", filepath.Join(dir, "missing"), "Path does not exist or is not a readable directory."},
		{"file", file, "Path does not exist or is not a readable directory."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateDirectory(tt.in)
			var cliErr *clierr.Error
			require.ErrorAs(t, err, &cliErr)
			assert.Equal(t, clierr.InvalidPath, cliErr.Code)
			assert.Equal(t, tt.msg, cliErr.Message)
		})
	}
}

func TestValidateDirectoryRelative(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.Mkdir("tasks", 0o755))

	got, err := ValidateDirectory("tasks")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "tasks", filepath.Base(got))
}
