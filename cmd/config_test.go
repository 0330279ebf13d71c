package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskwatch/internal/clierr"
	"github.com/twiced-technology-gmbh/taskwatch/internal/config"
)

func TestConfigAccessorsCoverKeys(t *testing.T) {
	acc := configAccessors()
	for _, key := range allConfigKeys() {
		assert.Contains(t, acc, key)
	}
	assert.Len(t, acc, len(allConfigKeys()))
}

func TestConfigSetDirectory(t *testing.T) {
	dir := t.TempDir()
	store := config.NewStore(filepath.Join(t.TempDir(), config.FileName))

	cfg, err := store.Update(func(c *config.Config) error {
		return configAccessors()["directory"].set(c, dir)
	})
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir())
	assert.Equal(t, dir, store.Load().Dir())

	cfg, err = store.Update(func(c *config.Config) error {
		return configAccessors()["directory"].set(c, "")
	})
	require.NoError(t, err)
	assert.Nil(t, cfg.Directory)
	assert.Equal(t, "--", formatConfigValue(configAccessors()["directory"].get(cfg)))
}

func TestConfigSetDirectoryRejectsTraversal(t *testing.T) {
	var cfg config.Config
	err := configAccessors()["directory"].set(&cfg, "../somewhere")
	require.Error(t, err)
	assert.Equal(t, clierr.InvalidPath, clierr.As(err).Code)
}

func TestConfigSetPollingInterval(t *testing.T) {
	store := config.NewStore(filepath.Join(t.TempDir(), config.FileName))
	set := configAccessors()["polling_interval"].set

	cfg, err := store.Update(func(c *config.Config) error { return set(c, "5000") })
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.PollingInterval)

	_, err = store.Update(func(c *config.Config) error { return set(c, "abc") })
	require.Error(t, err)
	assert.Equal(t, clierr.InvalidInput, clierr.As(err).Code)

	_, err = store.Update(func(c *config.Config) error { return set(c, "500") })
	require.Error(t, err)
	assert.Equal(t, clierr.InvalidInput, clierr.As(configError(err)).Code)
	assert.Equal(t, 5000, store.Load().PollingInterval)
}
