package model_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minhvu/todopad/internal/model"
)

func TestLoadConfigMissingFileGivesDefaults(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	cfg, err := model.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Nil(err)
	assert.Equal("http://localhost:8080/api", cfg.Server.BaseURL)
	assert.Equal(30, cfg.Server.TimeoutSec)
	assert.Equal(10, cfg.Server.MaxUploadMB)
	assert.Equal("info", cfg.Log.Level)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := model.LoadConfig(path)
	assert.Nil(err)
	cfg.Server.BaseURL = "http://example.test/api"
	cfg.Server.MaxUploadMB = 25
	cfg.Log.Level = "debug"

	assert.Nil(model.SaveConfig(path, cfg))

	loaded, err := model.LoadConfig(path)
	assert.Nil(err)
	assert.Equal("http://example.test/api", loaded.Server.BaseURL)
	assert.Equal(25, loaded.Server.MaxUploadMB)
	assert.Equal("debug", loaded.Log.Level)
}
