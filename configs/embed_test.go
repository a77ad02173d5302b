package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/faqmatch/internal/config"
)

func TestConfigTemplate_MatchesDefaults(t *testing.T) {
	// Given: the template written as a project config
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".faqmatch.yaml"), []byte(ConfigTemplate), 0o644))

	// When: loading it
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	// Then: it reproduces the built-in defaults
	defaults := config.NewConfig()
	assert.Equal(t, defaults.Matcher, cfg.Matcher)
	assert.Equal(t, defaults.Server, cfg.Server)
	assert.Equal(t, defaults.Messages, cfg.Messages)
	assert.Equal(t, filepath.Join(dir, defaults.Corpus.Path), cfg.Corpus.Path)
}
