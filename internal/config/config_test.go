package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "JELLYBEAN_PROVIDER_API_KEY", "JELLYBEAN_PROVIDER_NAME"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Provider.Name)
	assert.Equal(t, 60*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "127.0.0.1", cfg.Server.Addr)
	assert.Equal(t, 8787, cfg.Server.Port)
	assert.Equal(t, "history.json", filepath.Base(cfg.History.Path))
	assert.Empty(t, cfg.Provider.Credential())
}

func TestLoadFileAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider:
  name: openai
  model: gpt-4o-mini
  timeout: 5s
history:
  path: /tmp/jb/history.json
`), 0o644))
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider.Name)
	assert.Equal(t, "gpt-4o-mini", cfg.Provider.Model)
	assert.Equal(t, 5*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "/tmp/jb/history.json", cfg.History.Path)
	assert.Equal(t, "sk-test", cfg.Provider.Credential())
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestCredentialPrecedence(t *testing.T) {
	p := ProviderConfig{Name: "gemini", GeminiAPIKey: "g", OpenAIAPIKey: "o"}
	assert.Equal(t, "g", p.Credential())

	p.Name = "openai"
	assert.Equal(t, "o", p.Credential())

	p.APIKey = "explicit"
	assert.Equal(t, "explicit", p.Credential())
}
