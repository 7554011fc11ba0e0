package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/credence/internal/model"
)

// clearBackendEnv blanks variables that would leak the host's backend settings
func clearBackendEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PYTHON_API_URL", "OPENAI_API_KEY", "CREDENCE_BACKEND_URL", "CREDENCE_BACKEND_API_KEY"} {
		t.Setenv(key, "")
	}
}

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	bindEnv(v)
	return v
}

func TestDecodeConfig_Defaults(t *testing.T) {
	clearBackendEnv(t)
	cfg, err := decodeConfig(newTestViper(t))
	require.NoError(t, err)

	assert.Equal(t, model.DefaultConfig(), cfg)
	assert.Equal(t, model.BackendNone, cfg.Backend.EffectiveKind())
}

func TestDecodeConfig_LegacyBackendEnv(t *testing.T) {
	clearBackendEnv(t)
	t.Setenv("PYTHON_API_URL", "http://localhost:8000/score")

	cfg, err := decodeConfig(newTestViper(t))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/score", cfg.Backend.URL)
	assert.Equal(t, model.BackendHTTP, cfg.Backend.EffectiveKind())
}

func TestDecodeConfig_PrefixedEnvWins(t *testing.T) {
	clearBackendEnv(t)
	t.Setenv("PYTHON_API_URL", "http://legacy/score")
	t.Setenv("CREDENCE_BACKEND_URL", "http://primary/score")
	t.Setenv("CREDENCE_HTTP_TIMEOUT", "3s")
	t.Setenv("CREDENCE_LOG_FORMAT", "json")

	cfg, err := decodeConfig(newTestViper(t))
	require.NoError(t, err)
	assert.Equal(t, "http://primary/score", cfg.Backend.URL)
	assert.Equal(t, 3*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestDecodeConfig_File(t *testing.T) {
	clearBackendEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend:
  kind: openai
  model: gpt-4o
http:
  timeout: 5s
lexicon:
  evidence: [studie, daten]
`), 0644))

	v := newTestViper(t)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := decodeConfig(v)
	require.NoError(t, err)
	assert.Equal(t, model.BackendOpenAI, cfg.Backend.Kind)
	assert.Equal(t, "gpt-4o", cfg.Backend.Model)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, []string{"studie", "daten"}, cfg.Lexicon.Evidence)
	assert.Equal(t, model.DefaultLexicon().Emotional, cfg.Lexicon.Emotional)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestWriteDefaultConfig_RoundTrip(t *testing.T) {
	clearBackendEnv(t)
	path := filepath.Join(t.TempDir(), ".credence", "config.yaml")
	require.NoError(t, writeDefaultConfig(path))

	err := writeDefaultConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	v := newTestViper(t)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := decodeConfig(v)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig(), cfg)
}

func TestShowConfig_MasksAPIKey(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Backend.APIKey = "sk-secret"

	var buf bytes.Buffer
	require.NoError(t, showConfig(&buf, cfg))

	assert.NotContains(t, buf.String(), "sk-secret")
	assert.Contains(t, buf.String(), "********")
	assert.Equal(t, "sk-secret", cfg.Backend.APIKey, "caller's config untouched")
}
