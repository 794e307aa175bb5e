package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/groundcheck/internal/model"
)

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"Research on India-America Relations": "research-on-india-america-relations",
		"  What's new in Go 1.25?  ":          "what-s-new-in-go-1-25",
		"../../etc/passwd":                    "etc-passwd",
		"???":                                 "topic",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeFilename(in), in)
	}
}

func TestReportNames_Distinct(t *testing.T) {
	names := make(reportNames)

	assert.Equal(t, "ai-ml-trends", names.next("AI/ML trends"))
	assert.Equal(t, "ai-ml-trends-2", names.next("AI ML trends"))
	assert.Equal(t, "ai-ml-trends-3", names.next("ai-ml trends"))
	assert.Equal(t, "ai-ml-trends-2-2", names.next("AI ML trends 2"))
	assert.Equal(t, "go-releases", names.next("Go releases"))
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GC_TEST_PRESET=from-file\nGC_TEST_NEW=loaded\n"), 0o600))

	t.Setenv("GC_TEST_PRESET", "from-env")
	t.Setenv("GC_TEST_NEW", "")
	require.NoError(t, os.Unsetenv("GC_TEST_NEW"))

	require.NoError(t, loadDotEnv(path))

	assert.Equal(t, "from-env", os.Getenv("GC_TEST_PRESET"))
	assert.Equal(t, "loaded", os.Getenv("GC_TEST_NEW"))
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	v := viper.New()
	require.NoError(t, initConfig(v, ""))

	cfg, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "Research on India-America Relations", cfg.Topic)
	assert.Equal(t, 2025, cfg.Year)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "turing_flash", cfg.Eval.Model)
	assert.Equal(t, 2*time.Minute, cfg.Eval.Timeout)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GROUNDCHECK_LLM_MODEL", "gemini-2.5-flash")
	t.Setenv("GROUNDCHECK_EVAL_TIMEOUT", "30s")
	t.Setenv("GROUNDCHECK_YEAR", "2026")

	v := viper.New()
	require.NoError(t, initConfig(v, ""))

	cfg, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, 30*time.Second, cfg.Eval.Timeout)
	assert.Equal(t, 2026, cfg.Year)
}

func TestLoadConfig_FileAndSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: openai\n  model: gpt-4o-mini\nsearch:\n  enrich_pages: 3\n"), 0o600))

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SERPER_API_KEY", "serper")
	t.Setenv("FI_API_KEY", "fi")
	t.Setenv("FI_SECRET_KEY", "secret")
	t.Setenv("FI_BASE_URL", "http://localhost:9999")

	v := viper.New()
	require.NoError(t, initConfig(v, path))

	cfg, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 0.1, cfg.LLM.Temperature)
	assert.Equal(t, 3, cfg.Search.EnrichPages)
	assert.Equal(t, "https://google.serper.dev", cfg.Search.BaseURL)

	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "serper", cfg.Search.APIKey)
	assert.Equal(t, "fi", cfg.Eval.APIKey)
	assert.Equal(t, "secret", cfg.Eval.SecretKey)
	assert.Equal(t, "http://localhost:9999", cfg.Eval.BaseURL)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	err := initConfig(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplySecrets_Ollama(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "http://gpu-box:11434")

	cfg := model.DefaultConfig()
	cfg.LLM.Provider = "ollama"
	applySecrets(cfg)

	assert.Equal(t, "http://gpu-box:11434", cfg.LLM.BaseURL)
	assert.Empty(t, cfg.LLM.APIKey)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".groundcheck", "config.yaml")
	require.NoError(t, writeDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "api_key")

	var cfg model.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, *model.DefaultConfig(), cfg)

	err = writeDefaultConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCredentialStatus(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Eval.APIKey = "k"

	status := credentialStatus(cfg)
	require.Len(t, status, 4)
	assert.Equal(t, credential{"FI_API_KEY", "set"}, status[0])
	assert.Equal(t, credential{"FI_SECRET_KEY", "missing"}, status[1])
	assert.Equal(t, credential{"GEMINI_API_KEY", "missing"}, status[3])
}
