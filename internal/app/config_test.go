package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := configFromEnv(envMap(nil))
	if err != nil {
		t.Fatalf("configFromEnv: %v", err)
	}
	if cfg.ServerCfg.ListenAddr != "127.0.0.1:8000" {
		t.Errorf("ListenAddr = %q", cfg.ServerCfg.ListenAddr)
	}
	if cfg.AnalyzerCfg.APIKey != "" || cfg.AnalyzerCfg.BaseURL != "https://www.virustotal.com" {
		t.Errorf("analyzer cfg = %+v", cfg.AnalyzerCfg)
	}
	if cfg.AnalyzerCfg.MaxAttempts != 10 || cfg.AnalyzerCfg.Timeout != 30*time.Second || cfg.WebClientCfg.Timeout != 30*time.Second {
		t.Errorf("attempts/timeout = %d/%v", cfg.AnalyzerCfg.MaxAttempts, cfg.AnalyzerCfg.Timeout)
	}
	if cfg.CacheCfg.RedisAddr != "" || cfg.CacheCfg.TTL != time.Hour {
		t.Errorf("cache cfg = %+v", cfg.CacheCfg)
	}
	if cfg.Debug || cfg.FormCfg.SerializeSubmissions {
		t.Error("debug and serialize should default off")
	}
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Parallel()
	cfg, err := configFromEnv(envMap(map[string]string{
		"VIRUS_TOTAL_API_KEY":   " k123 ",
		"VIRUS_TOTAL_BASE_URL":  "http://127.0.0.1:9998",
		"DEVELOPMENT_ENV":       "True",
		"PORT":                  "9000",
		"BIND_ADDR":             "0.0.0.0",
		"VT_TIMEOUT_SECONDS":    "5",
		"VT_MAX_ATTEMPTS":       "3",
		"REDIS_ADDR":            "localhost:6379",
		"CACHE_TTL_MINUTES":     "2",
		"HISTORY_DB":            "/tmp/h.db",
		"SERIALIZE_SUBMISSIONS": "true",
	}))
	if err != nil {
		t.Fatalf("configFromEnv: %v", err)
	}
	if cfg.AnalyzerCfg.APIKey != "k123" || cfg.AnalyzerCfg.BaseURL != "http://127.0.0.1:9998" {
		t.Errorf("analyzer cfg = %+v", cfg.AnalyzerCfg)
	}
	if !cfg.Debug {
		t.Error("Debug should be on")
	}
	if cfg.ServerCfg.ListenAddr != "0.0.0.0:9000" {
		t.Errorf("ListenAddr = %q", cfg.ServerCfg.ListenAddr)
	}
	if cfg.AnalyzerCfg.Timeout != 5*time.Second || cfg.AnalyzerCfg.MaxAttempts != 3 {
		t.Errorf("timeout/attempts = %v/%d", cfg.AnalyzerCfg.Timeout, cfg.AnalyzerCfg.MaxAttempts)
	}
	if cfg.CacheCfg.RedisAddr != "localhost:6379" || cfg.CacheCfg.TTL != 2*time.Minute {
		t.Errorf("cache cfg = %+v", cfg.CacheCfg)
	}
	if cfg.HistoryCfg.Path != "/tmp/h.db" {
		t.Errorf("history path = %q", cfg.HistoryCfg.Path)
	}
	if !cfg.FormCfg.SerializeSubmissions || !cfg.ServerCfg.Form.SerializeSubmissions {
		t.Error("serialize should propagate to the page controller")
	}
}

func TestConfigFromEnv_Invalid(t *testing.T) {
	t.Parallel()
	for key, val := range map[string]string{
		"PORT":                  "http",
		"VT_TIMEOUT_SECONDS":    "-1",
		"VT_MAX_ATTEMPTS":       "ten",
		"CACHE_TTL_MINUTES":     "0",
		"SERIALIZE_SUBMISSIONS": "maybe",
	} {
		if _, err := configFromEnv(envMap(map[string]string{key: val})); err == nil {
			t.Errorf("%s=%q: expected error", key, val)
		}
	}
}

func TestLoadConfig_ReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("VT_MAX_ATTEMPTS=4\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VT_MAX_ATTEMPTS", "")
	os.Unsetenv("VT_MAX_ATTEMPTS")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.AnalyzerCfg.MaxAttempts != 4 {
		t.Errorf("MaxAttempts = %d, want 4", cfg.AnalyzerCfg.MaxAttempts)
	}
}

func TestLoadConfig_MissingEnvFile(t *testing.T) {
	t.Parallel()
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Error("expected error for a missing explicit env file")
	}
}
