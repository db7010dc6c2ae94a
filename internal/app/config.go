package app

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/raysh454/urlanalyzer/internal/analyzer"
	"github.com/raysh454/urlanalyzer/internal/cache"
	"github.com/raysh454/urlanalyzer/internal/formctl"
	"github.com/raysh454/urlanalyzer/internal/history"
	"github.com/raysh454/urlanalyzer/internal/logging"
	"github.com/raysh454/urlanalyzer/internal/server"
	"github.com/raysh454/urlanalyzer/internal/webclient"
)

// Config aggregates the configuration of every component the server wires.
type Config struct {
	ServerCfg server.Config

	AnalyzerCfg analyzer.Config

	CacheCfg cache.Config

	HistoryCfg history.Config

	// WebClient configuration for requests to VirusTotal
	WebClientCfg webclient.Config

	FormCfg formctl.Config

	// Debug enables debug log lines (DEVELOPMENT_ENV).
	Debug bool
}

// DefaultConfig returns a Config populated with sensible development defaults.
func DefaultConfig() *Config {
	a := analyzer.DefaultConfig()
	return &Config{
		ServerCfg:   server.DefaultConfig(),
		AnalyzerCfg: a,
		CacheCfg:    cache.DefaultConfig(),
		HistoryCfg:  history.DefaultConfig(),
		WebClientCfg: webclient.Config{
			Client:  webclient.ClientNetHTTP,
			Timeout: a.Timeout,
		},
		FormCfg: formctl.DefaultConfig(),
	}
}

// LoadConfig loads .env (or the given files) into the environment without
// overriding variables already set, then builds a Config from the environment.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && len(envFiles) > 0 {
		return nil, fmt.Errorf("loading env files: %w", err)
	}
	return configFromEnv(os.LookupEnv)
}

func configFromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := DefaultConfig()
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}
	getInt := func(key string, fallback int) (int, error) {
		raw := get(key, "")
		if raw == "" {
			return fallback, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid %s %q: want a positive integer", key, raw)
		}
		return n, nil
	}

	cfg.AnalyzerCfg.APIKey = get("VIRUS_TOTAL_API_KEY", "")
	cfg.AnalyzerCfg.BaseURL = get("VIRUS_TOTAL_BASE_URL", analyzer.DefaultBaseURL)
	cfg.Debug = logging.DebugEnabled(get("DEVELOPMENT_ENV", ""))

	port := get("PORT", "8000")
	if _, err := strconv.Atoi(port); err != nil {
		return nil, fmt.Errorf("invalid PORT %q", port)
	}
	cfg.ServerCfg.ListenAddr = net.JoinHostPort(get("BIND_ADDR", "127.0.0.1"), port)

	timeout, err := getInt("VT_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	cfg.AnalyzerCfg.Timeout = time.Duration(timeout) * time.Second
	cfg.WebClientCfg.Timeout = cfg.AnalyzerCfg.Timeout

	if cfg.AnalyzerCfg.MaxAttempts, err = getInt("VT_MAX_ATTEMPTS", 10); err != nil {
		return nil, err
	}

	cfg.CacheCfg.RedisAddr = get("REDIS_ADDR", "")
	ttl, err := getInt("CACHE_TTL_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	cfg.CacheCfg.TTL = time.Duration(ttl) * time.Minute

	cfg.HistoryCfg.Path = get("HISTORY_DB", cfg.HistoryCfg.Path)

	serialize := get("SERIALIZE_SUBMISSIONS", "false")
	if cfg.FormCfg.SerializeSubmissions, err = strconv.ParseBool(serialize); err != nil {
		return nil, fmt.Errorf("invalid SERIALIZE_SUBMISSIONS %q", serialize)
	}
	cfg.ServerCfg.Form = cfg.FormCfg

	return cfg, nil
}
