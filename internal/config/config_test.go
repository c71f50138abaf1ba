package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"searchlog/internal/terms"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENV", "SERVER_ADDR", "STORE", "RATE_LIMIT_MAX", "SWEEP_INTERVAL", "REDIS_URL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.ServerAddr != ":3000" {
		t.Errorf("ServerAddr = %q, want %q", cfg.ServerAddr, ":3000")
	}
	if cfg.Store != StorePostgres || cfg.UseMemoryStore() {
		t.Errorf("Store = %q, want postgres", cfg.Store)
	}
	if cfg.RateLimitMax != 100 {
		t.Errorf("RateLimitMax = %d, want 100", cfg.RateLimitMax)
	}
	if cfg.SweepInterval != 5*time.Minute {
		t.Errorf("SweepInterval = %v, want 5m", cfg.SweepInterval)
	}
	if !cfg.IsDev() {
		t.Error("IsDev() = false, want true by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("STORE", "memory")
	t.Setenv("RATE_LIMIT_MAX", "20")
	t.Setenv("SWEEP_INTERVAL", "0s")
	t.Setenv("ORIGIN_HEADER", "X-Forwarded-For")

	cfg := Load()
	if cfg.IsDev() {
		t.Error("IsDev() = true, want false")
	}
	if !cfg.UseMemoryStore() {
		t.Error("UseMemoryStore() = false, want true")
	}
	if cfg.RateLimitMax != 20 {
		t.Errorf("RateLimitMax = %d, want 20", cfg.RateLimitMax)
	}
	if cfg.SweepInterval != 0 {
		t.Errorf("SweepInterval = %v, want 0", cfg.SweepInterval)
	}
	if cfg.OriginHeader != "X-Forwarded-For" {
		t.Errorf("OriginHeader = %q", cfg.OriginHeader)
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_MAX", "lots")
	t.Setenv("SWEEP_INTERVAL", "often")

	cfg := Load()
	if cfg.RateLimitMax != 100 {
		t.Errorf("RateLimitMax = %d, want fallback 100", cfg.RateLimitMax)
	}
	if cfg.SweepInterval != 5*time.Minute {
		t.Errorf("SweepInterval = %v, want fallback 5m", cfg.SweepInterval)
	}
}

func TestLoadYAMLConfig_Missing(t *testing.T) {
	cfg, err := LoadYAMLConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadYAMLConfig() error = %v", err)
	}
	if cfg != nil {
		t.Errorf("LoadYAMLConfig() = %+v, want nil", cfg)
	}

	// A nil config yields the default policy.
	if got := cfg.TermPolicy(); got != terms.DefaultPolicy() {
		t.Errorf("TermPolicy() = %+v, want defaults", got)
	}
}

func TestLoadYAMLConfig_PolicyOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`policy:
  merge_window: 90s
  max_merge_distance: 0
  global_cache_ttl: 5s
  suggestion_limit: 3
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadYAMLConfig(path)
	if err != nil {
		t.Fatalf("LoadYAMLConfig() error = %v", err)
	}

	policy := cfg.TermPolicy()
	want := terms.Policy{
		MergeWindow:      90 * time.Second,
		MaxMergeDistance: 0,
		GlobalCacheTTL:   5 * time.Second,
		SuggestionLimit:  3,
	}
	if policy != want {
		t.Errorf("TermPolicy() = %+v, want %+v", policy, want)
	}
}

func TestLoadYAMLConfig_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("policy:\n  merge_window: 2m\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadYAMLConfig(path)
	if err != nil {
		t.Fatalf("LoadYAMLConfig() error = %v", err)
	}

	policy := cfg.TermPolicy()
	def := terms.DefaultPolicy()
	if policy.MergeWindow != 2*time.Minute {
		t.Errorf("MergeWindow = %v, want 2m", policy.MergeWindow)
	}
	if policy.MaxMergeDistance != def.MaxMergeDistance || policy.GlobalCacheTTL != def.GlobalCacheTTL {
		t.Errorf("unset fields changed: %+v", policy)
	}
}

func TestLoadYAMLConfig_SuggestionLimitClamped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("policy:\n  suggestion_limit: 20\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadYAMLConfig(path)
	if err != nil {
		t.Fatalf("LoadYAMLConfig() error = %v", err)
	}
	if got := cfg.TermPolicy().SuggestionLimit; got != terms.ViewLimit {
		t.Errorf("SuggestionLimit = %d, want %d", got, terms.ViewLimit)
	}
}

func TestLoadYAMLConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("policy: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadYAMLConfig(path); err == nil {
		t.Error("LoadYAMLConfig() error = nil, want parse error")
	}
}
