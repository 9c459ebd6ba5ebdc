package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/harvester/pkg/errors"
	"github.com/matzehuels/harvester/pkg/model"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database != "harvester" {
		t.Errorf("Database = %q, want harvester", cfg.Database)
	}
	if cfg.BatchSize != 10 {
		t.Errorf("BatchSize = %d, want 10", cfg.BatchSize)
	}

	tests := []struct {
		src         model.Source
		delay       time.Duration
		concurrency int
	}{
		{model.SourceNPM, 6 * time.Second, 4},
		{model.SourceGitHub, 3 * time.Second, 4},
		{model.SourcePackagist, 8 * time.Second, 1},
	}
	for _, tt := range tests {
		sc := cfg.Source(tt.src)
		if sc.Delay() != tt.delay {
			t.Errorf("%s delay = %v, want %v", tt.src, sc.Delay(), tt.delay)
		}
		if sc.Concurrency != tt.concurrency {
			t.Errorf("%s concurrency = %d, want %d", tt.src, sc.Concurrency, tt.concurrency)
		}
		if sc.BatchSize != 10 {
			t.Errorf("%s batch size = %d, want 10", tt.src, sc.BatchSize)
		}
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("MONGODB_SERVER", "mongodb://localhost:27017")
	t.Setenv("MONGODB_NAME", "crawl")
	t.Setenv("WORKERS", "npm , Packagist")
	t.Setenv("PACKAGIST_BASE_URL", "https://packagist.org")
	t.Setenv("PACKAGIST_BREAK_DELAY", "2")
	t.Setenv("GITHUB_ACCESS_TOKEN", "ghp_secret")
	t.Setenv("CACHE_TTL", "2h")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MongoURI != "mongodb://localhost:27017" || cfg.Database != "crawl" {
		t.Errorf("store = %q/%q", cfg.MongoURI, cfg.Database)
	}
	if got := cfg.Enabled(); len(got) != 2 || got[0] != model.SourceNPM || got[1] != model.SourcePackagist {
		t.Errorf("Enabled() = %v", got)
	}
	if cfg.Packagist.BaseURL != "https://packagist.org" || cfg.Packagist.BreakDelay != 2 {
		t.Errorf("packagist = %+v", cfg.Packagist)
	}
	if cfg.GitHub.AccessToken != "ghp_secret" {
		t.Errorf("AccessToken = %q", cfg.GitHub.AccessToken)
	}
	if cfg.CacheTTL != 2*time.Hour {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harvester.toml")
	content := `
mongodb_server = "mongodb://db:27017"
workers = ["github"]
max_keywords_by_queue = 5

[github]
concurrency = 2
batch_size = 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BatchSize != 5 {
		t.Errorf("BatchSize = %d, want 5", cfg.BatchSize)
	}
	gh := cfg.Source(model.SourceGitHub)
	if gh.Concurrency != 2 || gh.BatchSize != 3 {
		t.Errorf("github = %+v", gh)
	}
	if npm := cfg.Source(model.SourceNPM); npm.BatchSize != 5 {
		t.Errorf("npm batch size = %d, want 5", npm.BatchSize)
	}
	if got := cfg.Enabled(); len(got) != 1 || got[0] != model.SourceGitHub {
		t.Errorf("Enabled() = %v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeConfig) {
		t.Fatalf("err = %v, want CONFIG_ERROR", err)
	}
}

func TestLoadUnknownWorker(t *testing.T) {
	t.Setenv("WORKERS", "npm,medium")
	_, err := Load("")
	if !errors.Is(err, errors.ErrCodeInvalidSource) {
		t.Fatalf("err = %v, want INVALID_SOURCE", err)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero batch", func(c *Config) { c.BatchSize = 0 }},
		{"negative ttl", func(c *Config) { c.CacheTTL = -time.Second }},
		{"negative delay", func(c *Config) { c.NPM.BreakDelay = -1 }},
		{"zero concurrency", func(c *Config) { c.GitHub.Concurrency = 0 }},
		{"negative rps", func(c *Config) { c.Packagist.RPS = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, errors.ErrCodeConfig) {
				t.Errorf("Validate() = %v, want CONFIG_ERROR", err)
			}
		})
	}
}

func TestValidateStore(t *testing.T) {
	var cfg Config
	if err := cfg.ValidateStore(); !errors.Is(err, errors.ErrCodeConfig) {
		t.Errorf("ValidateStore() = %v, want CONFIG_ERROR", err)
	}
	cfg.MongoURI = "mongodb://localhost"
	if err := cfg.ValidateStore(); err != nil {
		t.Errorf("ValidateStore() = %v", err)
	}
}

func TestValidateSource(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.ValidateSource(model.SourceNPM); err != nil {
		t.Errorf("npm: %v", err)
	}
	if err := cfg.ValidateSource(model.SourcePackagist); !errors.Is(err, errors.ErrCodeConfig) {
		t.Errorf("packagist without base URL = %v, want CONFIG_ERROR", err)
	}
	cfg.Packagist.BaseURL = "ftp://packagist.org"
	if err := cfg.ValidateSource(model.SourcePackagist); !errors.Is(err, errors.ErrCodeConfig) {
		t.Errorf("packagist with bad scheme = %v, want CONFIG_ERROR", err)
	}
	cfg.Packagist.BaseURL = "https://packagist.org"
	if err := cfg.ValidateSource(model.SourcePackagist); err != nil {
		t.Errorf("packagist: %v", err)
	}
}

func TestTOMLRedacts(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.MongoURI = "mongodb://admin:hunter2@db:27017"
	cfg.GitHub.AccessToken = "ghp_secret"
	cfg.Workers = []string{"npm"}

	out, err := cfg.TOML()
	if err != nil {
		t.Fatalf("TOML: %v", err)
	}
	for _, secret := range []string{"hunter2", "ghp_secret"} {
		if strings.Contains(out, secret) {
			t.Errorf("output leaks %q:\n%s", secret, out)
		}
	}
	for _, want := range []string{"mongodb://admin:****@db:27017", "[packagist]", "break_delay = 8"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if cfg.GitHub.AccessToken != "ghp_secret" {
		t.Error("TOML modified the receiver")
	}
}

func TestRedactURI(t *testing.T) {
	tests := map[string]string{
		"mongodb://u:p@h:1/db": "mongodb://u:****@h:1/db",
		"mongodb://h:1":        "mongodb://h:1",
		"redis://u@h":          "redis://u@h",
		"not a uri":            "not a uri",
	}
	for in, want := range tests {
		if got := redactURI(in); got != want {
			t.Errorf("redactURI(%q) = %q, want %q", in, got, want)
		}
	}
}
