package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/court-directory-crawler/internal/extract"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "court-directory-crawler/1.0", cfg.Crawler.UserAgent)
	assert.Equal(t, time.Second, cfg.Crawler.Delay)
	assert.Empty(t, cfg.Crawler.SourceURLs)
	assert.Equal(t, 15*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, []string{"/courthouse/", "/saiban/"}, cfg.Discovery.Patterns)
	assert.Equal(t, []string{"裁判所", "支部"}, cfg.Names.Suffixes)
	assert.Equal(t, []string{"裁判所内"}, cfg.Names.Exclusions)
	assert.Equal(t, ProviderLocal, cfg.Output.Provider)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.True(t, cfg.Logging.Development)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoadWithFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
crawler:
  user_agent: test-agent
  delay: 250ms
  respect_robots: true
  source_urls:
    - https://courts.example.jp/tokyo/index.html
    - https://courts.example.jp/list/kanto.html
http:
  timeout: 30s
names:
  exclusions: ["裁判所内", "旧"]
sources:
  - match: /list/
    strategy: table_cell
    suffixes: ["裁判所", "支部", "出張所"]
    row_selector: "table.courts tr:has(td)"
  - match: /tokyo/
    strategy: anchor_text
output:
  provider: gcs
  gcs_bucket: court-outputs
  prefix: runs
logging:
  development: false
metrics:
  addr: ":9090"
`
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test-agent", cfg.Crawler.UserAgent)
	assert.Equal(t, 250*time.Millisecond, cfg.Crawler.Delay)
	assert.True(t, cfg.Crawler.RespectRobots)
	assert.Len(t, cfg.Crawler.SourceURLs, 2)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, ProviderGCS, cfg.Output.Provider)
	assert.Equal(t, "court-outputs", cfg.Output.GCSBucket)
	assert.False(t, cfg.Logging.Development)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)

	reg, err := cfg.Registry()
	require.NoError(t, err)
	table := reg.Lookup("https://courts.example.jp/list/kanto.html")
	assert.Equal(t, extract.TableCell, table.Strategy)
	assert.Equal(t, "table.courts tr:has(td)", table.RowSelector)
	assert.Contains(t, table.Suffixes, "出張所")
	anchors := reg.Lookup("https://courts.example.jp/tokyo/index.html")
	assert.Equal(t, extract.AnchorText, anchors.Strategy)
	assert.Equal(t, []string{"裁判所", "支部"}, anchors.Suffixes)
	fallback := reg.Lookup("https://courts.example.jp/osaka/")
	assert.Equal(t, extract.AnchorTitleOrText, fallback.Strategy)

	engineCfg := cfg.EngineConfig()
	assert.Equal(t, 250*time.Millisecond, engineCfg.Delay)
	assert.Equal(t, []string{"裁判所内", "旧"}, engineCfg.Exclusions)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("COURTS_CRAWLER_DELAY", "2s")
	t.Setenv("COURTS_OUTPUT_DIR", "/tmp/courts")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Crawler.Delay)
	assert.Equal(t, "/tmp/courts", cfg.Output.Dir)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Crawler: CrawlerConfig{UserAgent: "agent", Delay: time.Second},
		HTTP:    HTTPConfig{Timeout: time.Second},
		Output:  OutputConfig{Provider: ProviderLocal, Dir: "out"},
	}
	require.NoError(t, base.Validate())

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "missing user agent",
			cfg: func() Config {
				c := base
				c.Crawler.UserAgent = ""
				return c
			}(),
			want: "crawler.user_agent",
		},
		{
			name: "negative delay",
			cfg: func() Config {
				c := base
				c.Crawler.Delay = -time.Second
				return c
			}(),
			want: "crawler.delay",
		},
		{
			name: "invalid timeout",
			cfg: func() Config {
				c := base
				c.HTTP.Timeout = 0
				return c
			}(),
			want: "http.timeout",
		},
		{
			name: "invalid source url",
			cfg: func() Config {
				c := base
				c.Crawler.SourceURLs = []string{"not a url"}
				return c
			}(),
			want: "crawler.source_urls[0]",
		},
		{
			name: "unknown strategy",
			cfg: func() Config {
				c := base
				c.Sources = []SourceConfig{{Match: "/x/", Strategy: "regex"}}
				return c
			}(),
			want: "sources[0].strategy",
		},
		{
			name: "source without match",
			cfg: func() Config {
				c := base
				c.Sources = []SourceConfig{{Strategy: "anchor_text"}}
				return c
			}(),
			want: "sources[0].match",
		},
		{
			name: "unknown provider",
			cfg: func() Config {
				c := base
				c.Output.Provider = "s3"
				return c
			}(),
			want: "output.provider",
		},
		{
			name: "gcs missing bucket",
			cfg: func() Config {
				c := base
				c.Output.Provider = ProviderGCS
				return c
			}(),
			want: "output.gcs_bucket",
		},
		{
			name: "local missing dir",
			cfg: func() Config {
				c := base
				c.Output.Dir = " "
				return c
			}(),
			want: "output.dir",
		},
		{
			name: "discovery without patterns",
			cfg: func() Config {
				c := base
				c.Discovery.IndexURL = "https://courts.example.jp/"
				return c
			}(),
			want: "discovery.patterns",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("COURTS_DOTENV_PROBE=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("COURTS_DOTENV_PROBE") })

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("COURTS_DOTENV_PROBE"))
	require.NoError(t, loadDotEnv(filepath.Join(dir, "absent.env")))
}
