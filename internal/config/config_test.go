package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pet-reels/internal/domain/pipeline"
)

const sampleTOML = `
[server]
port = "9090"

[sync]
quick_scan_cap = 25
hub_delay = "500ms"

[schedule]
quick_scan = "5m"
dedup = "0s"

[video]
blocked_hosts = ["Vimeo.com", " "]

[[hubs]]
name = "austin"
location = "Austin, TX"

[[hubs]]
name = "denver"
lat = 39.74
lon = -104.99
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reels.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, sampleTOML)
	t.Setenv("PORT", "7070")
	t.Setenv("PETFINDER_CLIENT_ID", "id")
	t.Setenv("PETFINDER_CLIENT_SECRET", "secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "7070" {
		t.Fatalf("env should win over file, got port %q", cfg.Server.Port)
	}
	if cfg.Sync.QuickScanCap != 25 || cfg.Sync.HubDelay.Std() != 500*time.Millisecond {
		t.Fatalf("unexpected sync %+v", cfg.Sync)
	}
	if cfg.Sync.PageSize != 100 {
		t.Fatalf("defaults should survive partial file, got page_size %d", cfg.Sync.PageSize)
	}
	if len(cfg.Video.BlockedHosts) != 1 || cfg.Video.BlockedHosts[0] != "vimeo.com" {
		t.Fatalf("unexpected blocked hosts %v", cfg.Video.BlockedHosts)
	}

	p := cfg.Pipeline()
	if len(p.Hubs) != 2 || p.Hubs[1].Lat == nil || *p.Hubs[1].Lat != 39.74 {
		t.Fatalf("unexpected hubs %+v", p.Hubs)
	}

	iv := cfg.Intervals()
	if iv[pipeline.JobQuickScan] != 5*time.Minute {
		t.Fatalf("unexpected quick-scan interval %v", iv[pipeline.JobQuickScan])
	}
	if _, ok := iv[pipeline.JobDedup]; ok {
		t.Fatalf("dedup with 0s should not be scheduled")
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != ":8080" || cfg.Petfinder.DailyLimit != 1000 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	lat := 10.0
	cases := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = "x" }, "server.port"},
		{"half credentials", func(c *Config) { c.Petfinder.ClientID = "id" }, "client_secret"},
		{"hub without place", func(c *Config) { c.Hubs = []Hub{{Name: "a"}} }, "location or lat/lon"},
		{"hub half coords", func(c *Config) { c.Hubs = []Hub{{Name: "a", Lat: &lat}} }, "lat and lon"},
		{"duplicated hub", func(c *Config) {
			c.Hubs = []Hub{{Name: "a", Location: "x"}, {Name: "a", Location: "y"}}
		}, "duplicated"},
		{"regional radius", func(c *Config) { c.Feed.RegionalRadiusKm = 10 }, "regional_radius_km"},
		{"session ttl", func(c *Config) { c.Feed.SessionTTL = 0 }, "session_ttl"},
	}
	for _, tc := range cases {
		c := Default()
		tc.mutate(&c)
		err := c.Validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.want, err)
		}
	}

	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
