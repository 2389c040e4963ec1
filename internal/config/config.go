package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration acepta "15m", "2h" en el archivo TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type Server struct {
	Port string `toml:"port"`
}

type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	App    string `toml:"app"`
}

type Database struct {
	DSN string `toml:"dsn"`
}

type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

type Petfinder struct {
	BaseURL       string   `toml:"base_url"`
	ClientID      string   `toml:"client_id"`
	ClientSecret  string   `toml:"client_secret"`
	Timeout       Duration `toml:"timeout"`
	DailyLimit    int64    `toml:"daily_limit"`
	RatePerSecond float64  `toml:"rate_per_second"`
	Burst         int      `toml:"burst"`
	RetryAttempts int      `toml:"retry_attempts"`
}

type Geocoding struct {
	BaseURL    string   `toml:"base_url"`
	APIKey     string   `toml:"api_key"`
	Timeout    Duration `toml:"timeout"`
	DailyLimit int64    `toml:"daily_limit"`
	CacheTTL   Duration `toml:"cache_ttl"`
}

type Hub struct {
	Name     string   `toml:"name"`
	Location string   `toml:"location"`
	Lat      *float64 `toml:"lat,omitempty"`
	Lon      *float64 `toml:"lon,omitempty"`
}

type Sync struct {
	HubRadiusMiles     int      `toml:"hub_radius_miles"`
	PageSize           int      `toml:"page_size"`
	HubDelay           Duration `toml:"hub_delay"`
	DiscoveryPages     int      `toml:"discovery_pages"`
	QuickScanLookback  Duration `toml:"quick_scan_lookback"`
	QuickScanCap       int      `toml:"quick_scan_cap"`
	RefreshPages       int      `toml:"refresh_pages"`
	RefreshBatch       int      `toml:"refresh_batch"`
	RefreshConcurrency int      `toml:"refresh_concurrency"`
	StaleAfter         Duration `toml:"stale_after"`
	AdoptableStatus    string   `toml:"adoptable_status"`
}

// Schedule: cada cuánto corre cada job. 0 deshabilita el job.
type Schedule struct {
	Discovery Duration `toml:"discovery"`
	QuickScan Duration `toml:"quick_scan"`
	Refresh   Duration `toml:"refresh"`
	Janitor   Duration `toml:"janitor"`
	Dedup     Duration `toml:"dedup"`
}

type Feed struct {
	HyperLocalRadiusKm float64  `toml:"hyper_local_radius_km"`
	HyperLocalCount    int      `toml:"hyper_local_count"`
	RegionalRadiusKm   float64  `toml:"regional_radius_km"`
	RegionalCount      int      `toml:"regional_count"`
	NationwideCount    int      `toml:"nationwide_count"`
	SessionTTL         Duration `toml:"session_ttl"`
}

type Browse struct {
	CacheTTL Duration `toml:"cache_ttl"`
}

type Video struct {
	BlockedHosts []string `toml:"blocked_hosts"`
}

type Worker struct {
	LockFile string `toml:"lock_file"`
}

// Config agrupa todo lo configurable de la API y el worker.
type Config struct {
	Server    Server    `toml:"server"`
	Logging   Logging   `toml:"logging"`
	Database  Database  `toml:"database"`
	Redis     Redis     `toml:"redis"`
	Petfinder Petfinder `toml:"petfinder"`
	Geocoding Geocoding `toml:"geocoding"`
	Hubs      []Hub     `toml:"hubs"`
	Sync      Sync      `toml:"sync"`
	Schedule  Schedule  `toml:"schedule"`
	Feed      Feed      `toml:"feed"`
	Browse    Browse    `toml:"browse"`
	Video     Video     `toml:"video"`
	Worker    Worker    `toml:"worker"`
}

// Load arma la config: defaults, luego el archivo TOML (path o
// CONFIG_FILE; opcional), luego variables de entorno. Valida al final.
func Load(path string) (*Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if err := cfg.readFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) readFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %q not found", path)
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getenvDefault("PORT", c.Server.Port)

	c.Logging.Level = getenvDefault("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getenvDefault("LOG_FORMAT", c.Logging.Format)
	c.Logging.App = getenvDefault("APP_NAME", c.Logging.App)

	c.Database.DSN = getenvDefault("DB_DSN", c.Database.DSN)

	c.Redis.Addr = getenvDefault("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getenvDefault("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getenvIntDefault("REDIS_DB", c.Redis.DB)
	c.Redis.Prefix = getenvDefault("REDIS_PREFIX", c.Redis.Prefix)

	c.Petfinder.BaseURL = getenvDefault("PETFINDER_BASE_URL", c.Petfinder.BaseURL)
	c.Petfinder.ClientID = getenvDefault("PETFINDER_CLIENT_ID", c.Petfinder.ClientID)
	c.Petfinder.ClientSecret = getenvDefault("PETFINDER_CLIENT_SECRET", c.Petfinder.ClientSecret)
	c.Petfinder.DailyLimit = int64(getenvIntDefault("PETFINDER_DAILY_LIMIT", int(c.Petfinder.DailyLimit)))
	c.Petfinder.RatePerSecond = getenvFloatDefault("PETFINDER_RATE_RPS", c.Petfinder.RatePerSecond)

	c.Geocoding.APIKey = getenvDefault("GOOGLE_MAPS_API_KEY", c.Geocoding.APIKey)
	c.Geocoding.DailyLimit = int64(getenvIntDefault("GEOCODE_DAILY_LIMIT", int(c.Geocoding.DailyLimit)))

	if hosts, ok := getenvList("VIDEO_BLOCKED_HOSTS"); ok {
		c.Video.BlockedHosts = hosts
	}
	c.Sync.AdoptableStatus = getenvDefault("ADOPTABLE_STATUS", c.Sync.AdoptableStatus)

	c.Worker.LockFile = getenvDefault("WORKER_LOCK_FILE", c.Worker.LockFile)
}

func (c *Config) normalize() {
	c.Server.Port = strings.TrimPrefix(strings.TrimSpace(c.Server.Port), ":")
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))

	hosts := make([]string, 0, len(c.Video.BlockedHosts))
	for _, h := range c.Video.BlockedHosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			hosts = append(hosts, h)
		}
	}
	c.Video.BlockedHosts = hosts

	for i := range c.Hubs {
		c.Hubs[i].Name = strings.TrimSpace(c.Hubs[i].Name)
		c.Hubs[i].Location = strings.TrimSpace(c.Hubs[i].Location)
	}
}

// Addr es la dirección de escucha del server HTTP.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}
