package config

import (
	"errors"
	"fmt"
	"strconv"
)

// Validate devuelve el primer problema encontrado.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateUpstream(); err != nil {
		return err
	}
	if err := c.validateHubs(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	return c.validateFeed()
}

func (c *Config) validateServer() error {
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("server.port %q is invalid", c.Server.Port)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format %q must be text or json", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateUpstream() error {
	if c.Petfinder.DailyLimit <= 0 {
		return errors.New("petfinder.daily_limit must be positive")
	}
	if c.Petfinder.RatePerSecond < 0 {
		return errors.New("petfinder.rate_per_second must not be negative")
	}
	if c.Geocoding.DailyLimit <= 0 {
		return errors.New("geocoding.daily_limit must be positive")
	}
	if (c.Petfinder.ClientID == "") != (c.Petfinder.ClientSecret == "") {
		return errors.New("petfinder.client_id and petfinder.client_secret must be set together")
	}
	return nil
}

func (c *Config) validateHubs() error {
	seen := map[string]bool{}
	for i, h := range c.Hubs {
		if h.Name == "" {
			return fmt.Errorf("hubs[%d].name is required", i)
		}
		if seen[h.Name] {
			return fmt.Errorf("hubs[%d].name %q is duplicated", i, h.Name)
		}
		seen[h.Name] = true

		if (h.Lat == nil) != (h.Lon == nil) {
			return fmt.Errorf("hub %q: lat and lon must be set together", h.Name)
		}
		if h.Lat == nil && h.Location == "" {
			return fmt.Errorf("hub %q: location or lat/lon is required", h.Name)
		}
		if h.Lat != nil && (*h.Lat < -90 || *h.Lat > 90 || *h.Lon < -180 || *h.Lon > 180) {
			return fmt.Errorf("hub %q: coordinates out of range", h.Name)
		}
	}
	return nil
}

func (c *Config) validateSync() error {
	s := c.Sync
	if s.HubRadiusMiles <= 0 || s.PageSize <= 0 {
		return errors.New("sync.hub_radius_miles and sync.page_size must be positive")
	}
	if s.RefreshConcurrency <= 0 {
		return errors.New("sync.refresh_concurrency must be positive")
	}
	if s.StaleAfter.Std() <= 0 {
		return errors.New("sync.stale_after must be positive")
	}
	for name, d := range map[string]Duration{
		"discovery":  c.Schedule.Discovery,
		"quick_scan": c.Schedule.QuickScan,
		"refresh":    c.Schedule.Refresh,
		"janitor":    c.Schedule.Janitor,
		"dedup":      c.Schedule.Dedup,
	} {
		if d < 0 {
			return fmt.Errorf("schedule.%s must not be negative", name)
		}
	}
	return nil
}

func (c *Config) validateFeed() error {
	f := c.Feed
	if f.HyperLocalRadiusKm <= 0 {
		return errors.New("feed.hyper_local_radius_km must be positive")
	}
	if f.RegionalRadiusKm <= f.HyperLocalRadiusKm {
		return errors.New("feed.regional_radius_km must be greater than feed.hyper_local_radius_km")
	}
	if f.HyperLocalCount < 0 || f.RegionalCount < 0 || f.NationwideCount < 0 {
		return errors.New("feed tier counts must not be negative")
	}
	if f.SessionTTL.Std() <= 0 {
		return errors.New("feed.session_ttl must be positive")
	}
	return nil
}
