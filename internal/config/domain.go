package config

import (
	"time"

	"pet-reels/internal/domain/animals"
	"pet-reels/internal/domain/feed"
	"pet-reels/internal/domain/governor"
	"pet-reels/internal/domain/pipeline"
	"pet-reels/internal/platform/logger"
)

func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{
		Level:  logger.ParseLevel(c.Logging.Level),
		Format: logger.ParseFormat(c.Logging.Format),
		App:    c.Logging.App,
	}
}

// ListingsGovernor es el presupuesto compartido por todos los jobs y el browse.
func (c *Config) ListingsGovernor() governor.Config {
	return governor.Config{
		DailyLimit:    c.Petfinder.DailyLimit,
		RatePerSecond: c.Petfinder.RatePerSecond,
		Burst:         c.Petfinder.Burst,
		Retry: governor.RetryPolicy{
			MaxAttempts: c.Petfinder.RetryAttempts,
			BaseDelay:   500 * time.Millisecond,
			MaxDelay:    10 * time.Second,
		},
	}
}

func (c *Config) GeocodeGovernor() governor.Config {
	return governor.Config{
		DailyLimit: c.Geocoding.DailyLimit,
		Scope:      "geocode",
		Retry: governor.RetryPolicy{
			MaxAttempts: 2,
			BaseDelay:   250 * time.Millisecond,
			MaxDelay:    2 * time.Second,
		},
	}
}

func (c *Config) Pipeline() pipeline.Config {
	hubs := make([]pipeline.Hub, 0, len(c.Hubs))
	for _, h := range c.Hubs {
		hubs = append(hubs, pipeline.Hub{Name: h.Name, Location: h.Location, Lat: h.Lat, Lon: h.Lon})
	}
	s := c.Sync
	return pipeline.Config{
		Hubs:               hubs,
		HubRadiusMiles:     s.HubRadiusMiles,
		PageSize:           s.PageSize,
		HubDelay:           s.HubDelay.Std(),
		DiscoveryPages:     s.DiscoveryPages,
		QuickScanLookback:  s.QuickScanLookback.Std(),
		QuickScanCap:       s.QuickScanCap,
		RefreshPages:       s.RefreshPages,
		RefreshBatch:       s.RefreshBatch,
		RefreshConcurrency: s.RefreshConcurrency,
		StaleAfter:         s.StaleAfter.Std(),
		AdoptableStatus:    s.AdoptableStatus,
	}
}

func (c *Config) Tiers() feed.TierConfig {
	return feed.TierConfig{
		HyperLocalRadiusKm: c.Feed.HyperLocalRadiusKm,
		HyperLocalCount:    c.Feed.HyperLocalCount,
		RegionalRadiusKm:   c.Feed.RegionalRadiusKm,
		RegionalCount:      c.Feed.RegionalCount,
		NationwideCount:    c.Feed.NationwideCount,
	}
}

func (c *Config) Eligibility() animals.Eligibility {
	return animals.NewEligibility(c.Video.BlockedHosts)
}

// Intervals por job; los jobs con intervalo 0 no se agendan.
func (c *Config) Intervals() map[string]time.Duration {
	out := map[string]time.Duration{}
	for job, d := range map[string]Duration{
		pipeline.JobDiscovery: c.Schedule.Discovery,
		pipeline.JobQuickScan: c.Schedule.QuickScan,
		pipeline.JobRefresh:   c.Schedule.Refresh,
		pipeline.JobJanitor:   c.Schedule.Janitor,
		pipeline.JobDedup:     c.Schedule.Dedup,
	} {
		if d > 0 {
			out[job] = d.Std()
		}
	}
	return out
}
