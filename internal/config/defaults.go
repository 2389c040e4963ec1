package config

import "time"

// Default devuelve la config base. Los valores de sync replican los
// defaults de domain/pipeline para que la salida de `worker config`
// muestre lo que efectivamente corre.
func Default() Config {
	return Config{
		Server:  Server{Port: "8080"},
		Logging: Logging{Level: "info", Format: "text", App: "pet-reels"},
		Redis:   Redis{Prefix: "reels:"},
		Petfinder: Petfinder{
			Timeout:       Duration(10 * time.Second),
			DailyLimit:    1000,
			RatePerSecond: 1,
			Burst:         1,
			RetryAttempts: 3,
		},
		Geocoding: Geocoding{
			Timeout:    Duration(5 * time.Second),
			DailyLimit: 2500,
			CacheTTL:   Duration(30 * 24 * time.Hour),
		},
		Sync: Sync{
			HubRadiusMiles:     100,
			PageSize:           100,
			HubDelay:           Duration(2 * time.Second),
			DiscoveryPages:     5,
			QuickScanLookback:  Duration(time.Hour),
			QuickScanCap:       50,
			RefreshPages:       3,
			RefreshBatch:       500,
			RefreshConcurrency: 4,
			StaleAfter:         Duration(25 * time.Hour),
			AdoptableStatus:    "adoptable",
		},
		Schedule: Schedule{
			Discovery: Duration(12 * time.Hour),
			QuickScan: Duration(15 * time.Minute),
			Refresh:   Duration(3 * time.Hour),
			Janitor:   Duration(time.Hour),
			Dedup:     Duration(24 * time.Hour),
		},
		Feed: Feed{
			HyperLocalRadiusKm: 50,
			HyperLocalCount:    20,
			RegionalRadiusKm:   300,
			RegionalCount:      40,
			NationwideCount:    40,
			SessionTTL:         Duration(2 * time.Hour),
		},
		Browse: Browse{CacheTTL: Duration(10 * time.Minute)},
		Video:  Video{BlockedHosts: []string{"facebook.com"}},
		Worker: Worker{LockFile: "/tmp/pet-reels-worker.lock"},
	}
}
