package pipeline

import (
	"strconv"
	"time"
)

// Hub es una ubicación fija desde donde se consulta upstream.
type Hub struct {
	Name     string
	Location string // texto libre; se geocodifica si no vienen coordenadas

	Lat *float64
	Lon *float64
}

type Config struct {
	Hubs []Hub

	HubRadiusMiles int
	PageSize       int
	HubDelay       time.Duration

	DiscoveryPages int

	QuickScanLookback time.Duration // primer run sin timestamp guardado
	QuickScanCap      int           // máximo de altas/updates por hub

	RefreshPages       int
	RefreshBatch       int // máximo de registros at-risk por pasada
	RefreshConcurrency int
	AtRiskMin          time.Duration
	AtRiskMax          time.Duration

	StaleAfter time.Duration

	// "" acepta cualquier status.
	AdoptableStatus string
}

func (c Config) withDefaults() Config {
	if c.HubRadiusMiles <= 0 {
		c.HubRadiusMiles = 100
	}
	if c.PageSize <= 0 {
		c.PageSize = 100
	}
	if c.DiscoveryPages <= 0 {
		c.DiscoveryPages = 5
	}
	if c.QuickScanLookback <= 0 {
		c.QuickScanLookback = time.Hour
	}
	if c.QuickScanCap <= 0 {
		c.QuickScanCap = 50
	}
	if c.RefreshPages <= 0 {
		c.RefreshPages = 3
	}
	if c.RefreshBatch <= 0 {
		c.RefreshBatch = 500
	}
	if c.RefreshConcurrency <= 0 {
		c.RefreshConcurrency = 4
	}
	if c.AtRiskMin <= 0 {
		c.AtRiskMin = 23 * time.Hour
	}
	if c.AtRiskMax <= c.AtRiskMin {
		c.AtRiskMax = c.AtRiskMin + 2*time.Hour
	}
	if c.StaleAfter <= 0 {
		c.StaleAfter = 25 * time.Hour
	}
	return c
}

func (h Hub) hasCoords() bool {
	return h.Lat != nil && h.Lon != nil
}

func formatPoint(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', 6, 64) + "," + strconv.FormatFloat(lon, 'f', 6, 64)
}
