package feed

import (
	"math"

	"pet-reels/internal/domain/animals"
	"pet-reels/internal/ports/upstream"
)

const (
	earthRadiusKm = 6371.0
	kmPerDegree   = 111.32
)

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// DistanceKm es la distancia de gran círculo. El argumento del acos se
// acota a [-1,1]: con puntos casi iguales el redondeo lo saca de rango.
func DistanceKm(a, b upstream.Point) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLon := radians(b.Lon - a.Lon)

	c := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(dLon)
	c = math.Max(-1, math.Min(1, c))
	return earthRadiusKm * math.Acos(c)
}

// BoxAround es el rectángulo que contiene el círculo de radio km.
// No cruza el antimeridiano: se recorta a [-180,180].
func BoxAround(p upstream.Point, km float64) animals.Box {
	dLat := km / kmPerDegree
	box := animals.Box{
		MinLat: math.Max(-90, p.Lat-dLat),
		MaxLat: math.Min(90, p.Lat+dLat),
		MinLon: -180,
		MaxLon: 180,
	}

	cos := math.Cos(radians(p.Lat))
	if cos > 1e-6 {
		dLon := km / (kmPerDegree * cos)
		if dLon < 180 {
			box.MinLon = math.Max(-180, p.Lon-dLon)
			box.MaxLon = math.Min(180, p.Lon+dLon)
		}
	}
	return box
}
