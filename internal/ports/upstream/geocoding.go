package upstream

import "context"

// Point es una coordenada WGS84 en grados.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Geocoder resuelve un lugar a coordenadas. Sin paginación; el primer
// resultado es el mejor.
type Geocoder interface {
	Geocode(ctx context.Context, place string) ([]Point, error)
}
