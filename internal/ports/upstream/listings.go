package upstream

import (
	"context"
	"time"
)

// Sort values aceptados por SearchAnimals.
const (
	SortDistance = "distance"
	SortRecent   = "recent"
)

// Credential es el bearer token devuelto por el intercambio client-credentials.
type Credential struct {
	AccessToken string
	ExpiresIn   time.Duration
}

type SearchQuery struct {
	Location      string // "lat,lon" o texto libre
	DistanceMiles int
	Sort          string
	After         time.Time // cero = sin filtro
	Page          int       // 1-based
	Limit         int
}

// Listing es un animal tal como lo devuelve upstream. Los documentos
// anidados (breeds, photos, videos, contact...) quedan abiertos.
type Listing struct {
	ID             int64
	OrganizationID string
	Name           string
	Type           string
	Species        string
	Age            string
	Gender         string
	Size           string
	Status         string
	Breeds         map[string]any
	Colors         map[string]any
	Photos         []map[string]any
	Videos         []map[string]any
	Contact        map[string]any
	PublishedAt    time.Time
}

type SearchPage struct {
	Listings   []Listing
	Page       int
	TotalPages int
}

type OrganizationListing struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	City    string
	State   string
	Website string
}

// Listings es el cliente del proveedor de anuncios. Solo el governor
// debe invocarlo (ver domain/governor).
type Listings interface {
	ExchangeToken(ctx context.Context) (Credential, error)
	SearchAnimals(ctx context.Context, token string, q SearchQuery) (SearchPage, error)
	GetAnimal(ctx context.Context, token string, id int64) (Listing, error)
	GetOrganization(ctx context.Context, token string, id string) (OrganizationListing, error)
}
