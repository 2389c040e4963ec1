package animals

import "time"

// Animal es un anuncio adoptable con video reproducible.
// Solo los jobs del pipeline lo escriben; el feed lo lee (salvo LikeCount).
type Animal struct {
	ID             int64 // asignado por upstream
	OrganizationID *string

	Name    string
	Type    string // "Dog", "Cat"... texto libre de upstream
	Species string
	Age     string
	Gender  string
	Size    string
	Status  string

	Breeds  Document
	Colors  Document
	Contact Document
	Photos  Documents
	Videos  Documents

	VideoURL string // extraído del primer video; nunca vacío en la tabla

	Lat *float64
	Lon *float64

	LikeCount int

	LastSeenAt time.Time
	CreatedAt  time.Time
}

// HasLocation indica si el registro tiene coordenadas.
func (a Animal) HasLocation() bool {
	return a.Lat != nil && a.Lon != nil
}

type Organization struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	City    string
	State   string
	Website string

	CreatedAt time.Time
}

// Candidate es la proyección mínima que usa el armado del feed.
type Candidate struct {
	ID  int64
	Lat float64
	Lon float64
}

// DedupRow es la proyección que usa la limpieza de duplicados.
type DedupRow struct {
	ID     int64
	Name   string
	Type   string
	Breeds Document
}
