package petfinder

import (
	"strings"
	"time"

	"pet-reels/internal/ports/upstream"
)

type tokenResponse struct {
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	AccessToken string `json:"access_token"`
}

type searchResponse struct {
	Animals    []animalDTO `json:"animals"`
	Pagination struct {
		CountPerPage int `json:"count_per_page"`
		TotalCount   int `json:"total_count"`
		CurrentPage  int `json:"current_page"`
		TotalPages   int `json:"total_pages"`
	} `json:"pagination"`
}

type animalDTO struct {
	ID             int64            `json:"id"`
	OrganizationID string           `json:"organization_id"`
	Type           string           `json:"type"`
	Species        string           `json:"species"`
	Name           string           `json:"name"`
	Age            string           `json:"age"`
	Gender         string           `json:"gender"`
	Size           string           `json:"size"`
	Status         string           `json:"status"`
	Breeds         map[string]any   `json:"breeds"`
	Colors         map[string]any   `json:"colors"`
	Photos         []map[string]any `json:"photos"`
	Videos         []map[string]any `json:"videos"`
	Contact        map[string]any   `json:"contact"`
	PublishedAt    string           `json:"published_at"`
}

type organizationDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
	Address struct {
		City  string `json:"city"`
		State string `json:"state"`
	} `json:"address"`
}

func (a animalDTO) toListing() upstream.Listing {
	return upstream.Listing{
		ID:             a.ID,
		OrganizationID: a.OrganizationID,
		Name:           a.Name,
		Type:           a.Type,
		Species:        a.Species,
		Age:            a.Age,
		Gender:         a.Gender,
		Size:           a.Size,
		Status:         a.Status,
		Breeds:         a.Breeds,
		Colors:         a.Colors,
		Photos:         a.Photos,
		Videos:         a.Videos,
		Contact:        a.Contact,
		PublishedAt:    parseTime(a.PublishedAt),
	}
}

// upstream manda offsets sin dos puntos ("+0000").
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-0700"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
