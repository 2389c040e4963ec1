package animals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/animals/{animalID}/like", likeHandler(svc, 1))
	r.Delete("/animals/{animalID}/like", likeHandler(svc, -1))
}

// Response es la vista de un animal en el feed.
type Response struct {
	ID             int64     `json:"id"`
	OrganizationID *string   `json:"organization_id,omitempty"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	Species        string    `json:"species,omitempty"`
	Age            string    `json:"age,omitempty"`
	Gender         string    `json:"gender,omitempty"`
	Size           string    `json:"size,omitempty"`
	Status         string    `json:"status,omitempty"`
	Breed          string    `json:"breed,omitempty"`
	Breeds         Document  `json:"breeds,omitempty"`
	Colors         Document  `json:"colors,omitempty"`
	Contact        Document  `json:"contact,omitempty"`
	Photos         Documents `json:"photos"`
	VideoURL       string    `json:"video_url"`
	Lat            *float64  `json:"lat,omitempty"`
	Lon            *float64  `json:"lon,omitempty"`
	LikeCount      int       `json:"like_count"`
	LastSeenAt     time.Time `json:"last_seen_at"`
}

func NewResponse(a Animal) Response {
	photos := a.Photos
	if photos == nil {
		photos = Documents{}
	}
	return Response{
		ID:             a.ID,
		OrganizationID: a.OrganizationID,
		Name:           a.Name,
		Type:           a.Type,
		Species:        a.Species,
		Age:            a.Age,
		Gender:         a.Gender,
		Size:           a.Size,
		Status:         a.Status,
		Breed:          a.Breeds.String("primary"),
		Breeds:         a.Breeds,
		Colors:         a.Colors,
		Contact:        a.Contact,
		Photos:         photos,
		VideoURL:       a.VideoURL,
		Lat:            a.Lat,
		Lon:            a.Lon,
		LikeCount:      a.LikeCount,
		LastSeenAt:     a.LastSeenAt,
	}
}

func NewResponses(items []Animal) []Response {
	out := make([]Response, 0, len(items))
	for _, a := range items {
		out = append(out, NewResponse(a))
	}
	return out
}

type likeResponse struct {
	ID        int64 `json:"id"`
	LikeCount int   `json:"like_count"`
}

// likeHandler godoc
// @Summary Sumar o quitar un like
// @Description POST suma un like, DELETE lo quita. El contador nunca baja de 0.
// @Tags animals
// @Produce json
// @Param animalID path int true "ID del animal (id de upstream)"
// @Success 200 {object} likeResponse
// @Failure 400 {string} string "animalID inválido"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID}/like [post]
// @Router /animals/{animalID}/like [delete]
func likeHandler(svc *Service, delta int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "animalID"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid animalID", http.StatusBadRequest)
			return
		}

		var n int
		if delta > 0 {
			n, err = svc.Like(r.Context(), id)
		} else {
			n, err = svc.Unlike(r.Context(), id)
		}
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "animal not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, likeResponse{ID: id, LikeCount: n})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
