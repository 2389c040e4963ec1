package feed

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"pet-reels/internal/domain/animals"
	"pet-reels/internal/domain/sessions"
	"pet-reels/internal/domain/users"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, usersSvc *users.Service) {
	r.Route("/feed/sessions", func(fr chi.Router) {
		fr.Post("/", startSessionHandler(svc, usersSvc))
		fr.Get("/{sessionID}", getPageHandler(svc))
	})
}

type startSessionRequest struct {
	Location string   `json:"location"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
	PageSize int      `json:"page_size"`
}

type pageResponse struct {
	SessionID  string              `json:"session_id,omitempty"`
	Items      []animals.Response  `json:"items"`
	Pagination sessions.Pagination `json:"pagination"`
}

func toPageResponse(p sessions.Page) pageResponse {
	return pageResponse{
		SessionID:  p.SessionID,
		Items:      animals.NewResponses(p.Items),
		Pagination: p.Pagination,
	}
}

// startSessionHandler godoc
// @Summary Crear sesión de feed
// @Description Arma el feed por cercanía (local, regional, nacional), excluye lo ya visto y devuelve la primera página. Sin candidatos o sin geocode devuelve un feed vacío sin session_id.
// @Tags feed
// @Accept json
// @Produce json
// @Param X-Client-ID header string true "UUID generado por la app"
// @Param payload body startSessionRequest true "location o lat+lon; page_size opcional (máx 100)"
// @Success 201 {object} pageResponse
// @Success 200 {object} pageResponse "feed vacío"
// @Failure 400 {string} string "invalid json / origin requires a location or lat/lon"
// @Failure 401 {string} string "missing or invalid X-Client-ID"
// @Router /feed/sessions [post]
func startSessionHandler(svc *Service, usersSvc *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := usersSvc.Current(r.Context())
		if err != nil {
			users.WriteIdentityError(w, err)
			return
		}

		var req startSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.PageSize < 0 {
			http.Error(w, "page_size must be positive", http.StatusBadRequest)
			return
		}

		page, err := svc.Start(r.Context(), u.ID, Origin{
			Place: strings.TrimSpace(req.Location),
			Lat:   req.Lat,
			Lon:   req.Lon,
		}, req.PageSize)
		if err != nil {
			writeFeedError(w, err)
			return
		}

		status := http.StatusCreated
		if page.SessionID == "" {
			status = http.StatusOK
		}
		writeJSON(w, status, toPageResponse(page))
	}
}

// getPageHandler godoc
// @Summary Página de una sesión de feed
// @Description Corta la lista materializada al crear la sesión; el orden es estable mientras viva. Los animales servidos quedan marcados como vistos.
// @Tags feed
// @Produce json
// @Param sessionID path string true "ID de la sesión"
// @Param page query int false "Página (desde 1)"
// @Param page_size query int false "Tamaño de página (máx 100)"
// @Success 200 {object} pageResponse
// @Failure 400 {string} string "page / page_size inválidos"
// @Failure 410 {string} string "session expired"
// @Router /feed/sessions/{sessionID} [get]
func getPageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := queryInt(r, "page", 1)
		if err != nil {
			http.Error(w, "page must be an integer", http.StatusBadRequest)
			return
		}
		size, err := queryInt(r, "page_size", sessions.DefaultPageSize)
		if err != nil {
			http.Error(w, "page_size must be an integer", http.StatusBadRequest)
			return
		}

		p, err := svc.Page(r.Context(), chi.URLParam(r, "sessionID"), page, size)
		if err != nil {
			writeFeedError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPageResponse(p))
	}
}

func writeFeedError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidOrigin), errors.Is(err, sessions.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, sessions.ErrSessionExpired):
		http.Error(w, "session expired", http.StatusGone)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
