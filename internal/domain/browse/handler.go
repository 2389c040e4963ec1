package browse

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/browse", browseHandler(svc))
}

// browseHandler godoc
// @Summary Buscar animales cerca de un lugar
// @Description Proxy paginado al proveedor de anuncios, ordenado por distancia y cacheado 10 minutos. Si el proveedor no responde devuelve una página vacía.
// @Tags browse
// @Produce json
// @Param location query string true "Ciudad, código postal o lat,lon"
// @Param page query int false "Página (desde 1)"
// @Param limit query int false "Resultados por página (máx 100)"
// @Success 200 {object} Result
// @Failure 400 {string} string "location required / page o limit inválidos"
// @Router /browse [get]
func browseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		page, err := atoiDefault(q.Get("page"), 1)
		if err != nil {
			http.Error(w, "page must be an integer", http.StatusBadRequest)
			return
		}
		limit, err := atoiDefault(q.Get("limit"), DefaultLimit)
		if err != nil {
			http.Error(w, "limit must be an integer", http.StatusBadRequest)
			return
		}

		res, err := svc.Search(r.Context(), Query{Location: q.Get("location"), Page: page, Limit: limit})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, res)
	}
}

func atoiDefault(v string, def int) (int, error) {
	v = strings.TrimSpace(v)
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
