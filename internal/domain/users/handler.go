package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"pet-reels/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/animals/seen", markSeenHandler(svc))
}

// Current resuelve el usuario del X-Client-ID del request (lo crea la
// primera vez). Sin header devuelve ErrInvalidClientID.
func (s *Service) Current(ctx context.Context) (User, error) {
	id, ok := middleware.ClientID(ctx)
	if !ok {
		return User{}, ErrInvalidClientID
	}
	return s.Resolve(ctx, id)
}

type markSeenRequest struct {
	AnimalIDs []int64 `json:"animal_ids"`
}

// markSeenHandler godoc
// @Summary Marcar animales como vistos
// @Description Agrega marcas de visto para el usuario del X-Client-ID; esos ids no vuelven a aparecer en feeds nuevos.
// @Tags animals
// @Accept json
// @Param X-Client-ID header string true "UUID generado por la app"
// @Param payload body markSeenRequest true "IDs vistos (máximo 500)"
// @Success 204
// @Failure 400 {string} string "invalid json / demasiados ids"
// @Failure 401 {string} string "missing or invalid X-Client-ID"
// @Router /animals/seen [post]
func markSeenHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.Current(r.Context())
		if err != nil {
			WriteIdentityError(w, err)
			return
		}

		var req markSeenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if err := svc.MarkSeen(r.Context(), u.ID, req.AnimalIDs); err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// WriteIdentityError traduce el error de Current a la respuesta HTTP.
func WriteIdentityError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInvalidClientID) {
		http.Error(w, "missing or invalid X-Client-ID", http.StatusUnauthorized)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}
