package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const clientIDKey ctxKey = "client_id"

// ClientHeader lleva el UUID que genera la app en su primer arranque.
const ClientHeader = "X-Client-ID"

// ClientContext copia X-Client-ID al contexto. No valida ni corta el
// request: los handlers deciden si la identidad es obligatoria.
func ClientContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(ClientHeader))
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), clientIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ClientID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(clientIDKey).(string)
	return v, ok && v != ""
}

// WithClientID es para tests y llamadas internas.
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey, id)
}
