package router

import (
	"net/http"

	_ "pet-reels/docs"
	"pet-reels/internal/app"
	"pet-reels/internal/domain/animals"
	"pet-reels/internal/domain/browse"
	"pet-reels/internal/domain/feed"
	"pet-reels/internal/domain/users"
	"pet-reels/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// App trae store, cache y clientes ya armados (ver app.New).
	App *app.App
}

func NewRouter(opts Options) http.Handler {
	a := opts.App
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(a.Log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.ClientContext)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	svc := a.Services()

	// Rutas por módulo
	feed.RegisterRoutes(r, svc.Feed, svc.Users)
	users.RegisterRoutes(r, svc.Users)
	animals.RegisterRoutes(r, svc.Animals)
	browse.RegisterRoutes(r, svc.Browse)

	return r
}
