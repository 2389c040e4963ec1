// Package app arma las dependencias compartidas por la API y el worker:
// store durable, cache compartido, governors, token manager y geocoder.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pet-reels/internal/adapters/cache/memory"
	"pet-reels/internal/adapters/cache/redis"
	"pet-reels/internal/adapters/geocoding/googlemaps"
	"pet-reels/internal/adapters/petfinder"
	mem "pet-reels/internal/adapters/storage/memory"
	pg "pet-reels/internal/adapters/storage/postgres"
	"pet-reels/internal/config"
	"pet-reels/internal/domain/animals"
	"pet-reels/internal/domain/browse"
	"pet-reels/internal/domain/feed"
	"pet-reels/internal/domain/geocode"
	"pet-reels/internal/domain/governor"
	"pet-reels/internal/domain/pipeline"
	"pet-reels/internal/domain/sessions"
	"pet-reels/internal/domain/tokens"
	"pet-reels/internal/domain/users"
	"pet-reels/internal/platform/logger"
	"pet-reels/internal/ports/cache"
	"pet-reels/internal/ports/upstream"
)

type Options struct {
	Config *config.Config

	// Opcionales: si no vienen se arman desde Config.
	DB       *sql.DB
	Cache    cache.Cache
	Listings upstream.Listings
	Geocoder upstream.Geocoder
	Logger   logger.Logger
}

type App struct {
	Config *config.Config
	Log    logger.Logger
	Cache  cache.Cache

	Animals       animals.Repository
	Organizations animals.OrganizationRepository
	Users         users.Repository
	Seen          users.SeenRepository
	State         pipeline.StateStore

	Listings    upstream.Listings
	Governor    *governor.Governor
	GeoGovernor *governor.Governor
	Tokens      *tokens.Manager
	Resolver    *geocode.Resolver

	closers []func() error
}

func New(ctx context.Context, opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		d := config.Default()
		cfg = &d
	}
	log := opts.Logger
	if log == nil {
		log = logger.New(cfg.LoggerOptions())
	}

	a := &App{Config: cfg, Log: log}

	if err := a.openStore(opts.DB); err != nil {
		return nil, err
	}
	if err := a.openCache(ctx, opts.Cache); err != nil {
		_ = a.Close()
		return nil, err
	}

	listings := opts.Listings
	if listings == nil {
		c, err := petfinder.NewClient(petfinder.Config{
			BaseURL:      cfg.Petfinder.BaseURL,
			ClientID:     cfg.Petfinder.ClientID,
			ClientSecret: cfg.Petfinder.ClientSecret,
			Timeout:      cfg.Petfinder.Timeout.Std(),
		})
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("petfinder client: %w", err)
		}
		if !c.IsConfigured() {
			log.Warn("petfinder credentials missing; upstream calls will fail", nil)
		}
		listings = c
	}

	geo := opts.Geocoder
	if geo == nil {
		c, err := googlemaps.NewClient(googlemaps.Config{
			BaseURL: cfg.Geocoding.BaseURL,
			APIKey:  cfg.Geocoding.APIKey,
			Timeout: cfg.Geocoding.Timeout.Std(),
		})
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("geocoding client: %w", err)
		}
		if !c.IsConfigured() {
			log.Warn("geocoding api key missing; place lookups will fail", nil)
		}
		geo = c
	}

	a.Listings = listings
	a.Governor = governor.New(a.Cache, cfg.ListingsGovernor(), log)
	a.GeoGovernor = governor.New(a.Cache, cfg.GeocodeGovernor(), log)
	a.Tokens = tokens.NewManager(a.Cache, a.Governor, listings, tokens.Config{}, log)
	a.Resolver = geocode.NewResolver(a.Cache, a.GeoGovernor, geo, cfg.Geocoding.CacheTTL.Std(), log)

	return a, nil
}

func (a *App) openStore(db *sql.DB) error {
	if db == nil && a.Config.Database.DSN != "" {
		opened, err := pg.Open(a.Config.Database.DSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		db = opened
		a.closers = append(a.closers, opened.Close)
	}

	if db != nil {
		a.Animals = pg.NewAnimalsRepo(db)
		a.Organizations = pg.NewOrganizationsRepo(db)
		a.Users = pg.NewUsersRepo(db)
		a.Seen = pg.NewSeenRepo(db)
		a.State = pg.NewSyncStateRepo(db)
		return nil
	}

	a.Log.Warn("no DB_DSN; using in-memory store", nil)
	store := mem.NewStore()
	a.Animals = store.Animals()
	a.Organizations = store.Organizations()
	a.Users = store.Users()
	a.Seen = store.Seen()
	a.State = store.SyncState()
	return nil
}

func (a *App) openCache(ctx context.Context, c cache.Cache) error {
	if c != nil {
		a.Cache = c
		return nil
	}
	if a.Config.Redis.Addr == "" {
		a.Log.Warn("no REDIS_ADDR; token and budget state are process-local", nil)
		a.Cache = memory.New()
		return nil
	}

	rc, closeFn, err := redis.Open(ctx, redis.Config{
		Addr:     a.Config.Redis.Addr,
		Password: a.Config.Redis.Password,
		DB:       a.Config.Redis.DB,
		Prefix:   a.Config.Redis.Prefix,
	})
	if err != nil {
		return fmt.Errorf("open redis: %w", err)
	}
	a.Cache = rc
	a.closers = append(a.closers, closeFn)
	return nil
}

// Pipeline arma los jobs de sync con la config de la app.
func (a *App) Pipeline() *pipeline.Pipeline {
	return pipeline.New(pipeline.Deps{
		Governor:      a.Governor,
		Tokens:        a.Tokens,
		Listings:      a.Listings,
		Resolver:      a.Resolver,
		Animals:       a.Animals,
		Organizations: a.Organizations,
		State:         a.State,
		Eligibility:   a.Config.Eligibility(),
		Logger:        a.Log,
	}, a.Config.Pipeline())
}

// Services agrupa lo que consume la capa HTTP.
type Services struct {
	Animals *animals.Service
	Users   *users.Service
	Feed    *feed.Service
	Browse  *browse.Service
}

func (a *App) Services() Services {
	animalsSvc := animals.NewService(a.Animals)
	usersSvc := users.NewService(a.Users, a.Seen)
	sessionsSvc := sessions.NewService(a.Cache, animalsSvc, usersSvc, a.Config.Feed.SessionTTL.Std(), a.Log)

	return Services{
		Animals: animalsSvc,
		Users:   usersSvc,
		Feed: feed.NewService(
			feed.NewAssembler(a.Animals, a.Config.Tiers()),
			a.Resolver, usersSvc, sessionsSvc, a.Log,
		),
		Browse: browse.NewService(a.Cache, a.Governor, a.Tokens, a.Listings, a.Config.Eligibility(), a.Config.Browse.CacheTTL.Std(), a.Log),
	}
}

// Close libera conexiones abiertas por New (no las que vinieron en Options).
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
