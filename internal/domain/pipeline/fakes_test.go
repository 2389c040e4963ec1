package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"pet-reels/internal/adapters/cache/memory"
	storage "pet-reels/internal/adapters/storage/memory"
	"pet-reels/internal/domain/animals"
	"pet-reels/internal/domain/geocode"
	"pet-reels/internal/domain/governor"
	"pet-reels/internal/domain/tokens"
	"pet-reels/internal/platform/logger"
	"pet-reels/internal/ports/upstream"
)

type fakeListings struct {
	mu sync.Mutex

	search     []upstream.Listing
	details    map[int64]upstream.Listing
	detailErrs map[int64]error
	orgs       map[string]upstream.OrganizationListing
	searchErr  error

	// unauthorized > 0 devuelve 401 en las próximas N búsquedas
	unauthorized int

	exchanges atomic.Int64
	searches  atomic.Int64
	queries   []upstream.SearchQuery
}

func (f *fakeListings) ExchangeToken(ctx context.Context) (upstream.Credential, error) {
	n := f.exchanges.Add(1)
	return upstream.Credential{AccessToken: fmt.Sprintf("tok-%d", n), ExpiresIn: time.Hour}, nil
}

func (f *fakeListings) SearchAnimals(ctx context.Context, token string, q upstream.SearchQuery) (upstream.SearchPage, error) {
	f.searches.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, q)
	if f.unauthorized > 0 {
		f.unauthorized--
		return upstream.SearchPage{}, upstream.ErrUnauthorized
	}
	if f.searchErr != nil {
		return upstream.SearchPage{}, f.searchErr
	}

	matched := make([]upstream.Listing, 0, len(f.search))
	for _, l := range f.search {
		if !q.After.IsZero() && !l.PublishedAt.After(q.After) {
			continue
		}
		matched = append(matched, l)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	total := (len(matched) + limit - 1) / limit
	from := (q.Page - 1) * limit
	if from > len(matched) {
		from = len(matched)
	}
	to := from + limit
	if to > len(matched) {
		to = len(matched)
	}
	return upstream.SearchPage{Listings: matched[from:to], Page: q.Page, TotalPages: total}, nil
}

func (f *fakeListings) GetAnimal(ctx context.Context, token string, id int64) (upstream.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.detailErrs[id]; ok {
		return upstream.Listing{}, err
	}
	if l, ok := f.details[id]; ok {
		return l, nil
	}
	return upstream.Listing{}, upstream.ErrNotFound
}

func (f *fakeListings) GetOrganization(ctx context.Context, token string, id string) (upstream.OrganizationListing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if o, ok := f.orgs[id]; ok {
		return o, nil
	}
	return upstream.OrganizationListing{}, upstream.ErrNotFound
}

type fakeGeocoder struct {
	points map[string]upstream.Point
}

func (f *fakeGeocoder) Geocode(ctx context.Context, place string) ([]upstream.Point, error) {
	if p, ok := f.points[place]; ok {
		return []upstream.Point{p}, nil
	}
	return nil, nil
}

type harness struct {
	p     *Pipeline
	up    *fakeListings
	store *storage.Store
	now   time.Time
}

func coord(v float64) *float64 { return &v }

func newHarness(up *fakeListings, limit int64, hubs ...Hub) *harness {
	c := memory.New()
	log := logger.Nop()
	gov := governor.New(c, governor.Config{DailyLimit: limit}, log)
	geoGov := governor.New(c, governor.Config{DailyLimit: 1000, Scope: "geocode"}, log)
	tm := tokens.NewManager(c, gov, up, tokens.Config{RetryDelay: time.Millisecond}, log)
	res := geocode.NewResolver(c, geoGov, &fakeGeocoder{points: map[string]upstream.Point{
		"Austin, TX": {Lat: 30.27, Lon: -97.74},
	}}, 0, log)

	st := storage.NewStore()
	if len(hubs) == 0 {
		hubs = []Hub{{Name: "austin", Lat: coord(30.27), Lon: coord(-97.74)}}
	}

	p := New(Deps{
		Governor:      gov,
		Tokens:        tm,
		Listings:      up,
		Resolver:      res,
		Animals:       st.Animals(),
		Organizations: st.Organizations(),
		State:         st.SyncState(),
		Eligibility:   animals.NewEligibility(animals.DefaultBlockedHosts),
		Logger:        log,
	}, Config{Hubs: hubs, PageSize: 2, AdoptableStatus: "adoptable"})

	h := &harness{p: p, up: up, store: st, now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	p.now = func() time.Time { return h.now }
	return h
}

func (h *harness) ids() []int64 {
	rows, _ := h.store.Animals().ListDedupRows(context.Background())
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func video(src string) []map[string]any {
	return []map[string]any{{"embed": `<iframe src="` + src + `"></iframe>`}}
}

func listing(id int64, name string, published time.Time) upstream.Listing {
	return upstream.Listing{
		ID:          id,
		Name:        name,
		Type:        "Dog",
		Status:      "adoptable",
		Breeds:      map[string]any{"primary": "Lab"},
		Videos:      video("https://www.youtube.com/embed/" + name),
		PublishedAt: published,
	}
}
