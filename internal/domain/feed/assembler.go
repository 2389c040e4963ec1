// Package feed arma la lista de candidatos por tiers geográficos y
// arranca sesiones de feed.
package feed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"pet-reels/internal/domain/animals"
	"pet-reels/internal/ports/upstream"
)

// CandidateStore es la parte del store que lee el armado del feed.
type CandidateStore interface {
	CandidatesInBox(ctx context.Context, box animals.Box, exclude []int64) ([]animals.Candidate, error)
	RandomIDs(ctx context.Context, n int, exclude []int64) ([]int64, error)
}

type TierConfig struct {
	HyperLocalRadiusKm float64
	HyperLocalCount    int
	RegionalRadiusKm   float64
	RegionalCount      int
	NationwideCount    int
}

func (c TierConfig) withDefaults() TierConfig {
	if c.HyperLocalRadiusKm <= 0 {
		c.HyperLocalRadiusKm = 50
	}
	if c.HyperLocalCount <= 0 {
		c.HyperLocalCount = 20
	}
	if c.RegionalRadiusKm <= c.HyperLocalRadiusKm {
		c.RegionalRadiusKm = 6 * c.HyperLocalRadiusKm
	}
	if c.RegionalCount <= 0 {
		c.RegionalCount = 40
	}
	if c.NationwideCount <= 0 {
		c.NationwideCount = 40
	}
	return c
}

type Assembler struct {
	store CandidateStore
	cfg   TierConfig

	mu  sync.Mutex // rand.Rand no es seguro entre goroutines
	rnd *rand.Rand
}

func NewAssembler(store CandidateStore, cfg TierConfig) *Assembler {
	seed := uint64(time.Now().UnixNano())
	return &Assembler{
		store: store,
		cfg:   cfg.withDefaults(),
		rnd:   rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
}

type ranked struct {
	id   int64
	dist float64
}

// Assemble concatena hyper-local (por distancia), regional (al azar) y
// nacional (al azar). El primer tier es determinístico para un mismo
// snapshot; los otros dos cambian en cada llamada.
func (a *Assembler) Assemble(ctx context.Context, origin upstream.Point, exclude []int64) ([]int64, error) {
	skip := make(map[int64]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}

	local, err := a.nearby(ctx, origin, a.cfg.HyperLocalRadiusKm, keys(skip))
	if err != nil {
		return nil, fmt.Errorf("hyper-local tier: %w", err)
	}
	sort.Slice(local, func(i, j int) bool {
		if local[i].dist == local[j].dist {
			return local[i].id < local[j].id
		}
		return local[i].dist < local[j].dist
	})
	tier1 := take(local, a.cfg.HyperLocalCount)
	for _, id := range tier1 {
		skip[id] = true
	}

	regional, err := a.nearby(ctx, origin, a.cfg.RegionalRadiusKm, keys(skip))
	if err != nil {
		return nil, fmt.Errorf("regional tier: %w", err)
	}
	a.shuffle(len(regional), func(i, j int) { regional[i], regional[j] = regional[j], regional[i] })
	tier2 := take(regional, a.cfg.RegionalCount)
	for _, id := range tier2 {
		skip[id] = true
	}

	tier3, err := a.store.RandomIDs(ctx, a.cfg.NationwideCount, keys(skip))
	if err != nil {
		return nil, fmt.Errorf("nationwide tier: %w", err)
	}
	a.shuffle(len(tier3), func(i, j int) { tier3[i], tier3[j] = tier3[j], tier3[i] })

	out := make([]int64, 0, len(tier1)+len(tier2)+len(tier3))
	out = append(out, tier1...)
	out = append(out, tier2...)
	for _, id := range tier3 {
		// el store ya excluye, pero un sample no puede repetir tiers previos
		if !skip[id] {
			skip[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}

// nearby filtra los candidatos del rectángulo por distancia real.
func (a *Assembler) nearby(ctx context.Context, origin upstream.Point, km float64, exclude []int64) ([]ranked, error) {
	cands, err := a.store.CandidatesInBox(ctx, BoxAround(origin, km), exclude)
	if err != nil {
		return nil, err
	}
	out := make([]ranked, 0, len(cands))
	for _, c := range cands {
		d := DistanceKm(origin, upstream.Point{Lat: c.Lat, Lon: c.Lon})
		if d <= km {
			out = append(out, ranked{id: c.ID, dist: d})
		}
	}
	return out, nil
}

func (a *Assembler) shuffle(n int, swap func(i, j int)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rnd.Shuffle(n, swap)
}

func take(rs []ranked, n int) []int64 {
	if len(rs) > n {
		rs = rs[:n]
	}
	out := make([]int64, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.id)
	}
	return out
}

func keys(m map[int64]bool) []int64 {
	out := make([]int64, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}
