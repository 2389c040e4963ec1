package sessions

import (
	"context"
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"
	"time"

	"pet-reels/internal/adapters/cache/memory"
	"pet-reels/internal/domain/animals"
	"pet-reels/internal/platform/logger"
)

type fakeLoader struct {
	missing map[int64]bool
}

func (f fakeLoader) ListOrdered(ctx context.Context, ids []int64) ([]animals.Animal, error) {
	out := make([]animals.Animal, 0, len(ids))
	for _, id := range ids {
		if !f.missing[id] {
			out = append(out, animals.Animal{ID: id})
		}
	}
	return out, nil
}

type fakeSeen struct {
	mu    sync.Mutex
	marks map[int64][]int64
}

func (f *fakeSeen) MarkSeen(ctx context.Context, userID int64, ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marks[userID] = append(f.marks[userID], ids...)
	return nil
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newTestService(loader Loader) (*Service, *clock, *fakeSeen) {
	clk := &clock{t: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	seen := &fakeSeen{marks: map[int64][]int64{}}
	svc := NewService(memory.NewWithClock(clk.Now), loader, seen, 0, logger.Nop())
	svc.now = clk.Now
	return svc, clk, seen
}

func pageIDs(p Page) []int64 {
	out := make([]int64, 0, len(p.Items))
	for _, a := range p.Items {
		out = append(out, a.ID)
	}
	return out
}

func TestService_ScenarioC(t *testing.T) {
	svc, clk, seen := newTestService(fakeLoader{})
	ctx := context.Background()

	id, err := svc.Create(ctx, 7, []int64{5, 3, 9, 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	p1, err := svc.Page(ctx, id, 1, 2)
	if err != nil {
		t.Fatalf("Page 1: %v", err)
	}
	if got := pageIDs(p1); !reflect.DeepEqual(got, []int64{5, 3}) {
		t.Fatalf("page 1 = %v", got)
	}
	if p1.Pagination.TotalPages != 2 || p1.Pagination.TotalItems != 4 || !p1.Pagination.HasNext {
		t.Fatalf("unexpected pagination %+v", p1.Pagination)
	}

	p2, err := svc.Page(ctx, id, 2, 2)
	if err != nil {
		t.Fatalf("Page 2: %v", err)
	}
	if got := pageIDs(p2); !reflect.DeepEqual(got, []int64{9, 1}) || p2.Pagination.HasNext {
		t.Fatalf("page 2 = %v (%+v)", got, p2.Pagination)
	}

	if got := seen.marks[7]; !reflect.DeepEqual(got, []int64{5, 3, 9, 1}) {
		t.Fatalf("expected served ids marked seen, got %v", got)
	}

	clk.t = clk.t.Add(DefaultTTL + time.Second)
	for _, page := range []int{1, 2, 3} {
		if _, err := svc.Page(ctx, id, page, 2); !errors.Is(err, ErrSessionExpired) {
			t.Fatalf("page %d after ttl: expected ErrSessionExpired, got %v", page, err)
		}
	}
}

func TestService_PageBeyondEndAndDeletedItems(t *testing.T) {
	svc, _, _ := newTestService(fakeLoader{missing: map[int64]bool{3: true}})
	ctx := context.Background()

	id, _ := svc.Create(ctx, 1, []int64{5, 3, 9})

	p, err := svc.Page(ctx, id, 1, 2)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if got := pageIDs(p); !reflect.DeepEqual(got, []int64{5}) {
		t.Fatalf("deleted ids must be skipped, got %v", got)
	}

	p, err = svc.Page(ctx, id, 5, 2)
	if err != nil {
		t.Fatalf("Page beyond end: %v", err)
	}
	if len(p.Items) != 0 || p.Pagination.HasNext {
		t.Fatalf("expected empty page, got %+v", p)
	}
}

func TestService_InvalidInputAndCap(t *testing.T) {
	svc, _, _ := newTestService(fakeLoader{})
	ctx := context.Background()

	if _, err := svc.Page(ctx, "x", 0, 10); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for page 0, got %v", err)
	}
	if _, err := svc.Page(ctx, "x", 1, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for size 0, got %v", err)
	}

	ids := make([]int64, 250)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	id, _ := svc.Create(ctx, 1, ids)
	p, err := svc.Page(ctx, id, 1, 1000)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if len(p.Items) != MaxPageSize || p.Pagination.TotalPages != 3 {
		t.Fatalf("expected page size capped at %d, got %d items (%+v)", MaxPageSize, len(p.Items), p.Pagination)
	}
}

func TestService_UnknownSessionIsExpired(t *testing.T) {
	svc, _, _ := newTestService(fakeLoader{})
	if _, err := svc.Page(context.Background(), "does-not-exist", 1, 10); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestService_HugePageIsEmpty(t *testing.T) {
	svc, _, seen := newTestService(fakeLoader{})
	ctx := context.Background()

	id, err := svc.Create(ctx, 7, []int64{5, 3, 9, 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, page := range []int{math.MaxInt, math.MaxInt / 2, 3} {
		p, err := svc.Page(ctx, id, page, 2)
		if err != nil {
			t.Fatalf("Page %d: %v", page, err)
		}
		if len(p.Items) != 0 || p.Pagination.TotalItems != 4 || p.Pagination.TotalPages != 2 || p.Pagination.HasNext {
			t.Fatalf("page %d: unexpected result %+v", page, p)
		}
	}
	if len(seen.marks[7]) != 0 {
		t.Fatalf("empty pages must not mark anything as seen, got %v", seen.marks[7])
	}
}
