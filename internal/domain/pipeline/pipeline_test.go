package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"pet-reels/internal/domain/animals"
	"pet-reels/internal/ports/upstream"
)

func TestDiscovery_IdempotentAndSeedsHub(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	blocked := listing(3, "fb", t0)
	blocked.Videos = video("https://www.facebook.com/video/1")
	withOrg := listing(1, "rex", t0)
	withOrg.OrganizationID = "TX1"
	withOrg.Contact = map[string]any{"address": map[string]any{"city": "Austin", "state": "TX"}}

	up := &fakeListings{
		search: []upstream.Listing{withOrg, listing(2, "luna", t0), blocked},
		orgs:   map[string]upstream.OrganizationListing{"TX1": {ID: "TX1", Name: "Austin Pets"}},
	}
	h := newHarness(up, 1000)
	ctx := context.Background()

	sum, err := h.p.Discovery(ctx)
	if err != nil {
		t.Fatalf("Discovery: %v", err)
	}
	if sum.Created != 2 || sum.Pages != 2 {
		t.Fatalf("unexpected first summary %+v", sum)
	}
	if got := h.ids(); !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Fatalf("expected ids [1 2], got %v", got)
	}

	org, ok := h.store.Organizations().Get("TX1")
	if !ok || org.Name != "Austin Pets" {
		t.Fatalf("expected organization with detail, got %+v ok=%v", org, ok)
	}
	got, _ := h.store.Animals().GetByIDs(ctx, []int64{1})
	if len(got) != 1 || !got[0].HasLocation() || *got[0].Lat != 30.27 {
		t.Fatalf("expected geocoded coordinates, got %+v", got)
	}

	seeded, _ := h.store.SyncState().GetTime(ctx, seededKey("austin"))
	if seeded.IsZero() {
		t.Fatalf("hub should be marked as seeded")
	}

	sum, err = h.p.Discovery(ctx)
	if err != nil {
		t.Fatalf("Discovery (2): %v", err)
	}
	if sum.Created != 0 {
		t.Fatalf("second run must not create records, got %+v", sum)
	}
	if got := h.ids(); !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Fatalf("expected ids unchanged, got %v", got)
	}
}

func TestDiscovery_BudgetStopsRunWithoutError(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	up := &fakeListings{search: []upstream.Listing{listing(1, "rex", t0)}}

	// 1 intercambio de token + 1 búsqueda; el segundo hub ya no entra
	h := newHarness(up, 2,
		Hub{Name: "a", Lat: coord(1), Lon: coord(1)},
		Hub{Name: "b", Lat: coord(2), Lon: coord(2)},
	)
	ctx := context.Background()

	sum, err := h.p.Discovery(ctx)
	if err != nil {
		t.Fatalf("budget exhaustion must not fail the job: %v", err)
	}
	if !sum.Stopped || sum.Created != 1 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if got := up.searches.Load(); got != 1 {
		t.Fatalf("expected 1 search before the breaker opened, got %d", got)
	}
	if seeded, _ := h.store.SyncState().GetTime(ctx, seededKey("b")); !seeded.IsZero() {
		t.Fatalf("hub b must not be seeded")
	}
}

func TestQuickScan_OnlySeededHubsAndAdvances(t *testing.T) {
	h := newHarness(&fakeListings{}, 1000)
	ctx := context.Background()
	t0 := h.now

	sum, err := h.p.QuickScan(ctx)
	if err != nil {
		t.Fatalf("QuickScan: %v", err)
	}
	if sum.Skipped != 1 || h.up.searches.Load() != 0 {
		t.Fatalf("unseeded hub must be skipped, got %+v", sum)
	}

	_ = h.store.SyncState().SetTime(ctx, seededKey("austin"), t0)
	h.up.search = []upstream.Listing{
		listing(10, "old", t0.Add(-3*time.Hour)),
		listing(11, "new", t0.Add(-10*time.Minute)),
	}
	h.now = t0.Add(15 * time.Minute)

	sum, err = h.p.QuickScan(ctx)
	if err != nil {
		t.Fatalf("QuickScan (2): %v", err)
	}
	// el primer run guardó t0 como último scan: solo entra lo publicado después
	if sum.Created != 0 || !sum.Advanced {
		t.Fatalf("unexpected summary %+v", sum)
	}

	h.up.search = append(h.up.search, listing(12, "fresh", t0.Add(20*time.Minute)))
	h.now = t0.Add(30 * time.Minute)
	sum, err = h.p.QuickScan(ctx)
	if err != nil {
		t.Fatalf("QuickScan (3): %v", err)
	}
	if sum.Created != 1 {
		t.Fatalf("expected 1 new record, got %+v", sum)
	}
	last, _ := h.store.SyncState().GetTime(ctx, lastScanKey)
	if !last.Equal(t0.Add(30 * time.Minute)) {
		t.Fatalf("expected scan timestamp to advance to run start, got %v", last)
	}

	// misma ventana sin cambios: nada nuevo
	h.now = t0.Add(45 * time.Minute)
	sum, _ = h.p.QuickScan(ctx)
	if sum.Created != 0 || len(h.ids()) != 1 {
		t.Fatalf("re-run must not create records, got %+v ids=%v", sum, h.ids())
	}
}

func TestQuickScan_HubFailureKeepsTimestamp(t *testing.T) {
	up := &fakeListings{searchErr: errors.New("boom")}
	h := newHarness(up, 1000)
	ctx := context.Background()
	_ = h.store.SyncState().SetTime(ctx, seededKey("austin"), h.now)

	sum, err := h.p.QuickScan(ctx)
	if err != nil {
		t.Fatalf("hub failures must be isolated: %v", err)
	}
	if sum.Failed != 1 || sum.Advanced {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if last, _ := h.store.SyncState().GetTime(ctx, lastScanKey); !last.IsZero() {
		t.Fatalf("timestamp must not advance after a failed hub, got %v", last)
	}
}

func TestQuickScan_CapPerHub(t *testing.T) {
	h := newHarness(&fakeListings{}, 1000)
	h.p.cfg.QuickScanCap = 1
	ctx := context.Background()
	_ = h.store.SyncState().SetTime(ctx, seededKey("austin"), h.now)

	h.up.search = []upstream.Listing{
		listing(20, "a", h.now.Add(-30*time.Minute)),
		listing(21, "b", h.now.Add(-20*time.Minute)),
		listing(22, "c", h.now.Add(-10*time.Minute)),
	}

	sum, err := h.p.QuickScan(ctx)
	if err != nil {
		t.Fatalf("QuickScan: %v", err)
	}
	if sum.Created+sum.Updated != 1 || len(h.ids()) != 1 {
		t.Fatalf("expected a single write for the hub, got %+v ids=%v", sum, h.ids())
	}
	if got := h.up.searches.Load(); got != 1 {
		t.Fatalf("cap reached on the first page, expected 1 search, got %d", got)
	}
	last, _ := h.store.SyncState().GetTime(ctx, lastScanKey)
	if !sum.Advanced || !last.Equal(h.now) {
		t.Fatalf("capped hub is not a failure, timestamp must advance: %+v last=%v", sum, last)
	}
}

func TestQuickScan_UnlocatableHubKeepsTimestamp(t *testing.T) {
	up := &fakeListings{}
	h := newHarness(up, 1000,
		Hub{Name: "austin", Lat: coord(30.27), Lon: coord(-97.74)},
		Hub{Name: "atlantis", Location: "Atlantis"},
	)
	ctx := context.Background()
	_ = h.store.SyncState().SetTime(ctx, seededKey("austin"), h.now)
	_ = h.store.SyncState().SetTime(ctx, seededKey("atlantis"), h.now)
	up.search = []upstream.Listing{listing(30, "rex", h.now.Add(-10*time.Minute))}

	sum, err := h.p.QuickScan(ctx)
	if err != nil {
		t.Fatalf("QuickScan: %v", err)
	}
	if sum.Skipped != 1 || sum.Failed != 0 || sum.Created != 1 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if sum.Advanced {
		t.Fatalf("timestamp must not advance while a seeded hub was skipped")
	}
	if last, _ := h.store.SyncState().GetTime(ctx, lastScanKey); !last.IsZero() {
		t.Fatalf("expected no stored timestamp, got %v", last)
	}
}

func TestSearch_UnauthorizedRefreshesTokenOnce(t *testing.T) {
	up := &fakeListings{unauthorized: 1}
	h := newHarness(up, 1000)

	if _, err := h.p.Discovery(context.Background()); err != nil {
		t.Fatalf("Discovery: %v", err)
	}
	if got := up.exchanges.Load(); got != 2 {
		t.Fatalf("expected token to be exchanged again after 401, got %d exchanges", got)
	}
	if got := up.searches.Load(); got != 2 {
		t.Fatalf("expected the search to be retried once, got %d", got)
	}
}

func TestRefresh_ScenarioB(t *testing.T) {
	up := &fakeListings{
		details:    map[int64]upstream.Listing{},
		detailErrs: map[int64]error{1: upstream.ErrNotFound, 3: errors.New("weird upstream answer")},
	}
	h := newHarness(up, 1000)
	ctx := context.Background()
	repo := h.store.Animals()

	atRisk := h.now.Add(-24 * time.Hour)
	for _, a := range []animals.Animal{
		{ID: 1, Name: "X", LastSeenAt: atRisk},
		{ID: 2, Name: "Y", LastSeenAt: atRisk, LikeCount: 4},
		{ID: 3, Name: "Z", LastSeenAt: atRisk},
		{ID: 4, Name: "fresh", LastSeenAt: h.now.Add(-time.Hour)},
	} {
		_, _ = repo.CreateIfAbsent(ctx, a)
	}

	updated := listing(2, "Y2", h.now)
	up.details[2] = updated

	sum, err := h.p.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if sum.Deleted != 1 || sum.Updated != 1 || sum.Deferred != 1 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if got := h.ids(); !reflect.DeepEqual(got, []int64{2, 3, 4}) {
		t.Fatalf("expected X deleted only, got %v", got)
	}

	ys, _ := repo.GetByIDs(ctx, []int64{2})
	y := ys[0]
	if y.Name != "Y2" || !y.LastSeenAt.Equal(h.now) || y.LikeCount != 4 {
		t.Fatalf("expected Y refreshed in place, got %+v", y)
	}
}

func TestRefresh_IneligibleDetailIsDeleted(t *testing.T) {
	gone := listing(5, "gone", time.Time{})
	gone.Videos = nil
	adopted := listing(6, "adopted", time.Time{})
	adopted.Status = "adopted"

	up := &fakeListings{details: map[int64]upstream.Listing{5: gone, 6: adopted}}
	h := newHarness(up, 1000)
	ctx := context.Background()
	for _, id := range []int64{5, 6} {
		_, _ = h.store.Animals().CreateIfAbsent(ctx, animals.Animal{ID: id, LastSeenAt: h.now.Add(-24 * time.Hour)})
	}

	sum, err := h.p.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if sum.Deleted != 2 || len(h.ids()) != 0 {
		t.Fatalf("expected both records deleted, got %+v ids=%v", sum, h.ids())
	}
}

func TestRefresh_BroadPassTouchesSeenRecords(t *testing.T) {
	h := newHarness(&fakeListings{}, 1000)
	ctx := context.Background()
	old := h.now.Add(-20 * time.Hour)
	_, _ = h.store.Animals().CreateIfAbsent(ctx, animals.Animal{ID: 7, LastSeenAt: old})
	h.up.search = []upstream.Listing{listing(7, "seen", h.now), listing(8, "unknown", h.now)}

	sum, err := h.p.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if sum.Touched != 1 {
		t.Fatalf("expected 1 touched record, got %+v", sum)
	}
	got, _ := h.store.Animals().GetByIDs(ctx, []int64{7})
	if !got[0].LastSeenAt.Equal(h.now) {
		t.Fatalf("expected last_seen_at bumped, got %v", got[0].LastSeenAt)
	}
	if len(h.ids()) != 1 {
		t.Fatalf("broad pass must not create records")
	}
}

func TestJanitor_StalenessBound(t *testing.T) {
	h := newHarness(&fakeListings{}, 1000)
	ctx := context.Background()
	orgA, orgB := "A", "B"
	_, _ = h.store.Organizations().CreateIfAbsent(ctx, animals.Organization{ID: orgA})
	_, _ = h.store.Organizations().CreateIfAbsent(ctx, animals.Organization{ID: orgB})
	_, _ = h.store.Animals().CreateIfAbsent(ctx, animals.Animal{ID: 1, OrganizationID: &orgA, LastSeenAt: h.now.Add(-26 * time.Hour)})
	_, _ = h.store.Animals().CreateIfAbsent(ctx, animals.Animal{ID: 2, OrganizationID: &orgB, LastSeenAt: h.now.Add(-time.Hour)})

	sum, err := h.p.Janitor(ctx)
	if err != nil {
		t.Fatalf("Janitor: %v", err)
	}
	if sum.Deleted != 1 || sum.Orphans != 1 {
		t.Fatalf("unexpected summary %+v", sum)
	}

	rows, _ := h.store.Animals().ListDedupRows(ctx)
	for _, r := range rows {
		got, _ := h.store.Animals().GetByIDs(ctx, []int64{r.ID})
		if h.now.Sub(got[0].LastSeenAt) > h.p.cfg.StaleAfter {
			t.Fatalf("record %d exceeds the staleness threshold", r.ID)
		}
	}
	if _, ok := h.store.Organizations().Get(orgA); ok {
		t.Fatalf("organization A should be swept")
	}
}

func TestDedup_ScenarioD(t *testing.T) {
	h := newHarness(&fakeListings{}, 1000)
	ctx := context.Background()
	_, _ = h.store.Animals().CreateIfAbsent(ctx, animals.Animal{ID: 42, Name: "Rex", Type: "Dog", Breeds: animals.Document{"secondary": "mix", "primary": "lab"}})
	_, _ = h.store.Animals().CreateIfAbsent(ctx, animals.Animal{ID: 10, Name: "Rex", Type: "Dog", Breeds: animals.Document{"primary": "Lab", "secondary": "Mix"}})

	sum, err := h.p.Run(ctx, JobDedup)
	if err != nil {
		t.Fatalf("Dedup: %v", err)
	}
	if sum.Deleted != 1 || !reflect.DeepEqual(h.ids(), []int64{10}) {
		t.Fatalf("expected only id 10 to survive, got %v (%+v)", h.ids(), sum)
	}
}

func TestRun_UnknownJob(t *testing.T) {
	h := newHarness(&fakeListings{}, 1000)
	if _, err := h.p.Run(context.Background(), "nope"); !errors.Is(err, ErrUnknownJob) {
		t.Fatalf("expected ErrUnknownJob, got %v", err)
	}
}
