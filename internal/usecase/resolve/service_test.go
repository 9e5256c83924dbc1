package resolve

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/animatch/internal/domain"
	"github.com/kailas-cloud/animatch/internal/domain/corpus"
	"github.com/kailas-cloud/animatch/internal/domain/item"
)

// --- Mocks ---

type staticLoader struct{ snap *corpus.Snapshot }

func (l *staticLoader) Load() *corpus.Snapshot { return l.snap }

type mockProvider struct {
	raw   *item.Raw
	err   error
	calls int
}

func (m *mockProvider) SearchOne(_ context.Context, _ string) (*item.Raw, error) {
	m.calls++
	return m.raw, m.err
}

type mockCache struct {
	data map[string]*item.Raw
	puts int
}

func (m *mockCache) Get(_ context.Context, title string) (*item.Raw, bool) {
	r, ok := m.data[title]
	return r, ok
}

func (m *mockCache) Put(_ context.Context, title string, raw *item.Raw) {
	m.puts++
	m.data[title] = raw
}

func testSnapshot() *corpus.Snapshot {
	return corpus.NewSnapshot(1, []item.Item{
		{ID: 1, CanonicalTitle: "Shingeki no Kyojin", DisplayTitle: "Attack on Titan", Genres: []string{"Action"}},
		{ID: 2, CanonicalTitle: "Attack on Titan", DisplayTitle: "Attack on Titan", Genres: []string{"Action"}},
	})
}

func newTestService(p Provider) *Service {
	return New(&staticLoader{snap: testSnapshot()}, p, zap.NewNop())
}

// --- Tests ---

func TestResolve_LocalMatchFirstWins(t *testing.T) {
	p := &mockProvider{}
	svc := newTestService(p)

	res, err := svc.Resolve(context.Background(), "ATTACK ON TITAN")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Local || res.Item.ID != 1 {
		t.Errorf("expected local item 1, got %+v", res)
	}
	if p.calls != 0 {
		t.Error("provider must not be called on a local hit")
	}
}

func TestResolve_ProviderFallback(t *testing.T) {
	synopsis := "A boy becomes a chainsaw devil."
	p := &mockProvider{raw: &item.Raw{
		MalID:    44511,
		Title:    "Chainsaw Man",
		Synopsis: &synopsis,
		Genres:   []item.RawGenre{{Name: "Action"}},
	}}
	snap := testSnapshot()
	svc := New(&staticLoader{snap: snap}, p, zap.NewNop())

	res, err := svc.Resolve(context.Background(), "chainsaw man")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Local || res.Item.ID != 44511 || res.Item.DisplayTitle != "Chainsaw Man" {
		t.Errorf("unexpected result: %+v", res)
	}
	if _, ok := snap.IndexOf(44511); ok || snap.Len() != 2 {
		t.Error("fallback item must not be added to the corpus")
	}
}

func TestResolve_NotFoundOnEmptyProvider(t *testing.T) {
	svc := newTestService(&mockProvider{})

	_, err := svc.Resolve(context.Background(), "Nonexistent Title 12345")
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) || nf.Query != "Nonexistent Title 12345" {
		t.Errorf("expected query echoed back, got %v", err)
	}
}

func TestResolve_ProviderErrorDegradesToNotFound(t *testing.T) {
	p := &mockProvider{err: fmt.Errorf("dial tcp: %w", domain.ErrProviderUnavailable)}
	svc := newTestService(p)

	_, err := svc.Resolve(context.Background(), "Unknown")
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	if errors.Is(err, domain.ErrProviderUnavailable) {
		t.Error("provider error must not leak")
	}
}

func TestResolve_EmptyTitle(t *testing.T) {
	svc := newTestService(&mockProvider{})
	if _, err := svc.Resolve(context.Background(), "  "); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestResolve_EmptyCorpusUsesProvider(t *testing.T) {
	p := &mockProvider{raw: &item.Raw{MalID: 5, Title: "Solo"}}
	svc := New(&staticLoader{snap: corpus.Empty()}, p, zap.NewNop())

	res, err := svc.Resolve(context.Background(), "Solo")
	if err != nil || res.Item.ID != 5 {
		t.Fatalf("unexpected result: %+v, %v", res, err)
	}
}

func TestResolve_CacheHitSkipsProvider(t *testing.T) {
	p := &mockProvider{}
	cache := &mockCache{data: map[string]*item.Raw{"Bebop": {MalID: 1, Title: "Cowboy Bebop"}}}
	svc := newTestService(p).WithCache(cache)

	res, err := svc.Resolve(context.Background(), "Bebop")
	if err != nil || res.Item.ID != 1 {
		t.Fatalf("unexpected result: %+v, %v", res, err)
	}
	if p.calls != 0 {
		t.Error("provider must not be called on a cache hit")
	}
}

func TestResolve_CachesPositiveOnly(t *testing.T) {
	cache := &mockCache{data: map[string]*item.Raw{}}

	svc := newTestService(&mockProvider{}).WithCache(cache)
	_, _ = svc.Resolve(context.Background(), "missing")
	if cache.puts != 0 {
		t.Error("negative results must not be cached")
	}

	svc = newTestService(&mockProvider{raw: &item.Raw{MalID: 9, Title: "Found"}}).WithCache(cache)
	_, _ = svc.Resolve(context.Background(), "Found")
	if cache.puts != 1 {
		t.Errorf("expected 1 put, got %d", cache.puts)
	}
}

type blockingProvider struct {
	raw     *item.Raw
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
	ctxErr  atomic.Value
}

func (m *blockingProvider) SearchOne(ctx context.Context, _ string) (*item.Raw, error) {
	if m.calls.Add(1) == 1 {
		close(m.started)
	}
	<-m.release
	m.ctxErr.Store(fmt.Sprint(ctx.Err()))
	return m.raw, nil
}

func TestResolve_CanceledCallerDoesNotFailSharedLookup(t *testing.T) {
	p := &blockingProvider{
		raw:     &item.Raw{MalID: 52991, Title: "Sousou no Frieren"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := newTestService(p)

	ctx1, cancel1 := context.WithCancel(context.Background())
	err1 := make(chan error, 1)
	go func() {
		_, err := svc.Resolve(ctx1, "Frieren")
		err1 <- err
	}()
	<-p.started

	type result struct {
		res Result
		err error
	}
	second := make(chan result, 1)
	go func() {
		r, err := svc.Resolve(context.Background(), "Frieren")
		second <- result{r, err}
	}()

	cancel1()
	if err := <-err1; !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("canceled caller: expected ErrItemNotFound, got %v", err)
	}

	// Let the second caller join the in-flight lookup.
	time.Sleep(50 * time.Millisecond)
	close(p.release)

	got := <-second
	if got.err != nil {
		t.Fatalf("live caller failed: %v", got.err)
	}
	if got.res.Item.ID != 52991 {
		t.Errorf("unexpected item: %+v", got.res.Item)
	}
	if v := p.ctxErr.Load(); v != "<nil>" {
		t.Errorf("shared lookup saw canceled context: %v", v)
	}
	if n := p.calls.Load(); n != 1 {
		t.Errorf("expected one shared provider call, got %d", n)
	}
}
