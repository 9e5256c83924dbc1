package lookupcache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/animatch/internal/db"
	"github.com/kailas-cloud/animatch/internal/domain/item"
)

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	data   map[string][]byte
	ttl    time.Duration
	getErr error
	setErr error
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{data: map[string][]byte{}}
}

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttl = ttl
	return nil
}

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_lookup_cache_total"}, []string{"result"})
}

func TestPutThenGet_CaseInsensitive(t *testing.T) {
	ms := newMockKVStore()
	counter := newCounter()
	c := New(ms, time.Hour, counter, zap.NewNop())
	ctx := context.Background()

	synopsis := "Two brothers search for the stone."
	c.Put(ctx, "Fullmetal Alchemist", &item.Raw{MalID: 121, Title: "Hagane no Renkinjutsushi", Synopsis: &synopsis})

	raw, ok := c.Get(ctx, "  fullmetal ALCHEMIST ")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if raw.MalID != 121 || raw.Synopsis == nil || *raw.Synopsis != synopsis {
		t.Errorf("unexpected record: %+v", raw)
	}
	if ms.ttl != time.Hour {
		t.Errorf("expected ttl 1h, got %v", ms.ttl)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("hit")); got != 1 {
		t.Errorf("expected 1 hit, got %v", got)
	}
	for k := range ms.data {
		if !strings.HasPrefix(k, DefaultKeyPrefix) {
			t.Errorf("key %q missing prefix", k)
		}
	}
}

func TestGet_Miss(t *testing.T) {
	counter := newCounter()
	c := New(newMockKVStore(), time.Hour, counter, zap.NewNop())

	if _, ok := c.Get(context.Background(), "unknown"); ok {
		t.Fatal("expected miss")
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("miss")); got != 1 {
		t.Errorf("expected 1 miss, got %v", got)
	}
}

func TestGet_StoreErrorIsMiss(t *testing.T) {
	ms := newMockKVStore()
	ms.getErr = errors.New("connection reset")
	c := New(ms, time.Hour, nil, zap.NewNop())

	if _, ok := c.Get(context.Background(), "x"); ok {
		t.Fatal("expected miss on store error")
	}
}

func TestGet_CorruptPayloadIsMiss(t *testing.T) {
	ms := newMockKVStore()
	c := New(ms, time.Hour, nil, zap.NewNop()).WithKeyPrefix("t:")
	ms.data[c.key("x")] = []byte("{not json")

	if _, ok := c.Get(context.Background(), "x"); ok {
		t.Fatal("expected miss on corrupt payload")
	}
}

func TestPut_NilAndStoreError(t *testing.T) {
	ms := newMockKVStore()
	c := New(ms, time.Hour, nil, zap.NewNop())

	c.Put(context.Background(), "x", nil)
	if len(ms.data) != 0 {
		t.Error("nil record must not be cached")
	}

	ms.setErr = errors.New("readonly replica")
	c.Put(context.Background(), "x", &item.Raw{MalID: 1})
	if len(ms.data) != 0 {
		t.Error("failed write must not be stored")
	}
}
