package stats

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type memStore map[string]string

func (m memStore) Get(ctx context.Context, key string) (string, error) {
	return m[key], nil
}

func (m memStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m[key] = value
	return nil
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func TestClampRange(t *testing.T) {
	cases := map[int]int{
		0:   30,
		-5:  30,
		1:   1,
		7:   7,
		90:  90,
		365: 90,
	}
	for in, want := range cases {
		if got := ClampRange(in); got != want {
			t.Errorf("ClampRange(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestCacheKeyIsTenantAndRangeScoped(t *testing.T) {
	a := cacheKey("acme", "live", 7)
	b := cacheKey("acme", "live", 30)
	c := cacheKey("globex", "live", 7)
	d := cacheKey("acme", "test", 7)
	if a == b || a == c || a == d {
		t.Errorf("cache keys collide: %s %s %s %s", a, b, c, d)
	}
}

func TestCollectServesFromCache(t *testing.T) {
	store := memStore{}
	cached := Summary{RangeDays: 7, Orders: 42, RevenueCents: 129900, Currency: "USD"}
	data, _ := json.Marshal(cached)
	store[cacheKey("acme", "live", 7)] = string(data)

	svc := NewService(store, 5*time.Minute, testLogger())

	// A cache hit must return before any Stripe call, so a nil client is
	// safe here.
	got, err := svc.Collect(context.Background(), nil, "acme", "live", 7)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if got.Orders != 42 || got.RevenueCents != 129900 {
		t.Errorf("got %+v, want cached summary", got)
	}
}
