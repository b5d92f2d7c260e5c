package cache

import (
	"errors"
	"testing"
	"time"
)

func TestGetSetExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := New(time.Minute)
	m.now = func() time.Time { return now }

	m.SetWithDefaultTTL("k", 42)
	if v, ok := m.Get("k"); !ok || v.(int) != 42 {
		t.Fatalf("Get() = %v, %v; want 42, true", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := m.Get("k"); ok {
		t.Error("Get() should miss after expiry")
	}

	m.evictExpired()
	if s := m.Stats(); s.Items != 0 || s.Hits != 1 || s.Misses != 1 {
		t.Errorf("Stats() = %+v, want 0 items, 1 hit, 1 miss", s)
	}
}

func TestGetOrLoad(t *testing.T) {
	m := New(time.Hour)
	calls := 0
	load := func() (interface{}, error) {
		calls++
		return "caps", nil
	}

	for i := 0; i < 3; i++ {
		v, err := m.GetOrLoad("acme:snapshots", load)
		if err != nil || v.(string) != "caps" {
			t.Fatalf("GetOrLoad() = %v, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	if _, err := m.GetOrLoad("other", func() (interface{}, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Errorf("GetOrLoad() error = %v, want %v", err, boom)
	}
	if _, ok := m.Get("other"); ok {
		t.Error("errors must not be cached")
	}
}

func TestZeroTTLDisablesCaching(t *testing.T) {
	m := New(0)
	m.SetWithDefaultTTL("k", 1)
	if _, ok := m.Get("k"); ok {
		t.Error("zero TTL should not store entries")
	}
}

func TestDeletePrefix(t *testing.T) {
	m := New(time.Hour)
	m.SetWithDefaultTTL("acme:a", 1)
	m.SetWithDefaultTTL("acme:b", 2)
	m.SetWithDefaultTTL("other:a", 3)

	if n := m.DeletePrefix("acme:"); n != 2 {
		t.Errorf("DeletePrefix() = %d, want 2", n)
	}
	if _, ok := m.Get("other:a"); !ok {
		t.Error("unrelated key should survive")
	}
}
