package cache

import (
	"testing"
	"time"
)

type manualClock struct{ t time.Time }

func (m *manualClock) now() time.Time { return m.t }

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[int](2, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should be present")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("a = %v, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("size = %d", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	clock := &manualClock{t: time.Unix(0, 0)}
	c := NewLRU[string](10, time.Minute)
	c.now = clock.now

	c.Set("k", "v")
	c.Set("other", "x")
	clock.t = clock.t.Add(30 * time.Second)
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("expected hit, got %q %v", v, ok)
	}

	clock.t = clock.t.Add(31 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expiry")
	}
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("CleanExpired = %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Fatalf("size = %d", c.Size())
	}
}

func TestLRUZeroTTLNeverExpires(t *testing.T) {
	clock := &manualClock{t: time.Unix(0, 0)}
	c := NewLRU[int](4, 0)
	c.now = clock.now
	c.Set("k", 1)
	clock.t = clock.t.Add(24 * time.Hour)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("zero ttl entry expired")
	}
	if n := c.CleanExpired(); n != 0 {
		t.Fatalf("CleanExpired = %d", n)
	}
}

func TestLRUOverwriteAndDelete(t *testing.T) {
	c := NewLRU[int](3, 0)
	c.Set("k", 1)
	c.Set("k", 2)
	if v, _ := c.Get("k"); v != 2 {
		t.Fatalf("v = %d", v)
	}
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("deleted key still present")
	}
	c.Set("a", 1)
	c.Purge()
	if c.Size() != 0 {
		t.Fatal("purge left entries")
	}
}

func TestManagerCleanAll(t *testing.T) {
	clock := &manualClock{t: time.Unix(0, 0)}
	a := NewLRU[int](4, time.Second)
	a.now = clock.now
	b := NewLRU[int](4, time.Second)
	b.now = clock.now
	a.Set("x", 1)
	b.Set("y", 2)
	b.Set("z", 3)

	m := NewManager(nil)
	m.Register(a)
	m.Register(b)
	clock.t = clock.t.Add(2 * time.Second)
	if n := m.CleanAll(); n != 3 {
		t.Fatalf("CleanAll = %d, want 3", n)
	}
}
