package checkpoint

import (
	"context"
	"testing"
)

type mockProvider struct {
	objs    map[[2]uint64]Object // keyed by (id[0] as uint64, version)
	getCalls  int
	findCalls int
}

func keyOf(id ObjectID, version SequenceNumber) [2]uint64 {
	return [2]uint64{uint64(id[0]), uint64(version)}
}

func newMockProvider() *mockProvider {
	return &mockProvider{objs: make(map[[2]uint64]Object)}
}

func (p *mockProvider) put(obj Object) {
	p.objs[keyOf(obj.ID, obj.Version)] = obj
}

func (p *mockProvider) Get(ctx context.Context, id ObjectID, version SequenceNumber) (Object, error) {
	p.getCalls++
	obj, ok := p.objs[keyOf(id, version)]
	if !ok {
		return Object{}, ErrNotFound
	}
	return obj, nil
}

func (p *mockProvider) FindLE(ctx context.Context, id ObjectID, version SequenceNumber) (Object, bool, error) {
	p.findCalls++
	var best Object
	found := false
	for k, obj := range p.objs {
		if k[0] != uint64(id[0]) || SequenceNumber(k[1]) > version {
			continue
		}
		if !found || SequenceNumber(k[1]) > best.Version {
			best = obj
			found = true
		}
	}
	return best, found, nil
}

func TestVersionedObjectCacheGetMemoizes(t *testing.T) {
	p := newMockProvider()
	var id ObjectID
	id[0] = 1
	p.put(Object{ID: id, Version: 5, Type: "x"})

	cache := NewVersionedObjectCache(p)
	ctx := context.Background()

	if _, err := cache.Get(ctx, id, 5); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := cache.Get(ctx, id, 5); err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.getCalls != 1 {
		t.Fatalf("expected provider.Get called once, got %d", p.getCalls)
	}
}

func TestVersionedObjectCacheGetNotFound(t *testing.T) {
	p := newMockProvider()
	cache := NewVersionedObjectCache(p)
	if _, err := cache.Get(context.Background(), ObjectID{}, 1); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVersionedObjectCacheFindLEMemoizesAndResolves(t *testing.T) {
	p := newMockProvider()
	var id ObjectID
	id[0] = 2
	p.put(Object{ID: id, Version: 3, Type: "x"})
	p.put(Object{ID: id, Version: 7, Type: "x"})

	cache := NewVersionedObjectCache(p)
	ctx := context.Background()

	obj, ok, err := cache.FindLE(ctx, id, 5)
	if err != nil || !ok {
		t.Fatalf("findLE: %v ok=%v", err, ok)
	}
	if obj.Version != 3 {
		t.Fatalf("expected resolved version 3, got %d", obj.Version)
	}
	if p.findCalls != 1 {
		t.Fatalf("expected 1 provider FindLE call, got %d", p.findCalls)
	}

	if _, _, err := cache.FindLE(ctx, id, 5); err != nil {
		t.Fatalf("findLE (cached): %v", err)
	}
	if p.findCalls != 1 {
		t.Fatalf("second FindLE for same query should hit the resolved cache, got %d provider calls", p.findCalls)
	}
}

func TestVersionedObjectCacheFindLENotFound(t *testing.T) {
	p := newMockProvider()
	cache := NewVersionedObjectCache(p)
	_, ok, err := cache.FindLE(context.Background(), ObjectID{}, 1)
	if err != nil {
		t.Fatalf("findLE: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for unknown object")
	}
}

func TestCacheRingReusesPerCheckpoint(t *testing.T) {
	p := newMockProvider()
	ring, err := NewCacheRing(p, 2)
	if err != nil {
		t.Fatalf("new cache ring: %v", err)
	}

	c1 := ring.ForCheckpoint(10)
	c2 := ring.ForCheckpoint(10)
	if c1 != c2 {
		t.Fatal("expected the same cache instance for the same checkpoint sequence")
	}

	c3 := ring.ForCheckpoint(11)
	if c3 == c1 {
		t.Fatal("expected a distinct cache instance for a different checkpoint sequence")
	}
}
