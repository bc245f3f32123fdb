package storage

import (
	"testing"
	"time"

	"github.com/vectorops/chromactl/pkg/chroma"
)

func TestBoltStoreRoundTripAndExpiry(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		CollectionTTL:   1 * time.Second,
		CleanupInterval: 1 * time.Second,
	}

	storeRaw, err := openBolt(dir+"/collections.db", opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	_, found, err := store.Collection("demo")
	if err != nil || found {
		t.Fatalf("expected empty cache, found=%v err=%v", found, err)
	}

	want := chroma.Collection{ID: "abc123", Name: "demo"}
	if err := store.Put("demo", want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, found, err := store.Collection("demo")
	if err != nil || !found {
		t.Fatalf("expected cached record, found=%v err=%v", found, err)
	}
	if got != want {
		t.Fatalf("cached record = %+v, want %+v", got, want)
	}

	// Fast-forward cleanup cadence and trigger expiry.
	store.lastCleanup.Store(time.Now().Add(-2 * time.Second).Unix())
	time.Sleep(1100 * time.Millisecond)

	_, found, err = store.Collection("demo")
	if err != nil {
		t.Fatalf("Collection after expiry: %v", err)
	}
	if found {
		t.Fatalf("expected entry to expire and be removed")
	}
}

func TestBoltStorePutOverwrites(t *testing.T) {
	dir := t.TempDir()
	storeRaw, err := openBolt(dir+"/collections.db", Options{
		CollectionTTL:   time.Minute,
		CleanupInterval: time.Minute,
	})
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer storeRaw.Close()

	if err := storeRaw.Put("demo", chroma.Collection{ID: "old", Name: "demo"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := storeRaw.Put("demo", chroma.Collection{ID: "new", Name: "demo"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, found, err := storeRaw.Collection("demo")
	if err != nil || !found {
		t.Fatalf("expected cached record, found=%v err=%v", found, err)
	}
	if got.ID != "new" {
		t.Fatalf("ID = %q, want new", got.ID)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	if err := store.Put("demo", chroma.Collection{ID: "1"}); err != nil {
		t.Fatalf("noop Put: %v", err)
	}
	_, found, err := store.Collection("demo")
	if err != nil || found {
		t.Fatalf("noop store must never find records, found=%v err=%v", found, err)
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported storage type")
	}
}
