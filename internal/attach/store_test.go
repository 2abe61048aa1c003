package attach

import (
	"context"
	"testing"
	"time"

	"clipforge/internal/domain"
)

func TestMemoryStorePutGet(t *testing.T) {
	store := NewMemoryStore(4, time.Minute)
	ctx := context.Background()

	key, err := store.Put(ctx, Buffered{Kind: domain.AttachmentKindImage, MIME: "image/png", Data: []byte("png")})
	if err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, ok := store.Get(ctx, key)
	if !ok {
		t.Fatal("Get did not find stored attachment")
	}
	if got.MIME != "image/png" || string(got.Data) != "png" {
		t.Fatalf("Get returned %+v", got)
	}

	store.Delete(ctx, key)
	if _, ok := store.Get(ctx, key); ok {
		t.Fatal("Get found attachment after Delete")
	}
}

func TestMemoryStoreTTLEviction(t *testing.T) {
	store := NewMemoryStore(4, time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	key, err := store.Put(ctx, Buffered{Kind: domain.AttachmentKindAudio, MIME: "audio/wav", Data: []byte("wav")})
	if err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	store.now = func() time.Time { return now.Add(2 * time.Minute) }
	if _, ok := store.Get(ctx, key); ok {
		t.Fatal("Get found attachment past its TTL")
	}
}

func TestMemoryStoreCapacityEvictsOldest(t *testing.T) {
	store := NewMemoryStore(2, time.Hour)
	now := time.Now()
	step := 0
	store.now = func() time.Time {
		step++
		return now.Add(time.Duration(step) * time.Second)
	}
	ctx := context.Background()

	first, _ := store.Put(ctx, Buffered{Data: []byte("a")})
	second, _ := store.Put(ctx, Buffered{Data: []byte("b")})
	third, _ := store.Put(ctx, Buffered{Data: []byte("c")})

	if _, ok := store.Get(ctx, first); ok {
		t.Fatal("oldest entry survived capacity eviction")
	}
	if _, ok := store.Get(ctx, second); !ok {
		t.Fatal("second entry should survive")
	}
	if _, ok := store.Get(ctx, third); !ok {
		t.Fatal("third entry should survive")
	}
}
