package sessions

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/orderlyy/orderlyy-backend/pkg/redis"
)

type fakeKV struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	f.ttls[key] = ttl
	return nil
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
		delete(f.ttls, key)
	}
	return nil
}

func (f *fakeKV) SessionKey(userID string) string {
	return "orderlyy:session:" + userID
}

func TestStoreRoundTrip(t *testing.T) {
	kv := newFakeKV()
	store, err := NewStore(kv, 30*time.Minute)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	type payload struct {
		Name string `json:"name"`
	}
	if err := store.PutStep(context.Background(), 42, "create:currency", payload{Name: "Sunrise"}); err != nil {
		t.Fatalf("put step: %v", err)
	}

	session, err := store.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if session == nil {
		t.Fatal("expected session, got nil")
	}
	if session.Step != "create:currency" {
		t.Fatalf("expected step create:currency, got %s", session.Step)
	}
	var got payload
	if err := json.Unmarshal(session.Data, &got); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if got.Name != "Sunrise" {
		t.Fatalf("expected name Sunrise, got %s", got.Name)
	}
	if kv.ttls["orderlyy:session:42"] != 30*time.Minute {
		t.Fatalf("expected ttl reset on put, got %v", kv.ttls["orderlyy:session:42"])
	}
}

func TestStoreGetMissingReturnsNil(t *testing.T) {
	store, err := NewStore(newFakeKV(), time.Minute)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	session, err := store.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if session != nil {
		t.Fatalf("expected nil session, got %+v", session)
	}
}

func TestStoreGetCorruptStateDropsSession(t *testing.T) {
	kv := newFakeKV()
	kv.values["orderlyy:session:9"] = "{not json"
	store, err := NewStore(kv, time.Minute)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	session, err := store.Get(context.Background(), 9)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if session != nil {
		t.Fatal("expected corrupt session to read as nil")
	}
	if _, ok := kv.values["orderlyy:session:9"]; ok {
		t.Fatal("expected corrupt session to be deleted")
	}
}

func TestStoreClear(t *testing.T) {
	kv := newFakeKV()
	store, err := NewStore(kv, time.Minute)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.PutStep(context.Background(), 5, "pay:proof", nil); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Clear(context.Background(), 5); err != nil {
		t.Fatalf("clear: %v", err)
	}
	session, err := store.Get(context.Background(), 5)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if session != nil {
		t.Fatal("expected cleared session to be gone")
	}
}
