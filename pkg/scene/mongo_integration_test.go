//go:build integration

package scene

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func TestMongoStore_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := NewMongoStore(ctx, MongoConfig{URI: uri, Collection: "scenes_test"})
	if err != nil {
		t.Fatalf("NewMongoStore() error: %v", err)
	}
	defer store.Close(ctx)

	if err := store.Seed(ctx, Builtin()...); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	sc, err := store.Get(ctx, "counter")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if sc.Script != "counter" || len(sc.Nodes) == 0 {
		t.Errorf("Get() = %+v, want the counter scene", sc)
	}
	if err := sc.Validate(nil); err != nil {
		t.Errorf("round-tripped scene fails validation: %v", err)
	}

	scenes, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(scenes) < 3 {
		t.Errorf("List() returned %d scenes, want >= 3", len(scenes))
	}

	custom := &Scene{Name: "integration-tmp", Root: 1, Nodes: []NodeDef{{ID: 1, Type: "text"}}}
	if err := store.Put(ctx, custom); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	got, err := store.Get(ctx, "integration-tmp")
	if err != nil {
		t.Fatalf("Get() after Put error: %v", err)
	}
	if got.Root != 1 {
		t.Errorf("Get() = %+v, want the stored scene", got)
	}

	if _, err := store.Get(ctx, "definitely-missing"); !errors.Is(err, ErrSceneNotFound) {
		t.Errorf("Get(missing) = %v, want ErrSceneNotFound", err)
	}
}
