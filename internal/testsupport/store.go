package testsupport

import (
	"context"
	"testing"

	"loom/internal/config"
	"loom/internal/nodes"
	"loom/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// Enqueue records a pending manifest request for tests.
func Enqueue(t testing.TB, store *queue.Store, pluginName, manifestID string, node nodes.Node) *queue.Request {
	t.Helper()

	req, err := store.Enqueue(context.Background(), pluginName, manifestID, node)
	if err != nil {
		t.Fatalf("store.Enqueue: %v", err)
	}
	return req
}
