package manifest_test

import (
	"context"
	"testing"

	"loom/internal/manifest"
	"loom/internal/pages"
)

func TestResolverDelegatesToLookup(t *testing.T) {
	idx := pages.NewOwnershipIndex()
	idx.SetOwner("node-1", "/posts/one")

	resolver, err := manifest.NewResolver(idx)
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}

	res, err := resolver.Resolve(context.Background(), "node-1")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.FoundPageBy != pages.FoundPageByOwnerNodeID {
		t.Fatalf("unexpected tag: %q", res.FoundPageBy)
	}
	if res.Page == nil || res.Page.Path != "/posts/one" {
		t.Fatalf("unexpected page: %#v", res.Page)
	}
}

func TestNewResolverRequiresLookup(t *testing.T) {
	if _, err := manifest.NewResolver(nil); err == nil {
		t.Fatal("expected error for nil lookup")
	}
}
