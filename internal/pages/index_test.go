package pages_test

import (
	"context"
	"path/filepath"
	"testing"

	"loom/internal/pages"
)

func TestFindPageAppliesPrecedence(t *testing.T) {
	idx := pages.NewOwnershipIndex()
	idx.TrackQuery("node-1", "/queried")
	idx.AddPageWithContextID("node-1", "/by-context")
	idx.AddRouteAPIPage("node-1", "/by-route")
	idx.SetOwner("node-1", "/by-owner")

	cases := []struct {
		name     string
		nodeID   string
		prepare  func(*pages.OwnershipIndex)
		wantPath string
		wantTag  pages.FoundPageBy
	}{
		{
			name:     "owner wins over everything",
			nodeID:   "node-1",
			wantPath: "/by-owner",
			wantTag:  pages.FoundPageByOwnerNodeID,
		},
		{
			name:   "route api beats context and queries",
			nodeID: "node-2",
			prepare: func(idx *pages.OwnershipIndex) {
				idx.TrackQuery("node-2", "/queried")
				idx.AddPageWithContextID("node-2", "/by-context")
				idx.AddRouteAPIPage("node-2", "/by-route")
			},
			wantPath: "/by-route",
			wantTag:  pages.FoundPageByFilesystemRouteAPI,
		},
		{
			name:   "context id beats queries",
			nodeID: "node-3",
			prepare: func(idx *pages.OwnershipIndex) {
				idx.TrackQuery("node-3", "/queried")
				idx.AddPageWithContextID("node-3", "/by-context")
			},
			wantPath: "/by-context",
			wantTag:  pages.FoundPageByContextID,
		},
		{
			name:   "first query wins when nothing else matches",
			nodeID: "node-4",
			prepare: func(idx *pages.OwnershipIndex) {
				idx.TrackQuery("node-4", "/first")
				idx.TrackQuery("node-4", "/second")
			},
			wantPath: "/first",
			wantTag:  pages.FoundPageByQueryTracking,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.prepare != nil {
				tc.prepare(idx)
			}
			res, err := idx.FindPageOwnedByNodeID(context.Background(), tc.nodeID)
			if err != nil {
				t.Fatalf("FindPageOwnedByNodeID failed: %v", err)
			}
			if res.FoundPageBy != tc.wantTag {
				t.Fatalf("expected tag %q, got %q", tc.wantTag, res.FoundPageBy)
			}
			if res.Page == nil || res.Page.Path != tc.wantPath {
				t.Fatalf("expected page %q, got %#v", tc.wantPath, res.Page)
			}
		})
	}
}

func TestFindPageReturnsNoneForUnknownNode(t *testing.T) {
	idx := pages.NewOwnershipIndex()
	res, err := idx.FindPageOwnedByNodeID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("FindPageOwnedByNodeID failed: %v", err)
	}
	if res.FoundPageBy != pages.FoundPageByNone {
		t.Fatalf("expected none, got %q", res.FoundPageBy)
	}
	if res.Page != nil {
		t.Fatalf("expected nil page, got %#v", res.Page)
	}
}

func TestKnownRejectsUnenumeratedTags(t *testing.T) {
	for _, tag := range []pages.FoundPageBy{
		pages.FoundPageByNone,
		pages.FoundPageByContextID,
		pages.FoundPageByQueryTracking,
		pages.FoundPageByFilesystemRouteAPI,
		pages.FoundPageByOwnerNodeID,
	} {
		if !pages.Known(tag) {
			t.Fatalf("expected %q to be known", tag)
		}
	}
	if pages.Known("ownerNodeID") {
		t.Fatal("tag matching is case sensitive; ownerNodeID must be unknown")
	}
	if pages.Known("") {
		t.Fatal("empty tag must be unknown")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	idx := pages.NewOwnershipIndex()
	idx.SetOwner("node-1", "/posts/one")
	idx.TrackQuery("node-2", "/listing")

	path := filepath.Join(t.TempDir(), "state", "page-ownership.json")
	if err := idx.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := pages.LoadIndex(path)
	if err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}
	res, err := loaded.FindPageOwnedByNodeID(context.Background(), "node-1")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if res.FoundPageBy != pages.FoundPageByOwnerNodeID || res.Page.Path != "/posts/one" {
		t.Fatalf("unexpected resolution after reload: %#v", res)
	}
}

func TestLoadIndexMissingFileYieldsEmptyIndex(t *testing.T) {
	idx, err := pages.LoadIndex(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}
	res, err := idx.FindPageOwnedByNodeID(context.Background(), "anything")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if res.FoundPageBy != pages.FoundPageByNone {
		t.Fatalf("expected none from empty index, got %q", res.FoundPageBy)
	}
}
