package manifest_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"loom/internal/manifest"
	"loom/internal/nodes"
	"loom/internal/testsupport"
)

func TestArtifactPathIsDeterministic(t *testing.T) {
	got := manifest.ArtifactPath("/srv/site", ".cache", "test", "2")
	want := filepath.Join("/srv/site", ".cache", "node-manifests", "test", "2.json")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWriteHonorsConfiguredCacheDirName(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCacheDirName("build-cache"))
	writer := manifest.NewWriter(cfg)

	if err := writer.Write("blog", "m-1", manifest.Artifact{Node: nodes.Node{ID: "n"}}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	path := filepath.Join(cfg.Paths.RootDir, "build-cache", "node-manifests", "blog", "m-1.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("artifact missing under configured cache dir: %v", err)
	}
}

func TestWritePersistsArtifactAtStablePath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	writer := manifest.NewWriter(cfg)

	artifact := manifest.Artifact{
		Page:        manifest.PageInfo{Path: "/posts/two"},
		Node:        nodes.Node{ID: "node-2", Fields: map[string]any{"title": "Two"}},
		FoundPageBy: "ownerNodeId",
	}
	if err := writer.Write("test", "2", artifact); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	path := manifest.ArtifactPath(cfg.Paths.RootDir, cfg.Paths.CacheDirName, "test", "2")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("artifact missing at %s: %v", path, err)
	}

	var decoded struct {
		Page struct {
			Path string `json:"path"`
		} `json:"page"`
		Node        map[string]any `json:"node"`
		FoundPageBy string         `json:"foundPageBy"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("artifact is not JSON: %v", err)
	}
	if decoded.Page.Path != "/posts/two" {
		t.Fatalf("unexpected page path: %q", decoded.Page.Path)
	}
	if decoded.Node["id"] != "node-2" || decoded.Node["title"] != "Two" {
		t.Fatalf("unexpected node snapshot: %#v", decoded.Node)
	}
	if decoded.FoundPageBy != "ownerNodeId" {
		t.Fatalf("unexpected foundPageBy: %q", decoded.FoundPageBy)
	}
}

func TestWriteOverwritesExistingArtifact(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	writer := manifest.NewWriter(cfg)

	first := manifest.Artifact{Page: manifest.PageInfo{Path: "/old"}, Node: nodes.Node{ID: "n"}}
	second := manifest.Artifact{Page: manifest.PageInfo{Path: "/new"}, Node: nodes.Node{ID: "n"}}
	if err := writer.Write("blog", "m-1", first); err != nil {
		t.Fatalf("first Write failed: %v", err)
	}
	if err := writer.Write("blog", "m-1", second); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	path := manifest.ArtifactPath(cfg.Paths.RootDir, cfg.Paths.CacheDirName, "blog", "m-1")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	var decoded manifest.Artifact
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode artifact: %v", err)
	}
	if decoded.Page.Path != "/new" {
		t.Fatalf("expected overwrite, got page path %q", decoded.Page.Path)
	}
}

func TestWriteReportsArtifactWriteError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	writer := manifest.NewWriter(cfg)

	// Block the plugin directory with a regular file.
	blocked := filepath.Join(cfg.Paths.RootDir, cfg.Paths.CacheDirName, "node-manifests")
	if err := os.MkdirAll(filepath.Dir(blocked), 0o755); err != nil {
		t.Fatalf("prepare cache root: %v", err)
	}
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	err := writer.Write("blog", "m-1", manifest.Artifact{Node: nodes.Node{ID: "n"}})
	if err == nil {
		t.Fatal("expected write error")
	}
	if !errors.Is(err, manifest.ErrArtifactWrite) {
		t.Fatalf("expected ErrArtifactWrite, got %v", err)
	}
}
