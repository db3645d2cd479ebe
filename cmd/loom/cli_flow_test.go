package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"loom/internal/config"
	"loom/internal/manifest"
)

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func setupCLIConfig(t *testing.T) (string, config.Config) {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.RootDir = base
	cfg.Paths.StateDir = filepath.Join(base, ".cache", "loom")
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "error"
	configPath := filepath.Join(base, "loom.toml")
	writeTestConfig(t, configPath, &cfg)
	return configPath, cfg
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestManifestsAddPendingProcessFlow(t *testing.T) {
	configPath, cfg := setupCLIConfig(t)

	out, _, err := runCLI(t, configPath, "manifests", "add",
		"--plugin", "blog",
		"--node-id", "node-1",
		"--manifest-id", "post-1",
		"--field", "title=Hello")
	if err != nil {
		t.Fatalf("manifests add: %v", err)
	}
	requireContains(t, out, "Queued manifest post-1 for plugin blog")

	out, _, err = runCLI(t, configPath, "manifests", "pending", "--json")
	if err != nil {
		t.Fatalf("manifests pending: %v", err)
	}
	var views []pendingView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode pending output: %v\n%s", err, out)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 pending request, got %d", len(views))
	}
	if views[0].ManifestID != "post-1" || views[0].NodeID != "node-1" {
		t.Fatalf("unexpected pending view: %+v", views[0])
	}

	if _, _, err := runCLI(t, configPath, "manifests", "process"); err != nil {
		t.Fatalf("manifests process: %v", err)
	}

	artifact := manifest.ArtifactPath(cfg.Paths.RootDir, cfg.Paths.CacheDirName, "blog", "post-1")
	payload, err := os.ReadFile(artifact)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	var parsed struct {
		Node struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"node"`
		FoundPageBy string `json:"foundPageBy"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("decode artifact: %v", err)
	}
	if parsed.Node.ID != "node-1" || parsed.Node.Title != "Hello" {
		t.Fatalf("unexpected artifact node: %+v", parsed.Node)
	}
	if parsed.FoundPageBy != "none" {
		t.Fatalf("expected foundPageBy none, got %q", parsed.FoundPageBy)
	}

	out, _, err = runCLI(t, configPath, "manifests", "pending")
	if err != nil {
		t.Fatalf("manifests pending after process: %v", err)
	}
	requireContains(t, out, "No pending manifests")
}

func TestPagesMapFeedsManifestProcessing(t *testing.T) {
	configPath, cfg := setupCLIConfig(t)

	out, _, err := runCLI(t, configPath, "pages", "map",
		"--node-id", "node-1",
		"--page", "/posts/one")
	if err != nil {
		t.Fatalf("pages map: %v", err)
	}
	requireContains(t, out, "Mapped node node-1 to page /posts/one")

	_, _, err = runCLI(t, configPath, "manifests", "add",
		"--plugin", "blog",
		"--node-id", "node-1",
		"--manifest-id", "post-1")
	if err != nil {
		t.Fatalf("manifests add: %v", err)
	}
	if _, _, err := runCLI(t, configPath, "manifests", "process"); err != nil {
		t.Fatalf("manifests process: %v", err)
	}

	payload, err := os.ReadFile(manifest.ArtifactPath(cfg.Paths.RootDir, cfg.Paths.CacheDirName, "blog", "post-1"))
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	var parsed struct {
		Page struct {
			Path string `json:"path"`
		} `json:"page"`
		FoundPageBy string `json:"foundPageBy"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("decode artifact: %v", err)
	}
	if parsed.Page.Path != "/posts/one" {
		t.Fatalf("expected mapped page path, got %q", parsed.Page.Path)
	}
	if parsed.FoundPageBy != "ownerNodeId" {
		t.Fatalf("expected foundPageBy ownerNodeId, got %q", parsed.FoundPageBy)
	}
}

func TestPagesMapRejectsUnknownMechanism(t *testing.T) {
	configPath, _ := setupCLIConfig(t)

	_, _, err := runCLI(t, configPath, "pages", "map",
		"--node-id", "node-1",
		"--page", "/posts/one",
		"--via", "guesswork")
	if err == nil {
		t.Fatal("expected error for unknown --via value")
	}
}

func TestManifestsPendingTableOutput(t *testing.T) {
	configPath, _ := setupCLIConfig(t)

	for i := 0; i < 2; i++ {
		_, _, err := runCLI(t, configPath, "manifests", "add",
			"--plugin", "docs",
			"--node-id", fmt.Sprintf("node-%d", i),
			"--manifest-id", fmt.Sprintf("doc-%d", i))
		if err != nil {
			t.Fatalf("manifests add: %v", err)
		}
	}

	out, _, err := runCLI(t, configPath, "manifests", "pending")
	if err != nil {
		t.Fatalf("manifests pending: %v", err)
	}
	requireContains(t, out, "doc-0")
	requireContains(t, out, "doc-1")
	requireContains(t, out, "docs")
}

func TestConfigInitShowValidate(t *testing.T) {
	configPath, _ := setupCLIConfig(t)

	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	out, _, err := runCLI(t, configPath, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, configPath, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists without --overwrite")
	}
	if _, _, err := runCLI(t, configPath, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, configPath, "config", "validate", "--path", configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	out, _, err = runCLI(t, configPath, "config", "show", "--path", configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "Cache root")
}
