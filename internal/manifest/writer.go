package manifest

import (
	"fmt"
	"path/filepath"

	"loom/internal/config"
	"loom/internal/nodes"
	"loom/internal/sitefs"
)

// manifestDirName is the fixed directory under the cache root that external
// tooling reads artifacts from.
const manifestDirName = "node-manifests"

// PageInfo is the page half of a persisted artifact. Path is empty when no
// page renders the node.
type PageInfo struct {
	Path string `json:"path"`
}

// Artifact is the JSON payload persisted per manifest request.
type Artifact struct {
	Page        PageInfo   `json:"page"`
	Node        nodes.Node `json:"node"`
	FoundPageBy string     `json:"foundPageBy"`
}

// ArtifactPath returns the deterministic artifact location:
// <root>/<cacheDirName>/node-manifests/<pluginName>/<manifestID>.json.
func ArtifactPath(root, cacheDirName, pluginName, manifestID string) string {
	return filepath.Join(root, cacheDirName, manifestDirName, pluginName, manifestID+".json")
}

// Writer persists resolved manifests under the plugin-scoped cache directory.
type Writer struct {
	root         string
	cacheDirName string
}

// NewWriter derives the artifact root from the site configuration.
func NewWriter(cfg *config.Config) *Writer {
	return &Writer{
		root:         cfg.Paths.RootDir,
		cacheDirName: cfg.Paths.CacheDirName,
	}
}

// Write creates or overwrites exactly one artifact file, creating the
// plugin-scoped directory first if needed.
func (w *Writer) Write(pluginName, manifestID string, artifact Artifact) error {
	dir := filepath.Join(w.root, w.cacheDirName, manifestDirName, pluginName)
	if err := sitefs.EnsureDir(dir); err != nil {
		return fmt.Errorf("%w: %w", ErrArtifactWrite, err)
	}

	path := filepath.Join(dir, manifestID+".json")
	if err := sitefs.WriteJSON(path, artifact); err != nil {
		return fmt.Errorf("%w: %w", ErrArtifactWrite, err)
	}
	return nil
}
