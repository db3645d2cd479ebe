package pages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"loom/internal/sitefs"
)

// OwnershipIndex is the in-process ownership registry a site build maintains
// while creating pages and running queries. Lookups apply a fixed precedence:
// ownerNodeId, then filesystem-route-api, then context.id, then the first
// page that queried the node, then none. Safe for concurrent use.
type OwnershipIndex struct {
	mu         sync.RWMutex
	owners     map[string]string
	routePages map[string]string
	contextIDs map[string]string
	queries    map[string]string
}

// NewOwnershipIndex returns an empty index.
func NewOwnershipIndex() *OwnershipIndex {
	return &OwnershipIndex{
		owners:     make(map[string]string),
		routePages: make(map[string]string),
		contextIDs: make(map[string]string),
		queries:    make(map[string]string),
	}
}

// SetOwner records the authoritative node to page mapping declared when a
// page is created with an owner node id.
func (x *OwnershipIndex) SetOwner(nodeID, pagePath string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.owners[nodeID] = pagePath
}

// AddRouteAPIPage records a page created for the node by a filesystem route.
func (x *OwnershipIndex) AddRouteAPIPage(nodeID, pagePath string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.routePages[nodeID] = pagePath
}

// AddPageWithContextID records a page whose context id equals the node id.
func (x *OwnershipIndex) AddPageWithContextID(nodeID, pagePath string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.contextIDs[nodeID] = pagePath
}

// TrackQuery records that pagePath queried the node. Only the first page to
// query a node is retained.
func (x *OwnershipIndex) TrackQuery(nodeID, pagePath string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, seen := x.queries[nodeID]; !seen {
		x.queries[nodeID] = pagePath
	}
}

// FindPageOwnedByNodeID implements Lookup.
func (x *OwnershipIndex) FindPageOwnedByNodeID(_ context.Context, nodeID string) (Resolution, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if path, ok := x.owners[nodeID]; ok {
		return Resolution{Page: &Page{Path: path}, FoundPageBy: FoundPageByOwnerNodeID}, nil
	}
	if path, ok := x.routePages[nodeID]; ok {
		return Resolution{Page: &Page{Path: path}, FoundPageBy: FoundPageByFilesystemRouteAPI}, nil
	}
	if path, ok := x.contextIDs[nodeID]; ok {
		return Resolution{Page: &Page{Path: path}, FoundPageBy: FoundPageByContextID}, nil
	}
	if path, ok := x.queries[nodeID]; ok {
		return Resolution{Page: &Page{Path: path}, FoundPageBy: FoundPageByQueryTracking}, nil
	}
	return Resolution{FoundPageBy: FoundPageByNone}, nil
}

type indexSnapshot struct {
	Owners     map[string]string `json:"owners,omitempty"`
	RoutePages map[string]string `json:"routePages,omitempty"`
	ContextIDs map[string]string `json:"contextIds,omitempty"`
	Queries    map[string]string `json:"queries,omitempty"`
}

// Save persists the index so a later process (for example the manifest
// batch run) can resolve ownership without replaying the build.
func (x *OwnershipIndex) Save(path string) error {
	x.mu.RLock()
	snap := indexSnapshot{
		Owners:     cloneMap(x.owners),
		RoutePages: cloneMap(x.routePages),
		ContextIDs: cloneMap(x.contextIDs),
		Queries:    cloneMap(x.queries),
	}
	x.mu.RUnlock()

	if err := sitefs.WriteJSON(path, snap); err != nil {
		return fmt.Errorf("save ownership index: %w", err)
	}
	return nil
}

// LoadIndex reads a saved index. A missing file yields an empty index so
// callers degrade to none resolutions rather than failing the batch.
func LoadIndex(path string) (*OwnershipIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewOwnershipIndex(), nil
		}
		return nil, fmt.Errorf("read ownership index: %w", err)
	}

	var snap indexSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode ownership index: %w", err)
	}

	idx := NewOwnershipIndex()
	for nodeID, pagePath := range snap.Owners {
		idx.owners[nodeID] = pagePath
	}
	for nodeID, pagePath := range snap.RoutePages {
		idx.routePages[nodeID] = pagePath
	}
	for nodeID, pagePath := range snap.ContextIDs {
		idx.contextIDs[nodeID] = pagePath
	}
	for nodeID, pagePath := range snap.Queries {
		idx.queries[nodeID] = pagePath
	}
	return idx, nil
}

func cloneMap(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
