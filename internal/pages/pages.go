// Package pages models page ownership for content nodes: which page renders
// a node, and which heuristic made that association.
package pages

import "context"

// Page identifies a rendered page by its public path.
type Page struct {
	Path string `json:"path"`
}

// FoundPageBy tags the heuristic that located the page owning a node. The
// set is closed; producers handing in any other value are defective.
type FoundPageBy string

const (
	// FoundPageByNone means no page renders the node.
	FoundPageByNone FoundPageBy = "none"
	// FoundPageByContextID means the page was matched by its positional
	// context id. Ambiguous when several pages share one context id.
	FoundPageByContextID FoundPageBy = "context.id"
	// FoundPageByQueryTracking means the page was the first to query the
	// node during the build. Ordering-dependent and therefore ambiguous.
	FoundPageByQueryTracking FoundPageBy = "queryTracking"
	// FoundPageByFilesystemRouteAPI means a filesystem route created the
	// page for this node.
	FoundPageByFilesystemRouteAPI FoundPageBy = "filesystem-route-api"
	// FoundPageByOwnerNodeID means the page declared the node as its owner.
	// This is the authoritative mapping mechanism.
	FoundPageByOwnerNodeID FoundPageBy = "ownerNodeId"
)

var knownFoundPageBy = map[FoundPageBy]struct{}{
	FoundPageByNone:               {},
	FoundPageByContextID:          {},
	FoundPageByQueryTracking:      {},
	FoundPageByFilesystemRouteAPI: {},
	FoundPageByOwnerNodeID:        {},
}

// Known reports whether tag belongs to the enumerated FoundPageBy set.
func Known(tag FoundPageBy) bool {
	_, ok := knownFoundPageBy[tag]
	return ok
}

// Resolution is the outcome of an ownership lookup. Page is nil when
// FoundPageBy is FoundPageByNone.
type Resolution struct {
	Page        *Page
	FoundPageBy FoundPageBy
}

// Lookup locates the page owning a node id. Implementations must tag every
// result with one of the enumerated FoundPageBy values; anything else is a
// contract violation callers treat as fatal.
type Lookup interface {
	FindPageOwnedByNodeID(ctx context.Context, nodeID string) (Resolution, error)
}
