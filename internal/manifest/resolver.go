package manifest

import (
	"context"
	"errors"
	"fmt"

	"loom/internal/pages"
)

// Resolver finds the page owning a node by delegating to the injected
// ownership lookup. Tag validation is left to diagnostics so malformed tags
// fail there with full request context.
type Resolver struct {
	lookup pages.Lookup
}

// NewResolver wraps the ownership lookup.
func NewResolver(lookup pages.Lookup) (*Resolver, error) {
	if lookup == nil {
		return nil, errors.New("resolver requires an ownership lookup")
	}
	return &Resolver{lookup: lookup}, nil
}

// Resolve returns the page owning nodeID and the heuristic that found it.
func (r *Resolver) Resolve(ctx context.Context, nodeID string) (pages.Resolution, error) {
	res, err := r.lookup.FindPageOwnedByNodeID(ctx, nodeID)
	if err != nil {
		return pages.Resolution{}, fmt.Errorf("find page for node %q: %w", nodeID, err)
	}
	return res, nil
}
