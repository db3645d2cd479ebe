package queue

import (
	"time"

	"loom/internal/nodes"
)

// Request asks that a node be associated with the page rendering it. Requests
// are immutable once enqueued and are removed when a batch run clears them.
type Request struct {
	// ID is the store-assigned sequence number. Batch runs clear exactly
	// the IDs they snapshotted.
	ID         int64
	PluginName string
	ManifestID string
	Node       nodes.Node
	CreatedAt  time.Time
}
