package manifest

import (
	"fmt"

	"loom/internal/pages"
	"loom/internal/queue"
	"loom/internal/report"
)

// Category classifies a resolution outcome.
type Category string

const (
	// CategorySuccess covers unambiguous mappings. No warning is emitted.
	CategorySuccess Category = "success"
	// CategoryWarning covers absent or heuristic mappings. Exactly one
	// warning is emitted per diagnosis.
	CategoryWarning Category = "warning"
)

const successMessage = "success"

// Diagnosis is the outcome of classifying one resolution. Messages holds the
// full enumerated message table the classification drew from, keyed by tag,
// so callers can verify wording without re-deriving it.
type Diagnosis struct {
	Message  string
	Category Category
	Messages map[pages.FoundPageBy]string
}

// Diagnostics classifies resolution outcomes and emits mapping warnings.
type Diagnostics struct {
	reporter report.Reporter
}

// NewDiagnostics wires the diagnostics to the reporting sink.
func NewDiagnostics(reporter report.Reporter) *Diagnostics {
	return &Diagnostics{reporter: reporter}
}

// Diagnose classifies how the page for req's node was found. Warning
// categories emit exactly one warning whose text equals the returned message;
// success categories emit nothing. A tag outside the enumerated set returns
// ErrUnreachableState before anything is emitted.
func (d *Diagnostics) Diagnose(req *queue.Request, foundPageBy pages.FoundPageBy, pagePath string) (Diagnosis, error) {
	if !pages.Known(foundPageBy) {
		return Diagnosis{}, fmt.Errorf(
			"%w: foundPageBy %q for manifest %q from plugin %q",
			ErrUnreachableState, foundPageBy, req.ManifestID, req.PluginName,
		)
	}

	messages := messageTable(req, pagePath)
	category := CategorySuccess
	message := messages[foundPageBy]

	switch foundPageBy {
	case pages.FoundPageByNone, pages.FoundPageByContextID, pages.FoundPageByQueryTracking:
		category = CategoryWarning
		message = d.reporter.Warn(message)
	}

	return Diagnosis{
		Message:  message,
		Category: category,
		Messages: messages,
	}, nil
}

func messageTable(req *queue.Request, pagePath string) map[pages.FoundPageBy]string {
	return map[pages.FoundPageBy]string{
		pages.FoundPageByNone: fmt.Sprintf(
			"plugin %q created a node manifest with the id %q for node %q, but Loom couldn't find a page for this node",
			req.PluginName, req.ManifestID, req.Node.ID,
		),
		pages.FoundPageByContextID: fmt.Sprintf(
			"plugin %q created a node manifest with the id %q for node %q. The page at %q was chosen because its context.id matches the node id. Context-id matching is positional and ambiguous; create the page with an ownerNodeId to map it explicitly",
			req.PluginName, req.ManifestID, req.Node.ID, pagePath,
		),
		pages.FoundPageByQueryTracking: fmt.Sprintf(
			"plugin %q created a node manifest with the id %q for node %q. The page at %q was chosen because it was the first page to query this node. Query-order mapping depends on build timing; create the page with an ownerNodeId to map it explicitly",
			req.PluginName, req.ManifestID, req.Node.ID, pagePath,
		),
		pages.FoundPageByFilesystemRouteAPI: successMessage,
		pages.FoundPageByOwnerNodeID:        successMessage,
	}
}
