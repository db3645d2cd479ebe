// Package manifest implements the node-to-page manifest pipeline: resolving
// which page renders an enqueued node, warning about ambiguous mappings,
// persisting one JSON artifact per request, and clearing exactly the
// processed subset of the pending queue.
//
// Artifacts land at a stable location external tooling relies on:
//
//	<root>/.cache/node-manifests/<plugin>/<manifest id>.json
package manifest
