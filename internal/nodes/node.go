// Package nodes models the content node snapshots that flow through the
// manifest pipeline.
package nodes

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Node is a point-in-time snapshot of a content node. ID is required; Fields
// carries every other top-level property the producing plugin captured.
type Node struct {
	ID     string
	Fields map[string]any
}

// MarshalJSON flattens the snapshot so artifacts and queue rows store
// {"id": ..., <fields...>} rather than a nested fields object.
func (n Node) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(n.Fields)+1)
	for key, value := range n.Fields {
		if key == "id" {
			continue
		}
		out[key] = value
	}
	out["id"] = n.ID
	return json.Marshal(out)
}

// UnmarshalJSON reverses MarshalJSON: the "id" key populates ID, every other
// key lands in Fields.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode node snapshot: %w", err)
	}
	id, ok := raw["id"].(string)
	if !ok || id == "" {
		return errors.New("node snapshot missing string id")
	}
	delete(raw, "id")
	n.ID = id
	if len(raw) > 0 {
		n.Fields = raw
	} else {
		n.Fields = nil
	}
	return nil
}
