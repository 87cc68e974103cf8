// Package frame defines one timestep of a simulation as it travels over the frame stream.
package frame

// Frame is the decoded payload for a single frame number. Its contents are opaque to playback.
type Frame struct {
	Number int   `json:"frame" jsonschema:"minimum=0"`
	State  State `json:"state"`
}

// State is the full simulation state at one timestep.
type State struct {
	Graph   Graph          `json:"graph"`
	Globals map[string]any `json:"globalComponents,omitempty"`
}

// Graph is the twin topology with per-item component data.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edge"`
}

// Node is a located vertex of the twin graph.
type Node struct {
	ID         uint64         `json:"id"`
	Longitude  float64        `json:"longitude"`
	Latitude   float64        `json:"latitude"`
	Components map[string]any `json:"components,omitempty"`
}

// Edge connects two nodes and carries a single component.
type Edge struct {
	ID            uint64 `json:"id"`
	From          uint64 `json:"from"`
	To            uint64 `json:"to"`
	ComponentType string `json:"componentType"`
	ComponentData any    `json:"componentData,omitempty"`
}

// Summary is a compact human-readable description used by headless output.
func (f Frame) Summary() Summary {
	return Summary{
		Number:  f.Number,
		Nodes:   len(f.State.Graph.Nodes),
		Edges:   len(f.State.Graph.Edges),
		Globals: len(f.State.Globals),
	}
}

// Summary counts the items of a frame.
type Summary struct {
	Number  int `json:"frame"`
	Nodes   int `json:"nodes"`
	Edges   int `json:"edges"`
	Globals int `json:"globals"`
}
