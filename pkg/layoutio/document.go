package layoutio

// Version is the current document version.
const Version = 1

// Node type tags.
const (
	TypeSplit = "split"
	TypePart  = "part"
)

// Document is the serialized form of a layout snapshot.
type Document struct {
	Version    int                   `json:"version" yaml:"version" cbor:"version"`
	Revision   uint64                `json:"revision,omitempty" yaml:"revision,omitempty" cbor:"revision,omitempty"`
	Main       *Node                 `json:"main,omitempty" yaml:"main,omitempty" cbor:"main,omitempty"`
	Maximized  string                `json:"maximized,omitempty" yaml:"maximized,omitempty" cbor:"maximized,omitempty"`
	Activities map[string]Activity   `json:"activities,omitempty" yaml:"activities,omitempty" cbor:"activities,omitempty"`
	Panels     map[string]PanelState `json:"panels,omitempty" yaml:"panels,omitempty" cbor:"panels,omitempty"`
}

// Node is a split or a part, discriminated by Type.
type Node struct {
	Type string `json:"type" yaml:"type" cbor:"type"`

	// split
	Direction string  `json:"direction,omitempty" yaml:"direction,omitempty" cbor:"direction,omitempty"`
	Ratio     float64 `json:"ratio,omitempty" yaml:"ratio,omitempty" cbor:"ratio,omitempty"`
	Child1    *Node   `json:"child1,omitempty" yaml:"child1,omitempty" cbor:"child1,omitempty"`
	Child2    *Node   `json:"child2,omitempty" yaml:"child2,omitempty" cbor:"child2,omitempty"`

	// part
	ID        string   `json:"id,omitempty" yaml:"id,omitempty" cbor:"id,omitempty"`
	Views     []string `json:"views,omitempty" yaml:"views,omitempty" cbor:"views,omitempty"`
	Active    string   `json:"active,omitempty" yaml:"active,omitempty" cbor:"active,omitempty"`
	Navigated bool     `json:"navigated,omitempty" yaml:"navigated,omitempty" cbor:"navigated,omitempty"`
	Title     string   `json:"title,omitempty" yaml:"title,omitempty" cbor:"title,omitempty"`
}

// Activity is a docked activity and its grid.
type Activity struct {
	Slot    string `json:"slot" yaml:"slot" cbor:"slot"`
	Order   int    `json:"order" yaml:"order" cbor:"order"`
	Icon    string `json:"icon,omitempty" yaml:"icon,omitempty" cbor:"icon,omitempty"`
	Label   string `json:"label,omitempty" yaml:"label,omitempty" cbor:"label,omitempty"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty" cbor:"title,omitempty"`
	Tooltip string `json:"tooltip,omitempty" yaml:"tooltip,omitempty" cbor:"tooltip,omitempty"`
	Part    string `json:"part" yaml:"part" cbor:"part"`
	Active  bool   `json:"active,omitempty" yaml:"active,omitempty" cbor:"active,omitempty"`

	// Materialized is true once content was added to the activity; Grid is
	// set exactly when it is.
	Materialized bool  `json:"materialized,omitempty" yaml:"materialized,omitempty" cbor:"materialized,omitempty"`
	Grid         *Node `json:"grid,omitempty" yaml:"grid,omitempty" cbor:"grid,omitempty"`
}

// PanelState is a resized panel. Zero fields fall back to defaults.
type PanelState struct {
	Size  float64 `json:"size,omitempty" yaml:"size,omitempty" cbor:"size,omitempty"`
	Ratio float64 `json:"ratio,omitempty" yaml:"ratio,omitempty" cbor:"ratio,omitempty"`
}
