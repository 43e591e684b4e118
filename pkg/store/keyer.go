package store

// DefaultWorkspace names the workspace used when none is given.
const DefaultWorkspace = "default"

// Keyer builds store keys.
type Keyer interface {
	// LayoutKey returns the key of a workspace's layout.
	LayoutKey(workspace string) string
}

// DefaultKeyer produces keys of the form "layout:<workspace>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<workspace>", using DefaultWorkspace for an
// empty name.
func (DefaultKeyer) LayoutKey(workspace string) string {
	if workspace == "" {
		workspace = DefaultWorkspace
	}
	return "layout:" + workspace
}

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// Different users of one shared backend get separate key namespaces.
//
// Example usage:
//
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:abc123:")
//	userKeyer.LayoutKey("default") // "user:abc123:layout:default"
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(workspace string) string {
	return k.prefix + k.inner.LayoutKey(workspace)
}
