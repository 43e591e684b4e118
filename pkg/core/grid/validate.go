package grid

import (
	"github.com/matzehuels/dockgrid/pkg/errors"
)

// Validate checks the structural invariants of the tree: every split has two
// children and a ratio in (0,1), part and view ids are unique, and each
// active view is one of its part's views.
//
// The ids seen are recorded in parts and views so callers can extend the
// uniqueness check across several trees. Either map may be nil.
func (t Tree) Validate(parts, views map[string]string) error {
	if parts == nil {
		parts = make(map[string]string)
	}
	if views == nil {
		views = make(map[string]string)
	}
	return validateNode(t.Root, parts, views)
}

func validateNode(n Node, parts, views map[string]string) error {
	switch n := n.(type) {
	case nil:
		return nil
	case *Split:
		if n.First == nil || n.Second == nil {
			return errors.Structural("split must have exactly two children")
		}
		if err := errors.ValidateRatio(n.Ratio); err != nil {
			return err
		}
		if err := validateNode(n.First, parts, views); err != nil {
			return err
		}
		return validateNode(n.Second, parts, views)
	case *Part:
		if _, dup := parts[n.ID]; dup {
			return errors.DuplicateID("part", n.ID)
		}
		parts[n.ID] = n.ID
		for _, v := range n.Views {
			if owner, dup := views[v]; dup {
				return errors.Structural("view %q appears in parts %q and %q", v, owner, n.ID)
			}
			views[v] = n.ID
		}
		if n.Active != "" && !n.HasView(n.Active) {
			return errors.Structural("active view %q is not in part %q", n.Active, n.ID)
		}
		return nil
	}
	return errors.New(errors.ErrCodeInternal, "unknown node type %T", n)
}
