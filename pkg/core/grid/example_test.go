package grid_test

import (
	"fmt"

	"github.com/matzehuels/dockgrid/pkg/core/geom"
	"github.com/matzehuels/dockgrid/pkg/core/grid"
)

func ExampleTree_AddPart() {
	// explorer | editor, then split the editor with a terminal below it
	t := grid.Single(&grid.Part{ID: "explorer"})
	t, _ = t.AddPart(&grid.Part{ID: "editor"}, "explorer", grid.AlignRight, 0.75)
	t, _ = t.AddPart(&grid.Part{ID: "terminal"}, "editor", grid.AlignBottom, 0.5)

	t.Walk(func(n grid.Node, depth int) bool {
		switch n := n.(type) {
		case *grid.Split:
			fmt.Printf("%*s%s %.2f\n", depth*2, "", n.Direction, n.Ratio)
		case *grid.Part:
			fmt.Printf("%*s%s\n", depth*2, "", n.ID)
		}
		return true
	})
	// Output:
	// row 0.25
	//   explorer
	//   column 0.50
	//     editor
	//     terminal
}

func ExampleTree_RemovePart() {
	// Removing a part promotes its sibling into the parent's place
	t := grid.Single(&grid.Part{ID: "a"})
	t, _ = t.AddPart(&grid.Part{ID: "b"}, "a", grid.AlignRight, 0.5)
	t, _ = t.RemovePart("a")

	fmt.Println("Parts:", t.Len())
	_, isPart := t.Root.(*grid.Part)
	fmt.Println("Root is part:", isPart)
	// Output:
	// Parts: 1
	// Root is part: true
}

func ExampleBounds() {
	t := grid.Single(&grid.Part{ID: "explorer"})
	t, _ = t.AddPart(&grid.Part{ID: "editor"}, "explorer", grid.AlignRight, 0.75)

	b := grid.Bounds(t, geom.Rect{Width: 1000, Height: 600})
	fmt.Println("explorer:", b["explorer"])
	fmt.Println("editor:", b["editor"])
	// Output:
	// explorer: {0 0 250 600}
	// editor: {250 0 750 600}
}
