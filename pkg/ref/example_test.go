package ref_test

import (
	"fmt"

	"github.com/matzehuels/umlstack/pkg/ref"
)

type thing struct{ ref.Count }

func Example() {
	t := &thing{}
	t.OnZero(func() { fmt.Println("destroyed") })

	a := ref.New(t)
	b := a.Clone()
	fmt.Println("refs:", t.Refs())

	a.Release()
	fmt.Println("refs:", t.Refs())
	b.Release()
	// Output:
	// refs: 2
	// refs: 1
	// destroyed
}
