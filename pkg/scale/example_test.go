package scale_test

import (
	"fmt"

	"github.com/matzehuels/popchart/pkg/scale"
)

func ExampleInnerExtents() {
	w, h, err := scale.InnerExtents(scale.Surface{
		Width: 900, Height: 600,
		Margins: scale.Margins{Top: 70, Right: 20, Bottom: 50, Left: 250},
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(w, h)
	// Output: 630 480
}

func ExampleNewBand() {
	b, err := scale.NewBand([]string{"China", "India"}, 480, 0.3)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	start, _ := b.Start("India")
	fmt.Printf("bandwidth=%.0f india=%.0f\n", b.Bandwidth(), start)
	// Output: bandwidth=168 india=276
}

func ExampleFormatTick() {
	for _, v := range []float64{0, 2e8, 1.2e9} {
		fmt.Println(scale.FormatTick(v))
	}
	// Output:
	// 0.0
	// 200M
	// 1.2B
}
