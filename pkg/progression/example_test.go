package progression_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/progression/pkg/dag"
	"github.com/matzehuels/progression/pkg/progression"
	"github.com/matzehuels/progression/pkg/strategy"
)

func ExampleGenerate() {
	g := dag.New()
	basics := g.MustUnit("Basics", "#..#")
	mirrors := g.MustUnit("Mirrors", "#./#", basics)
	splitters := g.MustUnit("Splitters", "#.+#", basics)
	optics := g.MustChoice(mirrors, splitters)
	finale := g.MustUnit("Finale", "#/+#", optics, basics)

	res, err := progression.Generate(g, finale, progression.Params{
		Choice: strategy.All,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(strings.Join(res.Names(g), " -> "))
	fmt.Println("basics used", res.Usages.Count(basics), "times")
	// Output:
	// Basics -> Mirrors -> Splitters -> Finale
	// basics used 3 times
}

func ExampleFlatten() {
	g := dag.New()
	x := g.MustUnit("X", "x")
	y := g.MustUnit("Y", "y")
	z := g.MustUnit("Z", "z")
	inner := g.MustChoice(x, y)
	outer := g.MustChoice(inner, z)

	leaves, _ := progression.Flatten(g, nil, outer, strategy.Reverse)
	for _, id := range leaves {
		fmt.Print(g.MustNode(id).Name, " ")
	}
	fmt.Println()
	// Output:
	// Z X Y
}
