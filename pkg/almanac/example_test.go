package almanac_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/almanac/pkg/almanac"
)

func ExampleStage_Apply() {
	s := almanac.Stage{
		From:    "seed",
		To:      "soil",
		Entries: []almanac.Entry{{Destination: 50, Source: 98, Length: 2}, {Destination: 52, Source: 50, Length: 48}},
	}
	fmt.Println(s.Apply(98), s.Apply(99), s.Apply(53), s.Apply(10))
	// Output: 50 51 55 10
}

func ExampleMinLocation() {
	a, err := almanac.ParseString(`seeds: 3 9
seed-to-soil map:
100 0 5
soil-to-location map:
1 100 4
`)
	if err != nil {
		fmt.Println(err)
		return
	}
	// 3 -> 103 -> 4, 9 -> 9 -> 9
	loc, err := almanac.MinLocation(context.Background(), a)
	fmt.Println(loc, err)
	// Output: 4 <nil>
}

func ExampleChain_Categories() {
	a, _ := almanac.ParseString(`seeds: 1
water-to-location map:
seed-to-water map:
`)
	c, err := a.Chain()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(c.Categories())
	// Output: [seed water location]
}
