// Package styles maps transaction fee rates to colours.
//
// Fee rates are bucketed into [FeeLevels], the sat/vB steps used by mempool
// explorers, and each bucket has one colour per [Theme]. Rates below the
// first level share its colour; rates above the last share the last colour.
package styles

import (
	"fmt"
	"math"
	"sort"
)

// FeeLevels are the lower bounds, in sat/vB, of the colour buckets.
var FeeLevels = []float64{
	1, 2, 3, 4, 5, 6, 8, 10, 12, 15, 20, 30, 40, 50, 60, 70, 80, 90, 100,
	125, 150, 175, 200, 250, 300, 350, 400, 500, 600, 700, 800, 900, 1000,
	1200, 1400, 1600, 1800, 2000,
}

// Theme is a named colour scheme.
type Theme struct {
	Name       string
	Background string
	Stroke     string
	// Colors holds one "#rrggbb" entry per fee level.
	Colors []string
}

// Level returns the index of the bucket rate falls into.
func Level(rate float64) int {
	i := sort.Search(len(FeeLevels), func(i int) bool { return FeeLevels[i] > rate })
	return max(0, i-1)
}

// Color returns the colour for rate.
func (t Theme) Color(rate float64) string {
	return t.Colors[min(Level(rate), len(t.Colors)-1)]
}

// Mempool fades from green for cheap transactions through amber to magenta
// for the most urgent ones.
var Mempool = Theme{
	Name:       "mempool",
	Background: "#11131f",
	Stroke:     "#1d2031",
	Colors:     gradient(len(FeeLevels), [3]int{0x55, 0x7d, 0x00}, [3]int{0xbf, 0x7d, 0x12}, [3]int{0xae, 0x00, 0x5b}),
}

// Mono is a greyscale theme for print.
var Mono = Theme{
	Name:       "mono",
	Background: "#ffffff",
	Stroke:     "#ffffff",
	Colors:     gradient(len(FeeLevels), [3]int{0xd9, 0xd9, 0xd9}, [3]int{0x80, 0x80, 0x80}, [3]int{0x1a, 0x1a, 0x1a}),
}

// Themes lists the themes selectable by name.
var Themes = map[string]Theme{
	Mempool.Name: Mempool,
	Mono.Name:    Mono,
}

// gradient interpolates n colours linearly from start through mid to end.
func gradient(n int, start, mid, end [3]int) []string {
	out := make([]string, n)
	half := (n - 1) / 2
	for i := range out {
		from, to, t := start, mid, float64(i)/float64(half)
		if i > half {
			from, to, t = mid, end, float64(i-half)/float64(n-1-half)
		}
		var c [3]int
		for k := range c {
			c[k] = from[k] + int(math.Round(float64(to[k]-from[k])*t))
		}
		out[i] = fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
	}
	return out
}
