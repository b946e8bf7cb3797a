package raster

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// Hex formats c as "#rrggbb".
func (c RGB) Hex() string {
	return c.colorful().Hex()
}

// NRGBA returns c as an opaque standard library color.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

func (c RGB) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.R, c.G, c.B)
}

// ParseHex parses "#rrggbb" into an RGB value.
func ParseHex(s string) (RGB, error) {
	col, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := col.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// MustParseHex is ParseHex for package-level color tables.
func MustParseHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ColorCount is one entry of a raster's color histogram.
type ColorCount struct {
	Color      RGB     `json:"rgb"`
	Hex        string  `json:"hex"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"` // 0-100
}

// Histogram returns the n most frequent exact colors in r, most common first.
// Ties are ordered by hex value so the result is deterministic. n <= 0 returns
// every color.
//
// Unlike a palette extractor, colors are not quantized: in a program image
// two colors one unit apart can mean different instructions.
func Histogram(r *Raster, n int) []ColorCount {
	counts := make(map[RGB]int)
	for _, p := range r.Pix {
		counts[p]++
	}

	total := float64(len(r.Pix))
	colors := make([]ColorCount, 0, len(counts))
	for c, cnt := range counts {
		colors = append(colors, ColorCount{
			Color:      c,
			Hex:        c.Hex(),
			Count:      cnt,
			Percentage: float64(cnt) / total * 100,
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Count != colors[j].Count {
			return colors[i].Count > colors[j].Count
		}
		return colors[i].Hex < colors[j].Hex
	})

	if n > 0 && len(colors) > n {
		colors = colors[:n]
	}
	return colors
}
