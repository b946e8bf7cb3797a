package raster

import "fmt"

// RGB is a single 8-bit truecolor pixel.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Raster is a decoded image: exactly Height rows of exactly Width pixels.
type Raster struct {
	Width  int
	Height int
	Pix    []RGB
}

// New allocates a black raster of the given size.
func New(width, height int) *Raster {
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]RGB, width*height),
	}
}

// At returns the pixel at (x, y). It panics if the coordinates are out of range;
// callers are expected to check InBounds first.
func (r *Raster) At(x, y int) RGB {
	return r.Pix[y*r.Width+x]
}

// Set stores c at (x, y).
func (r *Raster) Set(x, y int, c RGB) {
	r.Pix[y*r.Width+x] = c
}

// InBounds reports whether (x, y) addresses a pixel of r.
func (r *Raster) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.Width && y < r.Height
}

// Row returns the pixels of row y. The slice aliases r.Pix.
func (r *Raster) Row(y int) []RGB {
	return r.Pix[y*r.Width : (y+1)*r.Width]
}

// Clone returns a copy of r that shares no pixel storage with it.
func (r *Raster) Clone() *Raster {
	c := New(r.Width, r.Height)
	copy(c.Pix, r.Pix)
	return c
}

// Equal reports whether r and o have the same size and pixels.
func (r *Raster) Equal(o *Raster) bool {
	if r.Width != o.Width || r.Height != o.Height || len(r.Pix) != len(o.Pix) {
		return false
	}
	for i := range r.Pix {
		if r.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

func (r *Raster) String() string {
	return fmt.Sprintf("raster %dx%d", r.Width, r.Height)
}

// Size returns the raster's width and height.
func (r *Raster) Size() (width, height int) {
	return r.Width, r.Height
}
