package raster

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"
)

// FromImage converts any decoded image into a Raster. Translucent pixels are
// composited onto black, since a program raster has no alpha channel.
func FromImage(img image.Image) *Raster {
	rgba := clone.AsRGBA(img)
	b := rgba.Bounds()
	r := New(b.Dx(), b.Dy())

	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			i := rgba.PixOffset(b.Min.X+x, b.Min.Y+y)
			// RGBA is alpha-premultiplied, which is exactly compositing onto black.
			r.Set(x, y, RGB{R: rgba.Pix[i], G: rgba.Pix[i+1], B: rgba.Pix[i+2]})
		}
	}
	return r
}

// ToImage returns r as a standard library image.
func ToImage(r *Raster) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			img.SetNRGBA(x, y, r.At(x, y).NRGBA())
		}
	}
	return img
}

// LoadCover opens an image in any format the imaging package understands and
// scales and crops it to exactly width x height, keeping the center.
func LoadCover(path string, width, height int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid cover size %dx%d", width, height)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cover image: %w", err)
	}

	fitted := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)
	return FromImage(fitted), nil
}
