package raster

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 8, 7))
	img.SetNRGBA(5, 5, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(7, 6, color.NRGBA{0, 0, 255, 255})
	img.SetNRGBA(6, 5, color.NRGBA{200, 100, 50, 0})

	r := FromImage(img)
	if r.Width != 3 || r.Height != 2 {
		t.Fatalf("dimensions: got %dx%d, want 3x2", r.Width, r.Height)
	}
	if got := r.At(0, 0); got != (RGB{255, 0, 0}) {
		t.Errorf("(0,0): got %v, want (255,0,0)", got)
	}
	if got := r.At(2, 1); got != (RGB{0, 0, 255}) {
		t.Errorf("(2,1): got %v, want (0,0,255)", got)
	}
	if got := r.At(1, 0); got != (RGB{}) {
		t.Errorf("transparent pixel should composite to black, got %v", got)
	}
}

func TestToImage(t *testing.T) {
	r := patternRaster(4, 3)
	img := ToImage(r)

	if img.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Fatalf("bounds: got %v", img.Bounds())
	}
	if !FromImage(img).Equal(r) {
		t.Error("ToImage/FromImage changed pixels")
	}
}

func TestLoadCover(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			src.SetNRGBA(x, y, color.NRGBA{200, 10, 10, 255})
		}
	}
	path := filepath.Join(t.TempDir(), "cover.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if err := png.Encode(f, src); err != nil {
		f.Close()
		t.Fatalf("failed to encode cover: %v", err)
	}
	f.Close()

	r, err := LoadCover(path, 6, 6)
	if err != nil {
		t.Fatalf("LoadCover failed: %v", err)
	}
	if r.Width != 6 || r.Height != 6 {
		t.Fatalf("dimensions: got %dx%d, want 6x6", r.Width, r.Height)
	}
	if c := r.At(3, 3); c.R < 190 || c.G > 20 {
		t.Errorf("solid cover should stay red-ish, got %v", c)
	}
}

func TestLoadCover_Errors(t *testing.T) {
	if _, err := LoadCover("/nonexistent/cover.jpg", 4, 4); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadCover("/nonexistent/cover.jpg", 0, 4); err == nil {
		t.Error("expected error for zero width")
	}
}
