package raster

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"image"
	"image/png"
	"runtime"
	"testing"
)

// patternRaster builds a deterministic raster whose neighbouring pixels differ,
// so every filter type produces non-trivial scanlines.
func patternRaster(width, height int) *Raster {
	r := New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r.Set(x, y, RGB{
				R: uint8(x*37 + y*11),
				G: uint8(x*x*5 + y*73),
				B: uint8((x ^ y) * 29),
			})
		}
	}
	return r
}

func encodeRaster(t *testing.T, r *Raster, enc *Encoder) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := enc.Encode(&buf, r); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return buf.Bytes()
}

// rawChunk assembles a chunk with a correct CRC.
func rawChunk(typ string, data []byte) []byte {
	var buf bytes.Buffer
	writeChunk(&buf, typ, data)
	return buf.Bytes()
}

func ihdrPayload(width, height uint32, profile [5]byte) []byte {
	p := make([]byte, 13)
	binary.BigEndian.PutUint32(p[0:4], width)
	binary.BigEndian.PutUint32(p[4:8], height)
	copy(p[8:], profile[:])
	return p
}

// compressScanlines deflates already-filtered scanlines with the standard
// library, independently of this package's encoder.
func compressScanlines(t *testing.T, scanlines []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(scanlines); err != nil {
		t.Fatalf("zlib write failed: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib close failed: %v", err)
	}
	return buf.Bytes()
}

func assemble(chunks ...[]byte) []byte {
	out := []byte(pngSignature)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

func TestDecode_RoundTripEachFilter(t *testing.T) {
	want := patternRaster(13, 9)

	for f := FilterNone; f <= FilterPaeth; f++ {
		t.Run(f.String(), func(t *testing.T) {
			data := encodeRaster(t, want, &Encoder{Filter: f})

			got, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if got.Width != want.Width || got.Height != want.Height {
				t.Fatalf("dimensions: got %dx%d, want %dx%d", got.Width, got.Height, want.Width, want.Height)
			}
			if !got.Equal(want) {
				t.Error("decoded pixels differ from source")
			}
		})
	}
}

func TestDecode_AdaptiveMultiIDAT(t *testing.T) {
	want := patternRaster(40, 30)
	data := encodeRaster(t, want, &Encoder{Adaptive: true, ChunkSize: 64, Comment: "hello"})

	_, _, chunks, err := Describe(data)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	idats := 0
	for _, c := range chunks {
		if c.Type == "IDAT" {
			idats++
		}
	}
	if idats < 2 {
		t.Fatalf("expected data split over several IDAT chunks, got %d", idats)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !got.Equal(want) {
		t.Error("decoded pixels differ from source")
	}
}

func TestDecode_StandardLibraryEncoded(t *testing.T) {
	src := patternRaster(17, 11)
	var buf bytes.Buffer
	if err := png.Encode(&buf, ToImage(src)); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}

	got, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !got.Equal(src) {
		t.Error("pixels differ from image/png output")
	}
}

func TestEncode_ReadableByStandardLibrary(t *testing.T) {
	src := patternRaster(8, 5)
	data := encodeRaster(t, src, &Encoder{Filter: FilterPaeth})

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 8, 5) {
		t.Fatalf("bounds: got %v", img.Bounds())
	}
	if !FromImage(img).Equal(src) {
		t.Error("image/png decoded different pixels")
	}
}

func TestDecode_HandFilteredRows(t *testing.T) {
	// 2x2 image; row 0 uses Sub, row 1 uses Average.
	scanlines := []byte{
		1, 10, 20, 30, 5, 5, 5,
		3, 2, 2, 2, 100, 100, 100,
	}
	data := assemble(
		rawChunk("IHDR", ihdrPayload(2, 2, truecolorProfile)),
		rawChunk("IDAT", compressScanlines(t, scanlines)),
		rawChunk("IEND", nil),
	)

	r, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	want := []RGB{
		{10, 20, 30}, {15, 25, 35},
		// (0,1): above/2 = (5,10,15); (1,1): (left+above)/2 per channel.
		{7, 12, 17}, {100 + 11, 100 + 18, 100 + 26},
	}
	for i, w := range want {
		if r.Pix[i] != w {
			t.Errorf("pixel %d: got %v, want %v", i, r.Pix[i], w)
		}
	}
}

func TestDecode_AverageUsesFullSum(t *testing.T) {
	// left+above exceeds 255 at (1,1), where an 8-bit sum would wrap.
	scanlines := []byte{
		0, 200, 200, 200, 250, 250, 250,
		3, 0, 0, 0, 7, 7, 7,
	}
	data := assemble(
		rawChunk("IHDR", ihdrPayload(2, 2, truecolorProfile)),
		rawChunk("IDAT", compressScanlines(t, scanlines)),
		rawChunk("IEND", nil),
	)

	r, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	// (0,1) = 0 + 200/2 = 100; (1,1) = 7 + (100+250)/2 = 182.
	want := []RGB{{200, 200, 200}, {250, 250, 250}, {100, 100, 100}, {182, 182, 182}}
	for i, w := range want {
		if r.Pix[i] != w {
			t.Errorf("pixel %d: got %v, want %v", i, r.Pix[i], w)
		}
	}

	std, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}
	if !FromImage(std).Equal(r) {
		t.Error("pixels differ from image/png")
	}
}

func TestDecode_UpOnFirstRowUsesZero(t *testing.T) {
	scanlines := []byte{2, 1, 2, 3}
	data := assemble(
		rawChunk("IHDR", ihdrPayload(1, 1, truecolorProfile)),
		rawChunk("IDAT", compressScanlines(t, scanlines)),
		rawChunk("IEND", nil),
	)

	r, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got := r.At(0, 0); got != (RGB{1, 2, 3}) {
		t.Errorf("got %v, want (1,2,3)", got)
	}
}

func TestDecode_BadSignature(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short", []byte("\x89PNG")},
		{"wrong magic", []byte("GIF89a\x00\x00\x00\x00\x00\x00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errors.Is(err, ErrBadSignature) {
				t.Errorf("got %v, want ErrBadSignature", err)
			}
		})
	}
}

func TestDecode_FlippedPayloadByte(t *testing.T) {
	data := encodeRaster(t, patternRaster(6, 4), &Encoder{Filter: FilterSub, Comment: "x"})
	_, _, chunks, err := Describe(data)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}

	for _, c := range chunks {
		if c.Length == 0 {
			continue
		}
		t.Run(c.Type, func(t *testing.T) {
			corrupt := append([]byte(nil), data...)
			corrupt[c.Offset+8+c.Length/2] ^= 0x40

			_, err := Decode(corrupt)
			if !errors.Is(err, ErrChunkCRC) {
				t.Fatalf("got %v, want ErrChunkCRC", err)
			}
			var ce *ChunkError
			if !errors.As(err, &ce) || ce.Type != c.Type {
				t.Errorf("error should name chunk %s: %v", c.Type, err)
			}
		})
	}
}

func TestDecode_ChunkOrder(t *testing.T) {
	ihdr := rawChunk("IHDR", ihdrPayload(1, 1, truecolorProfile))
	idat := rawChunk("IDAT", compressScanlines(t, []byte{0, 1, 2, 3}))
	iend := rawChunk("IEND", nil)

	tests := []struct {
		name string
		data []byte
	}{
		{"IDAT before IHDR", assemble(idat, ihdr, iend)},
		{"ancillary before IHDR", assemble(rawChunk("tEXt", []byte("a\x00b")), ihdr, idat, iend)},
		{"duplicate IHDR", assemble(ihdr, ihdr, idat, iend)},
		{"oversized IHDR", assemble(rawChunk("IHDR", append(ihdrPayload(1, 1, truecolorProfile), 0)), idat, iend)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errors.Is(err, ErrBadChunkOrder) {
				t.Errorf("got %v, want ErrBadChunkOrder", err)
			}
		})
	}
}

func TestDecode_UnsupportedProfile(t *testing.T) {
	idat := rawChunk("IDAT", compressScanlines(t, []byte{0, 1, 2, 3}))
	iend := rawChunk("IEND", nil)

	tests := []struct {
		name    string
		w, h    uint32
		profile [5]byte
	}{
		{"rgba", 1, 1, [5]byte{8, 6, 0, 0, 0}},
		{"16-bit", 1, 1, [5]byte{16, 2, 0, 0, 0}},
		{"palette", 1, 1, [5]byte{8, 3, 0, 0, 0}},
		{"interlaced", 1, 1, [5]byte{8, 2, 0, 0, 1}},
		{"compression method", 1, 1, [5]byte{8, 2, 1, 0, 0}},
		{"zero width", 0, 1, truecolorProfile},
		{"huge", 1 << 20, 1 << 20, truecolorProfile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := assemble(rawChunk("IHDR", ihdrPayload(tt.w, tt.h, tt.profile)), idat, iend)
			_, err := Decode(data)
			if !errors.Is(err, ErrUnsupported) {
				t.Errorf("got %v, want ErrUnsupported", err)
			}
		})
	}
}

func TestDecode_BadFilterType(t *testing.T) {
	data := assemble(
		rawChunk("IHDR", ihdrPayload(1, 1, truecolorProfile)),
		rawChunk("IDAT", compressScanlines(t, []byte{5, 1, 2, 3})),
		rawChunk("IEND", nil),
	)
	if _, err := Decode(data); !errors.Is(err, ErrUnsupported) {
		t.Errorf("got %v, want ErrUnsupported", err)
	}
}

func TestDecode_Truncated(t *testing.T) {
	data := encodeRaster(t, patternRaster(5, 5), &Encoder{Filter: FilterUp})

	for cut := len(pngSignature); cut < len(data); cut++ {
		_, err := Decode(data[:cut])
		if !errors.Is(err, ErrTruncated) {
			t.Fatalf("cut at %d: got %v, want ErrTruncated", cut, err)
		}
	}
}

func TestDecode_ShortPixelData(t *testing.T) {
	// Header promises two rows, stream holds one.
	data := assemble(
		rawChunk("IHDR", ihdrPayload(1, 2, truecolorProfile)),
		rawChunk("IDAT", compressScanlines(t, []byte{0, 1, 2, 3})),
		rawChunk("IEND", nil),
	)
	if _, err := Decode(data); !errors.Is(err, ErrTruncated) {
		t.Errorf("got %v, want ErrTruncated", err)
	}
}

func TestDecode_MissingIDAT(t *testing.T) {
	data := assemble(
		rawChunk("IHDR", ihdrPayload(1, 1, truecolorProfile)),
		rawChunk("IEND", nil),
	)
	if _, err := Decode(data); !errors.Is(err, ErrTruncated) {
		t.Errorf("got %v, want ErrTruncated", err)
	}
}

func TestDecode_DecompressionFailure(t *testing.T) {
	data := assemble(
		rawChunk("IHDR", ihdrPayload(1, 1, truecolorProfile)),
		rawChunk("IDAT", []byte("definitely not zlib")),
		rawChunk("IEND", nil),
	)
	if _, err := Decode(data); !errors.Is(err, ErrDecompress) {
		t.Errorf("got %v, want ErrDecompress", err)
	}
}

func TestDecode_StopsInflatingAtLastScanline(t *testing.T) {
	// One 1x1 scanline followed by a stream that never finishes: the zlib
	// trailer is cut off, so reading to the end would fail.
	scanlines := append([]byte{0, 1, 2, 3}, make([]byte, 1<<16)...)
	z := compressScanlines(t, scanlines)
	z = z[:len(z)-4]

	data := assemble(
		rawChunk("IHDR", ihdrPayload(1, 1, truecolorProfile)),
		rawChunk("IDAT", z),
		rawChunk("IEND", nil),
	)
	r, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got := r.At(0, 0); got != (RGB{1, 2, 3}) {
		t.Errorf("got %v, want (1,2,3)", got)
	}
}

func TestDecode_OversizedStreamBoundedAllocation(t *testing.T) {
	const excess = 64 << 20
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestSpeed)
	if err != nil {
		t.Fatalf("zlib writer failed: %v", err)
	}
	if _, err := zw.Write([]byte{0, 9, 9, 9}); err != nil {
		t.Fatalf("zlib write failed: %v", err)
	}
	zeros := make([]byte, 1<<20)
	for i := 0; i < excess/len(zeros); i++ {
		if _, err := zw.Write(zeros); err != nil {
			t.Fatalf("zlib write failed: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib close failed: %v", err)
	}

	data := assemble(
		rawChunk("IHDR", ihdrPayload(1, 1, truecolorProfile)),
		rawChunk("IDAT", buf.Bytes()),
		rawChunk("IEND", nil),
	)

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	r, err := Decode(data)
	runtime.ReadMemStats(&after)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got := r.At(0, 0); got != (RGB{9, 9, 9}) {
		t.Errorf("got %v, want (9,9,9)", got)
	}
	if alloc := after.TotalAlloc - before.TotalAlloc; alloc > 8<<20 {
		t.Errorf("Decode allocated %d bytes for a 1x1 image", alloc)
	}
}

func TestDecode_IgnoresChunksAfterIEND(t *testing.T) {
	data := encodeRaster(t, patternRaster(2, 2), &Encoder{})
	data = append(data, rawChunk("zzZZ", []byte{1, 2, 3})...)

	if _, err := Decode(data); err != nil {
		t.Errorf("Decode failed: %v", err)
	}
}

func TestDescribe(t *testing.T) {
	data := encodeRaster(t, patternRaster(3, 2), &Encoder{Comment: "note"})

	w, h, chunks, err := Describe(data)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if w != 3 || h != 2 {
		t.Errorf("dimensions: got %dx%d, want 3x2", w, h)
	}

	wantTypes := []string{"IHDR", "tEXt", "IDAT", "IEND"}
	if len(chunks) != len(wantTypes) {
		t.Fatalf("got %d chunks, want %d", len(chunks), len(wantTypes))
	}
	for i, c := range chunks {
		if c.Type != wantTypes[i] {
			t.Errorf("chunk %d: got %s, want %s", i, c.Type, wantTypes[i])
		}
	}
	if chunks[0].Offset != len(pngSignature) || chunks[0].Length != 13 {
		t.Errorf("IHDR info: got %+v", chunks[0])
	}
}
