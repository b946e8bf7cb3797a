package raster

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("brainx.raster")

const pngSignature = "\x89PNG\r\n\x1a\n"

// IHDR bytes 8..12: bit depth 8, color type 2 (truecolor), compression 0,
// filter method 0, interlace 0.
var truecolorProfile = [5]byte{8, 2, 0, 0, 0}

const (
	ihdrLength    = 13
	bytesPerPixel = 3

	// maxPixels bounds the raster size so stride arithmetic cannot overflow.
	maxPixels = 1 << 28
)

// ChunkInfo describes one chunk as it appears in the file.
type ChunkInfo struct {
	Type   string `json:"type"`
	Length int    `json:"length"`
	Offset int    `json:"offset"`
}

type chunk struct {
	ChunkInfo
	data []byte
}

type header struct {
	width, height int
}

// parsed is the result of walking the chunk stream.
type parsed struct {
	hdr    header
	idat   []byte
	chunks []ChunkInfo
}

// chunkReader walks a PNG byte buffer one chunk at a time.
type chunkReader struct {
	buf []byte
	off int
}

func (cr *chunkReader) next() (*chunk, error) {
	start := cr.off
	if len(cr.buf)-start < 8 {
		return nil, &ChunkError{Offset: start, Reason: "missing chunk header", Err: ErrTruncated}
	}
	length := binary.BigEndian.Uint32(cr.buf[start : start+4])
	typ := string(cr.buf[start+4 : start+8])

	remaining := uint64(len(cr.buf) - start - 8)
	if uint64(length)+4 > remaining {
		return nil, &ChunkError{Type: typ, Offset: start, Reason: fmt.Sprintf("declared length %d exceeds file", length), Err: ErrTruncated}
	}

	end := start + 8 + int(length)
	want := binary.BigEndian.Uint32(cr.buf[end : end+4])
	if got := crc32.ChecksumIEEE(cr.buf[start+4 : end]); got != want {
		return nil, &ChunkError{Type: typ, Offset: start, Reason: fmt.Sprintf("crc %08x, stored %08x", got, want), Err: ErrChunkCRC}
	}

	cr.off = end + 4
	return &chunk{
		ChunkInfo: ChunkInfo{Type: typ, Length: int(length), Offset: start},
		data:      cr.buf[start+8 : end],
	}, nil
}

// parse validates the signature and reads chunks up to and including IEND.
func parse(data []byte) (*parsed, error) {
	if len(data) < len(pngSignature) || string(data[:len(pngSignature)]) != pngSignature {
		return nil, ErrBadSignature
	}

	p := &parsed{}
	cr := &chunkReader{buf: data, off: len(pngSignature)}
	seenHeader := false
	seenData := false

	for {
		c, err := cr.next()
		if err != nil {
			return nil, err
		}
		p.chunks = append(p.chunks, c.ChunkInfo)
		log.Debugf("chunk %s length %d at offset %d", c.Type, c.Length, c.Offset)

		if c.Type != "IHDR" && !seenHeader {
			return nil, &ChunkError{Type: c.Type, Offset: c.Offset, Reason: "IHDR must be the first chunk", Err: ErrBadChunkOrder}
		}

		switch c.Type {
		case "IHDR":
			if seenHeader {
				return nil, &ChunkError{Type: c.Type, Offset: c.Offset, Reason: "duplicate IHDR", Err: ErrBadChunkOrder}
			}
			hdr, err := parseHeader(c)
			if err != nil {
				return nil, err
			}
			p.hdr = hdr
			seenHeader = true
		case "IDAT":
			p.idat = append(p.idat, c.data...)
			seenData = true
		case "IEND":
			if !seenData {
				return nil, &ChunkError{Type: c.Type, Offset: c.Offset, Reason: "no IDAT before IEND", Err: ErrTruncated}
			}
			return p, nil
		}
	}
}

func parseHeader(c *chunk) (header, error) {
	switch {
	case c.Length < ihdrLength:
		return header{}, &ChunkError{Type: c.Type, Offset: c.Offset, Reason: fmt.Sprintf("length %d, want %d", c.Length, ihdrLength), Err: ErrTruncated}
	case c.Length > ihdrLength:
		return header{}, &ChunkError{Type: c.Type, Offset: c.Offset, Reason: fmt.Sprintf("length %d, want %d", c.Length, ihdrLength), Err: ErrBadChunkOrder}
	}

	if !bytes.Equal(c.data[8:13], truecolorProfile[:]) {
		return header{}, &ChunkError{
			Type:   c.Type,
			Offset: c.Offset,
			Reason: fmt.Sprintf("bit depth %d, color type %d, compression %d, filter %d, interlace %d",
				c.data[8], c.data[9], c.data[10], c.data[11], c.data[12]),
			Err: ErrUnsupported,
		}
	}

	w := binary.BigEndian.Uint32(c.data[0:4])
	h := binary.BigEndian.Uint32(c.data[4:8])
	if w == 0 || h == 0 {
		return header{}, &ChunkError{Type: c.Type, Offset: c.Offset, Reason: "zero dimension", Err: ErrUnsupported}
	}
	if uint64(w)*uint64(h) > maxPixels {
		return header{}, &ChunkError{Type: c.Type, Offset: c.Offset, Reason: fmt.Sprintf("%dx%d is too large", w, h), Err: ErrUnsupported}
	}
	return header{width: int(w), height: int(h)}, nil
}

// Decode parses a complete PNG file held in memory.
//
// Returns:
//   - *Raster: the reconstructed pixels, Height rows of Width pixels.
//   - error: wraps one of ErrBadSignature, ErrBadChunkOrder, ErrChunkCRC,
//     ErrUnsupported, ErrTruncated or ErrDecompress.
func Decode(data []byte) (*Raster, error) {
	p, err := parse(data)
	if err != nil {
		return nil, err
	}

	pix, err := inflate(p.idat, p.hdr)
	if err != nil {
		return nil, err
	}

	r, err := reconstruct(pix, p.hdr)
	if err != nil {
		return nil, err
	}
	log.Debugf("decoded %s from %d chunks", r, len(p.chunks))
	return r, nil
}

// Describe lists the chunks of a PNG file without inflating its pixel data.
func Describe(data []byte) (width, height int, chunks []ChunkInfo, err error) {
	p, err := parse(data)
	if err != nil {
		return 0, 0, nil, err
	}
	return p.hdr.width, p.hdr.height, p.chunks, nil
}

func inflate(idat []byte, hdr header) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(idat))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompress, err)
	}
	defer zr.Close()

	// Bytes past the last scanline are never inflated.
	need := hdr.height * stride(hdr.width)
	out, err := io.ReadAll(io.LimitReader(zr, int64(need)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompress, err)
	}
	if len(out) < need {
		return nil, fmt.Errorf("%w: %d bytes of pixel data, need %d", ErrTruncated, len(out), need)
	}
	return out, nil
}

// stride is the length of one filtered scanline including its filter byte.
func stride(width int) int {
	return 1 + bytesPerPixel*width
}

func reconstruct(pix []byte, hdr header) (*Raster, error) {
	r := New(hdr.width, hdr.height)
	n := stride(hdr.width)
	prev := make([]byte, n-1)

	for y := 0; y < hdr.height; y++ {
		line := pix[y*n : (y+1)*n]
		cur := line[1:]
		if err := unfilter(Filter(line[0]), cur, prev); err != nil {
			return nil, fmt.Errorf("row %d: %w", y, err)
		}
		row := r.Row(y)
		for x := range row {
			row[x] = RGB{R: cur[3*x], G: cur[3*x+1], B: cur[3*x+2]}
		}
		prev = cur
	}
	return r, nil
}
