package raster

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Encoder writes rasters as 8-bit truecolor, non-interlaced PNG files.
type Encoder struct {
	// Filter is applied to every row unless Adaptive is set.
	Filter Filter

	// Adaptive picks the filter per row with the smallest sum of absolute
	// filtered values.
	Adaptive bool

	// ChunkSize splits the compressed stream into IDAT chunks of at most this
	// many bytes. Zero writes a single IDAT chunk.
	ChunkSize int

	// Comment, if set, is written as a tEXt chunk ahead of the image data.
	Comment string
}

// Encode writes r to w using per-row adaptive filtering.
func Encode(w io.Writer, r *Raster) error {
	enc := &Encoder{Adaptive: true}
	return enc.Encode(w, r)
}

// Encode writes r to w.
func (e *Encoder) Encode(w io.Writer, r *Raster) error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: cannot encode %dx%d raster", ErrUnsupported, r.Width, r.Height)
	}
	if e.Filter > FilterPaeth {
		return fmt.Errorf("%w: filter type %d", ErrUnsupported, uint8(e.Filter))
	}

	var out bytes.Buffer
	out.WriteString(pngSignature)

	ihdr := make([]byte, ihdrLength)
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(r.Width))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(r.Height))
	copy(ihdr[8:], truecolorProfile[:])
	writeChunk(&out, "IHDR", ihdr)

	if e.Comment != "" {
		writeChunk(&out, "tEXt", append([]byte("Comment\x00"), e.Comment...))
	}

	data, err := e.compress(r)
	if err != nil {
		return err
	}
	size := e.ChunkSize
	if size <= 0 {
		size = len(data)
	}
	for len(data) > size {
		writeChunk(&out, "IDAT", data[:size])
		data = data[size:]
	}
	writeChunk(&out, "IDAT", data)
	writeChunk(&out, "IEND", nil)

	_, err = w.Write(out.Bytes())
	return err
}

func (e *Encoder) compress(r *Raster) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}

	n := stride(r.Width) - 1
	prev := make([]byte, n)
	cur := make([]byte, n)
	line := make([]byte, n+1)
	var trial [FilterPaeth + 1][]byte

	for y := 0; y < r.Height; y++ {
		for x, p := range r.Row(y) {
			cur[3*x], cur[3*x+1], cur[3*x+2] = p.R, p.G, p.B
		}

		if e.Adaptive {
			best, bestSum := FilterNone, -1
			for f := FilterNone; f <= FilterPaeth; f++ {
				if trial[f] == nil {
					trial[f] = make([]byte, n)
				}
				applyFilter(f, trial[f], cur, prev)
				if s := filteredSum(trial[f]); bestSum < 0 || s < bestSum {
					best, bestSum = f, s
				}
			}
			line[0] = byte(best)
			copy(line[1:], trial[best])
		} else {
			line[0] = byte(e.Filter)
			applyFilter(e.Filter, line[1:], cur, prev)
		}

		if _, err := zw.Write(line); err != nil {
			return nil, err
		}
		prev, cur = cur, prev
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// filteredSum treats each filtered byte as signed and sums magnitudes.
func filteredSum(b []byte) int {
	sum := 0
	for _, v := range b {
		sum += abs(int(int8(v)))
	}
	return sum
}

func writeChunk(w *bytes.Buffer, typ string, data []byte) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(len(data)))
	w.Write(tmp[:])

	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(data)
	w.WriteString(typ)
	w.Write(data)

	binary.BigEndian.PutUint32(tmp[:], crc.Sum32())
	w.Write(tmp[:])
}
