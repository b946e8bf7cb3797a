package raster

import "fmt"

// Filter is a PNG scanline filter type.
type Filter uint8

const (
	FilterNone Filter = iota
	FilterSub
	FilterUp
	FilterAverage
	FilterPaeth
)

var filterNames = [...]string{"None", "Sub", "Up", "Average", "Paeth"}

func (f Filter) String() string {
	if int(f) < len(filterNames) {
		return filterNames[f]
	}
	return fmt.Sprintf("Filter(%d)", uint8(f))
}

// unfilter reverses filter f on cur in place. prev is the previous
// reconstructed row, all zeros for the first row.
//
// a, b and c name the left, above and upper-left bytes of the same channel.
func unfilter(f Filter, cur, prev []byte) error {
	switch f {
	case FilterNone:
	case FilterSub:
		for i := bytesPerPixel; i < len(cur); i++ {
			cur[i] += cur[i-bytesPerPixel]
		}
	case FilterUp:
		for i, b := range prev {
			cur[i] += b
		}
	case FilterAverage:
		for i := 0; i < bytesPerPixel; i++ {
			cur[i] += prev[i] / 2
		}
		for i := bytesPerPixel; i < len(cur); i++ {
			cur[i] += uint8((int(cur[i-bytesPerPixel]) + int(prev[i])) / 2)
		}
	case FilterPaeth:
		for i := 0; i < bytesPerPixel; i++ {
			cur[i] += paeth(0, prev[i], 0)
		}
		for i := bytesPerPixel; i < len(cur); i++ {
			cur[i] += paeth(cur[i-bytesPerPixel], prev[i], prev[i-bytesPerPixel])
		}
	default:
		return fmt.Errorf("%w: filter type %d", ErrUnsupported, uint8(f))
	}
	return nil
}

// applyFilter writes the f-filtered form of cur into dst. prev is the previous
// raw row, all zeros for the first row.
func applyFilter(f Filter, dst, cur, prev []byte) {
	for i := range cur {
		var a, c byte
		if i >= bytesPerPixel {
			a = cur[i-bytesPerPixel]
			c = prev[i-bytesPerPixel]
		}
		b := prev[i]

		switch f {
		case FilterNone:
			dst[i] = cur[i]
		case FilterSub:
			dst[i] = cur[i] - a
		case FilterUp:
			dst[i] = cur[i] - b
		case FilterAverage:
			dst[i] = cur[i] - uint8((int(a)+int(b))/2)
		case FilterPaeth:
			dst[i] = cur[i] - paeth(a, b, c)
		}
	}
}

// paeth picks whichever of left, above or upper-left is closest to
// left+above-upperLeft, preferring left, then above, on ties.
func paeth(a, b, c uint8) uint8 {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))

	if pa <= pb && pa <= pc {
		return a
	} else if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
