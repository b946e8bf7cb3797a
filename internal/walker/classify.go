package walker

import "github.com/ironsheep/brainx/internal/raster"

// tableColors is the Brainloller palette.
var tableColors = []struct {
	hex    string
	action Action
}{
	{"#ff0000", Emit('>')},
	{"#800000", Emit('<')},
	{"#00ff00", Emit('+')},
	{"#008000", Emit('-')},
	{"#0000ff", Emit('.')},
	{"#000080", Emit(',')},
	{"#ffff00", Emit('[')},
	{"#808000", Emit(']')},
	{"#00ffff", Rotate(+1)},
	{"#008080", Rotate(-1)},
}

var (
	tableActions = make(map[raster.RGB]Action, len(tableColors))
	tablePaint   = make(map[Action]raster.RGB, len(tableColors))
)

func init() {
	for _, tc := range tableColors {
		c := raster.MustParseHex(tc.hex)
		tableActions[c] = tc.action
		tablePaint[tc.action] = c
	}
}

// ColorTable classifies pixels by exact match against ten fixed colors.
type ColorTable struct{}

// Classify returns the action for c, NoOp for any color outside the table.
func (ColorTable) Classify(c raster.RGB) Action {
	return tableActions[c]
}

// Paint returns the table color for a. For NoOp the base color is kept unless
// it is itself a table color, in which case black is used.
func (t ColorTable) Paint(base raster.RGB, a Action) raster.RGB {
	if a.Kind == NoOp {
		if t.Classify(base).Kind == NoOp {
			return base
		}
		return raster.RGB{}
	}
	return tablePaint[a]
}

// hashModulus is the number of distinct ColorHash codes.
const hashModulus = 11

// Codes 8, 9 and 10 follow the eight commands.
const (
	codeTurnRight = 8
	codeTurnLeft  = 9
	codeNoOp      = 10
)

// ColorHash classifies pixels by (65536*R + 256*G + B) mod 11.
type ColorHash struct{}

// Code returns the hash code of c, 0 through 10.
func (ColorHash) Code(c raster.RGB) int {
	return (65536*int(c.R) + 256*int(c.G) + int(c.B)) % hashModulus
}

// Classify maps codes 0-7 to the commands "><+-.,[]", 8 to a clockwise turn,
// 9 to a counter-clockwise turn and 10 to NoOp.
func (h ColorHash) Classify(c raster.RGB) Action {
	code := h.Code(c)
	switch {
	case code < len(Commands):
		return Emit(Commands[code])
	case code == codeTurnRight:
		return Rotate(+1)
	case code == codeTurnLeft:
		return Rotate(-1)
	default:
		return Action{}
	}
}

// codeFor is the inverse of Classify.
func (ColorHash) codeFor(a Action) int {
	switch a.Kind {
	case Command:
		for i := 0; i < len(Commands); i++ {
			if Commands[i] == a.Command {
				return i
			}
		}
	case Turn:
		if a.Turn > 0 {
			return codeTurnRight
		}
		return codeTurnLeft
	}
	return codeNoOp
}

// Paint nudges the blue channel of base by the smallest amount that gives
// the code for a. Red and green are never touched, so a cover picture stays
// recognisable.
func (h ColorHash) Paint(base raster.RGB, a Action) raster.RGB {
	want := h.codeFor(a)
	up := (want - h.Code(base) + hashModulus) % hashModulus
	if up == 0 {
		return base
	}
	down := hashModulus - up

	b := int(base.B)
	switch {
	case b+up <= 255 && (up <= down || b-down < 0):
		base.B = uint8(b + up)
	default:
		base.B = uint8(b - down)
	}
	return base
}
