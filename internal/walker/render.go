package walker

import (
	"fmt"
	"strings"

	"github.com/ironsheep/brainx/internal/raster"
	"github.com/ironsheep/brainx/internal/tape"
)

// MinLayoutWidth leaves room for the two turn columns and one command.
const MinLayoutWidth = 3

// Plan is a grid of actions ready to be painted.
type Plan struct {
	Width  int
	Height int
	Cells  []Action
}

// At returns the action planned for (x, y).
func (p *Plan) At(x, y int) Action {
	return p.Cells[y*p.Width+x]
}

func (p *Plan) set(x, y int, a Action) {
	p.Cells[y*p.Width+x] = a
}

// Layout places the Brainfuck commands of program on a serpentine path of the
// given width. Characters that are not commands are dropped, and so is
// everything from the first tape.Sentinel on: the input literal has no image
// form.
//
// Even rows run east and odd rows run west over columns 1..width-2. The outer
// columns carry the turns between rows: two clockwise turns on the right edge,
// two counter-clockwise turns on the left edge, so the heading never leaves
// East..West.
func Layout(program string, width int) (*Plan, error) {
	if width < MinLayoutWidth {
		return nil, fmt.Errorf("layout width %d is below minimum %d", width, MinLayoutWidth)
	}

	if i := strings.IndexByte(program, tape.Sentinel); i >= 0 {
		program = program[:i]
	}

	var cmds []byte
	for i := 0; i < len(program); i++ {
		if IsCommand(program[i]) {
			cmds = append(cmds, program[i])
		}
	}

	perRow := width - 2
	height := (len(cmds) + perRow - 1) / perRow
	if height == 0 {
		height = 1
	}

	p := &Plan{Width: width, Height: height, Cells: make([]Action, width*height)}
	for i, c := range cmds {
		row, col := i/perRow, i%perRow
		x := 1 + col
		if row%2 == 1 {
			x = width - 2 - col
		}
		p.set(x, row, Emit(c))
	}

	for row := 0; row < height-1; row++ {
		if row%2 == 0 {
			p.set(width-1, row, Rotate(+1))
			p.set(width-1, row+1, Rotate(+1))
		} else {
			p.set(0, row, Rotate(-1))
			p.set(0, row+1, Rotate(-1))
		}
	}
	return p, nil
}

// Render paints p with painter. cover supplies the base colors and must match
// the plan's size; nil paints over black.
func Render(p *Plan, painter Painter, cover *raster.Raster) (*raster.Raster, error) {
	if cover != nil && (cover.Width != p.Width || cover.Height != p.Height) {
		return nil, fmt.Errorf("cover is %dx%d, plan is %dx%d", cover.Width, cover.Height, p.Width, p.Height)
	}

	out := raster.New(p.Width, p.Height)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			var base raster.RGB
			if cover != nil {
				base = cover.At(x, y)
			}
			out.Set(x, y, painter.Paint(base, p.At(x, y)))
		}
	}
	return out, nil
}
