package walker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/brainx/internal/raster"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("brainx.walker")

var (
	ErrEmptyGrid = errors.New("walker: image has no pixels")
	ErrStepLimit = errors.New("walker: step limit exceeded")
)

// Direction is the instruction pointer's heading. Only East through North
// move the pointer; see the package documentation for other values.
type Direction int

const (
	East  Direction = 1
	South Direction = 2
	West  Direction = 3
	North Direction = 4
)

func (d Direction) String() string {
	switch d {
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	case North:
		return "north"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Moves reports whether d is one of the four headings that move the pointer.
func (d Direction) Moves() bool {
	return d >= East && d <= North
}

// State is the instruction pointer: a position and a heading.
type State struct {
	X   int       `json:"x"`
	Y   int       `json:"y"`
	Dir Direction `json:"dir"`
}

// Start is the state every walk begins in.
var Start = State{X: 0, Y: 0, Dir: East}

// Step returns the state after one move in s's heading. It returns false when
// the move would leave a width x height grid, without moving. A heading that
// does not move leaves the state unchanged.
func Step(s State, width, height int) (State, bool) {
	switch s.Dir {
	case East:
		if s.X == width-1 {
			return s, false
		}
		s.X++
	case South:
		if s.Y == height-1 {
			return s, false
		}
		s.Y++
	case West:
		if s.X == 0 {
			return s, false
		}
		s.X--
	case North:
		if s.Y == 0 {
			return s, false
		}
		s.Y--
	}
	return s, true
}

// Grid is the pixel source a walk reads. *raster.Raster satisfies it.
type Grid interface {
	Size() (width, height int)
	At(x, y int) raster.RGB
}

// Visit records one step of a traced walk.
type Visit struct {
	State
	Color  string `json:"color"`
	Action Action `json:"action"`
}

// Result is the outcome of a walk.
type Result struct {
	// Program is the collected command string.
	Program string `json:"program"`

	// Steps is the number of pixels classified, revisits included.
	Steps int `json:"steps"`

	// Frozen is set when the walk ended because the heading left East..North.
	Frozen bool `json:"frozen"`

	// Final is the instruction pointer when the walk ended.
	Final State `json:"final"`

	// Trace holds every step when the walker was asked to record it.
	Trace []Visit `json:"trace,omitempty"`
}

// Walker drives the instruction pointer over a grid.
type Walker struct {
	Classifier Classifier

	// MaxSteps aborts the walk with ErrStepLimit after this many steps.
	// Zero means no limit.
	MaxSteps int

	// Trace records every step in Result.Trace.
	Trace bool
}

// New returns a walker using c.
func New(c Classifier) *Walker {
	return &Walker{Classifier: c}
}

// Walk runs the instruction pointer over g from the top-left pixel.
func (w *Walker) Walk(g Grid) (*Result, error) {
	width, height := g.Size()
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyGrid
	}

	var program strings.Builder
	res := &Result{}
	s := Start

	for {
		if w.MaxSteps > 0 && res.Steps >= w.MaxSteps {
			return nil, fmt.Errorf("%w: %d steps at (%d,%d)", ErrStepLimit, res.Steps, s.X, s.Y)
		}
		res.Steps++

		px := g.At(s.X, s.Y)
		a := w.Classifier.Classify(px)
		switch a.Kind {
		case Command:
			program.WriteByte(a.Command)
		case Turn:
			s.Dir += Direction(a.Turn)
		}
		if w.Trace {
			res.Trace = append(res.Trace, Visit{State: s, Color: px.Hex(), Action: a})
		}

		if !s.Dir.Moves() {
			// Stuck on this pixel for good: it keeps turning the same way and
			// no further command can be collected.
			log.Warningf("heading %d at (%d,%d) cannot move, ending walk", int(s.Dir), s.X, s.Y)
			res.Frozen = true
			break
		}

		next, ok := Step(s, width, height)
		if !ok {
			break
		}
		s = next
	}

	res.Program = program.String()
	res.Final = s
	log.Debugf("walk ended at (%d,%d) heading %s after %d steps, %d commands",
		s.X, s.Y, s.Dir, res.Steps, len(res.Program))
	return res, nil
}

// Walk is a convenience wrapper returning only the command string.
func Walk(g Grid, c Classifier) (string, error) {
	res, err := New(c).Walk(g)
	if err != nil {
		return "", err
	}
	return res.Program, nil
}
