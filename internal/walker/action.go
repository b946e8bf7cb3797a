package walker

import (
	"fmt"

	"github.com/ironsheep/brainx/internal/raster"
)

// Kind says what a classified pixel does.
type Kind int

const (
	NoOp Kind = iota
	Command
	Turn
)

// Action is the result of classifying one pixel.
type Action struct {
	Kind Kind

	// Command is the Brainfuck character to emit when Kind is Command.
	Command byte

	// Turn is +1 or -1 when Kind is Turn.
	Turn int
}

// Emit returns a Command action for c.
func Emit(c byte) Action {
	return Action{Kind: Command, Command: c}
}

// Rotate returns a Turn action by delta.
func Rotate(delta int) Action {
	return Action{Kind: Turn, Turn: delta}
}

func (a Action) String() string {
	switch a.Kind {
	case Command:
		return string(a.Command)
	case Turn:
		return fmt.Sprintf("turn%+d", a.Turn)
	default:
		return "noop"
	}
}

// MarshalText renders the action the same way String does, for JSON traces.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Commands are the eight Brainfuck commands in the order both classifiers
// assign them.
const Commands = "><+-.,[]"

// IsCommand reports whether c is one of the eight Brainfuck commands.
func IsCommand(c byte) bool {
	for i := 0; i < len(Commands); i++ {
		if Commands[i] == c {
			return true
		}
	}
	return false
}

// Classifier maps a pixel color to an action.
type Classifier interface {
	Classify(c raster.RGB) Action
}

// ClassifierFunc adapts a plain function to Classifier.
type ClassifierFunc func(c raster.RGB) Action

func (f ClassifierFunc) Classify(c raster.RGB) Action {
	return f(c)
}

// Painter picks a pixel color that a classifier will read back as a.
// base is the color already at that position, which painters may keep or
// adjust instead of replacing outright.
type Painter interface {
	Paint(base raster.RGB, a Action) raster.RGB
}
