package runner

import (
	"fmt"
	"strings"

	"github.com/ironsheep/brainx/internal/walker"
)

// Mode selects how a source file is read.
type Mode int

const (
	// ModeText reads the file as Brainfuck source text.
	ModeText Mode = iota

	// ModeColorTable reads a PNG whose pixels match the fixed color table
	// (Brainloller).
	ModeColorTable

	// ModeColorHash reads a PNG whose pixels are classified by color hash
	// (Braincopter).
	ModeColorHash
)

var modeNames = map[string]Mode{
	"text":        ModeText,
	"brainfuck":   ModeText,
	"brainloller": ModeColorTable,
	"table":       ModeColorTable,
	"braincopter": ModeColorHash,
	"hash":        ModeColorHash,
}

func (m Mode) String() string {
	switch m {
	case ModeText:
		return "text"
	case ModeColorTable:
		return "brainloller"
	case ModeColorHash:
		return "braincopter"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts a mode name, case-insensitively. An empty name is text.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeText, nil
	}
	m, ok := modeNames[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("unknown mode %q (use text, brainloller or braincopter)", s)
	}
	return m, nil
}

// IsImage reports whether m reads a PNG.
func (m Mode) IsImage() bool {
	return m == ModeColorTable || m == ModeColorHash
}

// Classifier returns the pixel classifier for an image mode, nil for text.
func (m Mode) Classifier() walker.Classifier {
	switch m {
	case ModeColorTable:
		return walker.ColorTable{}
	case ModeColorHash:
		return walker.ColorHash{}
	}
	return nil
}

// Painter returns the painter that renders programs for an image mode, nil
// for text.
func (m Mode) Painter() walker.Painter {
	switch m {
	case ModeColorTable:
		return walker.ColorTable{}
	case ModeColorHash:
		return walker.ColorHash{}
	}
	return nil
}
