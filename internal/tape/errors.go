package tape

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPointer   = errors.New("tape: invalid pointer")
	ErrUnmatchedBracket = errors.New("tape: unmatched bracket")
	ErrInputExhausted   = errors.New("tape: input exhausted")
	ErrStepLimit        = errors.New("tape: step limit exceeded")
)

// SyntaxError reports a bracket with no partner.
type SyntaxError struct {
	// Pos is the program index of the unmatched bracket.
	Pos int

	// Bracket is '[' or ']'.
	Bracket byte
}

func (e *SyntaxError) Error() string {
	missing := "right"
	if e.Bracket == ']' {
		missing = "left"
	}
	return fmt.Sprintf("syntax error at character %d: missing %s bracket", e.Pos, missing)
}

func (e *SyntaxError) Unwrap() error {
	return ErrUnmatchedBracket
}
