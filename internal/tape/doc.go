// Package tape runs Brainfuck programs on a byte tape.
//
// A Machine executes the eight canonical commands plus the '!' sentinel. The
// tape starts as a single zero byte or a caller-supplied seed, grows by one
// zero byte each time the pointer moves past its right end and is clamped at
// cell 0 on the left. Cell arithmetic wraps modulo 256.
//
// # Input
//
// Everything after the first '!' in a program is an input literal. '!' stops
// execution, and the ',' command reads from the literal before it falls back
// to the live input source given with WithInput. A machine with no live input
// fails with ErrInputExhausted once the literal runs out.
//
// # Brackets
//
// Each bracket is resolved every time it executes, whether or not the jump is
// taken, so a lone '[' fails even when the current cell is non-zero. Matches
// are found by scanning the program text and are cached per position.
//
// # Errors
//
// Any error aborts the run and discards output. Errors wrap ErrInvalidPointer,
// ErrUnmatchedBracket, ErrInputExhausted or ErrStepLimit and can be matched
// with errors.Is.
package tape
