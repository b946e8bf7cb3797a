// Package walker turns a program image into a Brainfuck command string.
//
// A single instruction pointer starts at the top-left pixel heading east. At
// every step the pixel under it is handed to a Classifier, which answers with
// one of three actions:
//   - Command: append a Brainfuck command character to the output
//   - Turn: rotate the heading by +1 (clockwise) or -1 (counter-clockwise)
//   - NoOp: do nothing
//
// The pointer then moves one pixel in its heading. When that move would leave
// the image the walk ends and the collected commands are returned.
//
// # Headings
//
// Headings are numbered East=1, South=2, West=3, North=4. Turning adds or
// subtracts one with no wraparound, so turning clockwise from North gives 5
// and counter-clockwise from East gives 0. Such a heading matches no movement:
// the pointer stays on the pixel that turned it, keeps re-applying the same
// turn, and can never emit another command. Programs in the wild depend on
// this, so it is kept as-is. The walker recognises the state and ends the
// walk there, reporting it through Result.Frozen.
//
// # Classifiers
//
// Two classifiers are provided:
//   - ColorTable maps ten exact colors to the eight commands and two turns
//     (the "Brainloller" dialect). Every other color is a NoOp.
//   - ColorHash maps (65536*R + 256*G + B) mod 11 to the eight commands,
//     two turns and a NoOp (the "Braincopter" dialect), so any picture is a
//     program.
//
// # Rendering
//
// Layout and Render go the other way: they place a program's commands on a
// serpentine path and paint it with a classifier's colors, optionally over a
// cover picture. Walking the rendered image yields the program again.
package walker
