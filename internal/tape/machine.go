package tape

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("brainx.tape")

// Sentinel ends the executable part of a program. The bytes after the first
// Sentinel form the input literal.
const Sentinel = '!'

// Option configures a Machine.
type Option func(*Machine)

// WithMemory seeds the tape. An empty seed leaves the default single zero cell.
func WithMemory(seed []byte) Option {
	return func(m *Machine) {
		if len(seed) > 0 {
			m.mem = append([]byte(nil), seed...)
		}
	}
}

// WithPointer sets the initial data pointer. It must address a seeded cell.
func WithPointer(p int) Option {
	return func(m *Machine) {
		m.ptr = p
	}
}

// WithInput sets the live input read by ',' once the input literal is used up.
func WithInput(r io.ByteReader) Option {
	return func(m *Machine) {
		m.input = r
	}
}

// WithMaxSteps bounds the number of program characters executed. Zero means
// no limit.
func WithMaxSteps(n int) Option {
	return func(m *Machine) {
		m.maxSteps = n
	}
}

// Machine is a single Brainfuck execution. It is not safe for concurrent use.
type Machine struct {
	program  string
	mem      []byte
	ptr      int
	pc       int
	out      []byte
	queue    []byte
	input    io.ByteReader
	steps    int
	maxSteps int

	// jumps caches bracket partners by position; -1 marks an unmatched bracket.
	jumps map[int]int
}

// Result is the state of a machine that ran to completion.
type Result struct {
	Output  []byte
	Pointer int
	Memory  []byte
	Steps   int
}

// String returns the output as text.
func (r *Result) String() string {
	return string(r.Output)
}

// New returns a machine ready to run program.
func New(program string, opts ...Option) *Machine {
	m := &Machine{
		program: program,
		mem:     []byte{0},
		jumps:   make(map[int]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	if i := strings.IndexByte(program, Sentinel); i >= 0 {
		m.queue = []byte(program[i+1:])
	}
	return m
}

// Run executes the program until it ends or reaches the sentinel. On error the
// output produced so far is discarded.
func (m *Machine) Run() (*Result, error) {
	if m.ptr < 0 || m.ptr >= len(m.mem) {
		return nil, fmt.Errorf("%w: %d is outside a tape of %d cells", ErrInvalidPointer, m.ptr, len(m.mem))
	}

	for m.pc < len(m.program) {
		if m.maxSteps > 0 && m.steps >= m.maxSteps {
			log.Warningf("stopped at character %d after %d steps", m.pc, m.steps)
			return nil, fmt.Errorf("%w: %d steps", ErrStepLimit, m.steps)
		}
		m.steps++

		c := m.program[m.pc]
		if c == Sentinel {
			break
		}
		if err := m.exec(c); err != nil {
			log.Debugf("aborted at character %d: %v", m.pc, err)
			return nil, err
		}
		m.pc++
	}

	log.Debugf("halted after %d steps with pointer %d on %d cells", m.steps, m.ptr, len(m.mem))
	return &Result{
		Output:  append([]byte(nil), m.out...),
		Pointer: m.ptr,
		Memory:  append([]byte(nil), m.mem...),
		Steps:   m.steps,
	}, nil
}

func (m *Machine) exec(c byte) error {
	switch c {
	case '>':
		m.ptr++
		if m.ptr == len(m.mem) {
			m.mem = append(m.mem, 0)
		}
	case '<':
		if m.ptr > 0 {
			m.ptr--
		}
	case '+':
		m.mem[m.ptr]++
	case '-':
		m.mem[m.ptr]--
	case '.':
		m.out = append(m.out, m.mem[m.ptr])
	case ',':
		b, err := m.read()
		if err != nil {
			return err
		}
		m.mem[m.ptr] = b
	case '[', ']':
		j, err := m.partner(m.pc)
		if err != nil {
			return err
		}
		zero := m.mem[m.ptr] == 0
		if (c == '[' && zero) || (c == ']' && !zero) {
			m.pc = j
		}
	}
	return nil
}

func (m *Machine) read() (byte, error) {
	if len(m.queue) > 0 {
		b := m.queue[0]
		m.queue = m.queue[1:]
		return b, nil
	}
	if m.input == nil {
		return 0, fmt.Errorf("%w at character %d", ErrInputExhausted, m.pc)
	}
	b, err := m.input.ReadByte()
	if errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("%w at character %d", ErrInputExhausted, m.pc)
	}
	if err != nil {
		return 0, fmt.Errorf("tape: reading input: %w", err)
	}
	return b, nil
}

// partner returns the position of the bracket matching the one at pos.
func (m *Machine) partner(pos int) (int, error) {
	j, ok := m.jumps[pos]
	if !ok {
		j = scan(m.program, pos)
		m.jumps[pos] = j
	}
	if j < 0 {
		return 0, &SyntaxError{Pos: pos, Bracket: m.program[pos]}
	}
	return j, nil
}

// scan finds the partner of the bracket at pos by counting nesting depth
// forward from '[' or backward from ']'. The whole program text is scanned,
// input literal included. It returns -1 when there is no partner.
func scan(program string, pos int) int {
	opening, closing, dir := byte('['), byte(']'), 1
	if program[pos] == ']' {
		opening, closing, dir = ']', '[', -1
	}

	depth := 0
	for j := pos; j >= 0 && j < len(program); j += dir {
		switch program[j] {
		case opening:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}
