package tape

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Snapshot is the complete state of a Machine, including a run that stopped
// with an error.
type Snapshot struct {
	Program string `cbor:"1,keyasint"`
	PC      int    `cbor:"2,keyasint"`
	Pointer int    `cbor:"3,keyasint"`
	Memory  []byte `cbor:"4,keyasint"`
	Output  []byte `cbor:"5,keyasint,omitempty"`
	Queue   []byte `cbor:"6,keyasint,omitempty"`
	Steps   int    `cbor:"7,keyasint"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("tape: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Snapshot captures the machine's current state.
func (m *Machine) Snapshot() *Snapshot {
	return &Snapshot{
		Program: m.program,
		PC:      m.pc,
		Pointer: m.ptr,
		Memory:  append([]byte(nil), m.mem...),
		Output:  append([]byte(nil), m.out...),
		Queue:   append([]byte(nil), m.queue...),
		Steps:   m.steps,
	}
}

// Resume rebuilds a machine from s. Running it continues at the snapshot's
// program counter. Options apply on top of the restored state, so a live
// input or a step limit can be supplied again.
func Resume(s *Snapshot, opts ...Option) *Machine {
	m := &Machine{
		program: s.Program,
		mem:     append([]byte(nil), s.Memory...),
		ptr:     s.Pointer,
		pc:      s.PC,
		out:     append([]byte(nil), s.Output...),
		queue:   append([]byte(nil), s.Queue...),
		steps:   s.Steps,
		jumps:   make(map[int]int),
	}
	if len(m.mem) == 0 {
		m.mem = []byte{0}
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MarshalSnapshot serializes a Snapshot to canonical CBOR.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// UnmarshalSnapshot deserializes a Snapshot from CBOR bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("tape: unmarshal snapshot: %w", err)
	}
	return &s, nil
}
