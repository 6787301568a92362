// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package ram

import (
	"io"
	"iter"
	"log"
	"maps"

	"github.com/thesix/Ram/internal"
	"github.com/thesix/Ram/machine"
)

var _ram_defines = map[string]string{
	"ACCUMULATOR": "0",
	"HALT":        "0",
}

// Ram ties the loader and the machine into a single run harness: program
// text in, final register vector (or a classified fault) out. A Ram is
// stateless across runs; Load discards all prior state.
type Ram struct {
	Verbose bool // If set, enables verbose logging.

	Loader  machine.Loader   // Program text loader.
	Machine *machine.Machine // Reference to the machine simulation.
}

// NewRam creates a new run harness. All defines are predefined into the
// loader for $() expressions.
func NewRam() (r *Ram) {
	r = &Ram{
		Machine: machine.NewMachine(),
	}

	for name, value := range r.Defines() {
		r.Loader.Predefine(name, value)
	}

	return
}

// Defines returns an iterator over all of the defines
func (r *Ram) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_ram_defines),
		r.Machine.Defines(),
	)
}

// Load parses program text and resets the machine for a fresh run.
func (r *Ram) Load(input io.Reader) (err error) {
	r.Loader.Verbose = r.Verbose
	r.Machine.Verbose = r.Verbose

	prog, registers, err := r.Loader.Parse(input)
	if err != nil {
		return
	}

	if r.Verbose {
		for _, in := range prog.All() {
			log.Printf("ram: %v", in)
		}
	}

	r.Machine.Load(prog, registers)

	return
}

// Run drives the loaded program to completion and returns the final
// register vector. Faults carry the label and source line of the
// instruction that raised them.
func (r *Ram) Run() (registers []int, err error) {
	if r.Machine.Program == nil {
		err = ErrNotLoaded
		return
	}

	err = r.Machine.Run()
	if err != nil {
		lineno := 0
		if in, _, ok := r.Machine.Program.At(r.Machine.Pc); ok {
			lineno = in.LineNo
		}
		err = &ErrRuntime{Label: r.Machine.Pc, LineNo: lineno, Err: err}
		return
	}

	registers = r.Machine.Registers

	return
}

// Result returns the accumulator value.
func (r *Ram) Result() int {
	return r.Machine.Registers[0]
}

// Steps returns the instructions executed since the last Load.
func (r *Ram) Steps() int {
	return r.Machine.Steps
}

// Time returns the time consumed under the logarithmic cost measure.
func (r *Ram) Time() int {
	return r.Machine.Time
}

// Space returns the space consumed under the logarithmic cost measure.
func (r *Ram) Space() int {
	return r.Machine.Space()
}

// Run is the one-shot entry point: parse program text, execute it to
// completion, and return the final register vector or the fault that
// aborted it.
func Run(input io.Reader) (registers []int, err error) {
	r := NewRam()

	err = r.Load(input)
	if err != nil {
		return
	}

	return r.Run()
}
