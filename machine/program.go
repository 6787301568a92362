package machine

import (
	"fmt"
	"iter"
)

// Label is the program-author-assigned identifier of an instruction, used
// as a jump target. It is distinct from the instruction's position in
// program order, which determines fall-through.
type Label string

// LABEL_HALT is reserved: the program counter is set to it by END, and no
// real instruction may carry it.
const LABEL_HALT = Label("0")

// Instruction is a single decoded program line.
type Instruction struct {
	Label  Label   // Jump target identity of this instruction.
	LineNo int     // Source line number, for diagnostics.
	Op     Op      // Operation.
	Arg    Operand // Decoded argument (zero value for END).
}

// String returns the instruction in program text syntax.
func (in Instruction) String() string {
	return fmt.Sprintf("%v %v %v", in.Label, in.Op, in.Arg)
}

// Program is the full ordered instruction sequence as authored, plus an
// index from label to position. It is shared read-only with the machine
// and never mutated during a run.
type Program struct {
	Instructions []Instruction

	index map[Label]int
}

// NewProgram builds a program and its label index from an instruction
// sequence. Every label must be unique, and none may be the reserved
// halt label.
func NewProgram(instructions []Instruction) (prog *Program, err error) {
	index := make(map[Label]int, len(instructions))
	for n, in := range instructions {
		if in.Label == LABEL_HALT {
			err = ErrLabelReserved
			return
		}
		if _, ok := index[in.Label]; ok {
			err = ErrLabelDuplicate
			return
		}
		index[in.Label] = n
	}

	prog = &Program{
		Instructions: instructions,
		index:        index,
	}

	return
}

// At looks up an instruction and its position by label.
func (prog *Program) At(label Label) (in Instruction, pos int, ok bool) {
	pos, ok = prog.index[label]
	if ok {
		in = prog.Instructions[pos]
	}

	return
}

// Next returns the label of the positional successor of the instruction
// at pos, or false when pos is the last instruction.
func (prog *Program) Next(pos int) (label Label, ok bool) {
	if pos+1 >= len(prog.Instructions) {
		return
	}

	return prog.Instructions[pos+1].Label, true
}

// First returns the label of the first instruction in program order.
func (prog *Program) First() (label Label, ok bool) {
	if len(prog.Instructions) == 0 {
		return
	}

	return prog.Instructions[0].Label, true
}

// All iterates over the instructions in program order.
func (prog *Program) All() iter.Seq2[Label, Instruction] {
	return func(yield func(label Label, in Instruction) bool) {
		for _, in := range prog.Instructions {
			if !yield(in.Label, in) {
				return
			}
		}
	}
}
