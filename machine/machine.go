package machine

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"strconv"
	"strings"
)

const (
	STEP_LIMIT = 1000000 // Default step budget before a run is aborted.
)

var _machine_defines = map[string]string{
	"STEP_LIMIT": fmt.Sprintf("%v", STEP_LIMIT),
}

// Machine executes a program over a register vector. Register 0 is the
// accumulator: every arithmetic, load and store operation implicitly
// reads or writes it. The program counter holds the label of the next
// instruction, not its position; fall-through follows program order.
type Machine struct {
	Verbose bool // Set to enable per-step trace logging.

	Program   *Program // Program under execution, never mutated.
	Registers []int    // Register vector. Index 0 is the accumulator.
	Pc        Label    // Label of the next instruction to execute.

	StepLimit int // Maximum instructions before aborting the run.

	Steps int // Instructions executed (uniform cost measure).
	Time  int // Time consumed (logarithmic cost measure).

	space []int // Per-register space high-water marks.
}

// NewMachine creates an idle machine with the default step budget.
func NewMachine() (m *Machine) {
	m = &Machine{
		StepLimit: STEP_LIMIT,
	}

	return
}

// Load resets the machine for a run of prog over an initial register
// vector. The program counter starts at the first instruction in program
// order, and the step, time, and space counters are zeroed.
func (m *Machine) Load(prog *Program, registers []int) {
	if m.Verbose {
		log.Printf("machine: load %d instructions, %d registers",
			len(prog.Instructions), len(registers))
	}

	m.Program = prog
	m.Registers = registers
	m.Steps = 0
	m.Time = 0
	m.space = m.space[:0]

	m.Pc, _ = prog.First()
	for index := range registers {
		m.chargeSpace(index)
	}
}

// Defines for the machine
func (m *Machine) Defines() iter.Seq2[string, string] {
	return maps.All(_machine_defines)
}

// String returns the current machine state as a string.
func (m *Machine) String() (text string) {
	regs := make([]string, len(m.Registers))
	for n, value := range m.Registers {
		regs[n] = fmt.Sprintf("(%d,%d)", n, value)
	}

	return fmt.Sprintf("K=(%v, R=[%v])", m.Pc, strings.Join(regs, " "))
}

// Halted returns true once the program counter holds the halt sentinel.
func (m *Machine) Halted() bool {
	return m.Pc == LABEL_HALT
}

// Run executes instructions until the machine halts or a fault aborts
// the run.
func (m *Machine) Run() (err error) {
	for !m.Halted() {
		err = m.Step()
		if err != nil {
			return
		}
	}

	return
}

// Step executes a single fetch-decode-execute cycle: look up the
// instruction labeled by the program counter, resolve its operand, apply
// the operation, and advance or redirect the program counter.
func (m *Machine) Step() (err error) {
	if m.Halted() {
		return
	}

	in, pos, ok := m.Program.At(m.Pc)
	if !ok {
		err = ErrLabelUnknown(m.Pc)
		return
	}

	if m.Steps >= m.StepLimit {
		err = ErrStepLimit
		return
	}
	m.Steps += 1

	if m.Verbose {
		log.Printf("%v: %v", m, in)
	}

	next, err := m.execute(in, pos)
	if err != nil {
		return
	}

	m.Pc = next

	return
}

// execute applies a single instruction and returns the next program
// counter value.
func (m *Machine) execute(in Instruction, pos int) (next Label, err error) {
	// Fall-through target: the positional successor, not label+1.
	succ := func() (label Label, err error) {
		label, ok := m.Program.Next(pos)
		if !ok {
			err = ErrProgramEnd
		}
		return
	}

	switch in.Op {
	case OP_LOAD:
		var value int
		value, err = m.getValue(in.Arg)
		if err != nil {
			return
		}
		m.chargeTime(in.Arg)
		m.write(0, value)
		next, err = succ()
	case OP_STORE:
		m.Time += Cost(in.Arg.Value)
		m.chargeAccumulator()
		m.write(in.Arg.Value, m.Registers[0])
		next, err = succ()
	case OP_ADD, OP_SUB, OP_MULT, OP_DIV:
		var value int
		value, err = m.getValue(in.Arg)
		if err != nil {
			return
		}
		m.chargeTime(in.Arg)
		m.chargeAccumulator()
		if in.Op == OP_DIV && value == 0 {
			err = ErrDivisionByZero
			return
		}
		m.write(0, m.doAlu(in.Op, m.Registers[0], value))
		next, err = succ()
	case OP_GOTO:
		m.Time += 1
		next = in.Target()
	case OP_JZERO:
		m.Time += 1
		m.chargeAccumulator()
		if m.Registers[0] == 0 {
			next = in.Target()
		} else {
			next, err = succ()
		}
	case OP_END:
		m.Time += 1
		next = LABEL_HALT
	}

	return
}

// doAlu performs the requested arithmetic, and returns the new
// accumulator value. Division is Go native integer division: the
// quotient truncates toward zero, also for negative operands.
func (m *Machine) doAlu(op Op, acc int, value int) (output int) {
	switch op {
	case OP_ADD:
		output = acc + value
	case OP_SUB:
		output = acc - value
	case OP_MULT:
		output = acc * value
	case OP_DIV:
		output = acc / value
	}

	return
}

// getValue resolves an operand against the current registers. Resolution
// is pure: direct reads register[k], immediate is the literal k, and
// indirect reads register[register[k]].
func (m *Machine) getValue(arg Operand) (value int, err error) {
	switch arg.Mode {
	case MODE_IMMEDIATE:
		value = arg.Value
	case MODE_DIRECT:
		value, err = m.read(arg.Value)
	case MODE_INDIRECT:
		var index int
		index, err = m.read(arg.Value)
		if err != nil {
			return
		}
		value, err = m.read(index)
	}

	return
}

// read reads a register, faulting on an out-of-range index.
func (m *Machine) read(index int) (value int, err error) {
	if index < 0 || index >= len(m.Registers) {
		err = ErrRegisterIndex
		return
	}

	value = m.Registers[index]

	return
}

// write stores into a register, growing the vector with zeros up to the
// index. Unreferenced registers hold 0, so growth on write preserves the
// infinite-register model while reads beyond the vector still fault.
func (m *Machine) write(index int, value int) {
	for len(m.Registers) <= index {
		m.Registers = append(m.Registers, 0)
	}

	m.Registers[index] = value
	m.chargeSpace(index)
}

// Target returns the jump target of a GOTO or JZERO instruction.
func (in Instruction) Target() Label {
	return Label(strconv.Itoa(in.Arg.Value))
}
