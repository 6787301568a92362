package machine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func runLines(t *testing.T, lines ...string) (m *Machine, err error) {
	t.Helper()

	ld := &Loader{}
	prog, registers, err := ld.Parse(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	m = NewMachine()
	m.Load(prog, registers)
	err = m.Run()

	return
}

func TestAddressing(t *testing.T) {
	assert := assert.New(t)

	m := &Machine{Registers: []int{5, 2, 0}}

	table := [](struct {
		name string
		arg  Operand
		want int
	}){
		{"direct", Operand{MODE_DIRECT, 1}, 2},
		{"immediate", Operand{MODE_IMMEDIATE, 1}, 1},
		{"indirect", Operand{MODE_INDIRECT, 1}, 0},
	}

	for _, entry := range table {
		value, err := m.getValue(entry.arg)
		assert.NoError(err, entry.name)
		assert.Equal(entry.want, value, entry.name)
	}

	// Out-of-range reads are faults, for both dereference stages.
	_, err := m.getValue(Operand{MODE_DIRECT, 3})
	assert.ErrorIs(err, ErrRegisterIndex)
	_, err = m.getValue(Operand{MODE_INDIRECT, 0})
	assert.ErrorIs(err, ErrRegisterIndex)

	// Immediates never touch the registers.
	value, err := m.getValue(Operand{MODE_IMMEDIATE, 1000})
	assert.NoError(err)
	assert.Equal(1000, value)
}

func TestArithmetic(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name      string
		registers string
		text      string
		want      int
	}){
		{"load direct", "0 9", "1 LOAD 1", 9},
		{"load immediate", "0 9", "1 LOAD #1", 1},
		{"load indirect", "0 2 9", "1 LOAD *1", 9},
		{"add", "0 4", "1 LOAD #3\n2 ADD 1", 7},
		{"sub", "0 4", "1 LOAD #3\n2 SUB 1", -1},
		{"mult", "0 4", "1 LOAD #3\n2 MULT 1", 12},
		{"div", "0 4", "1 LOAD #13\n2 DIV 1", 3},
	}

	for _, entry := range table {
		lines := append([]string{entry.registers},
			strings.Split(entry.text, "\n")...)
		lines = append(lines, "99 END 0")

		m, err := runLines(t, lines...)
		assert.NoError(err, entry.name)
		assert.True(m.Halted(), entry.name)
		assert.Equal(entry.want, m.Registers[0], entry.name)
	}
}

// Division is Go native integer division: the quotient truncates toward
// zero, so negative operands round up, not down.
func TestDivTruncation(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name      string
		registers string
		want      int
	}){
		{"positive by positive", "0 7 2", 3},
		{"negative by positive", "0 -7 2", -3},
		{"positive by negative", "0 7 -2", -3},
		{"negative by negative", "0 -7 -2", 3},
	}

	for _, entry := range table {
		m, err := runLines(t,
			entry.registers,
			"1 LOAD 1",
			"2 DIV 2",
			"3 END 0",
		)
		assert.NoError(err, entry.name)
		assert.Equal(entry.want, m.Registers[0], entry.name)
	}
}

func TestDivByZero(t *testing.T) {
	assert := assert.New(t)

	_, err := runLines(t,
		"0 5 0",
		"1 LOAD 1",
		"2 DIV 2",
		"3 END 0",
	)
	assert.ErrorIs(err, ErrDivisionByZero)

	// A zero divisor is a fault in every addressing mode.
	_, err = runLines(t,
		"0 5",
		"1 LOAD 1",
		"2 DIV #0",
		"3 END 0",
	)
	assert.ErrorIs(err, ErrDivisionByZero)
}

func TestRegisterIndexFault(t *testing.T) {
	assert := assert.New(t)

	_, err := runLines(t,
		"0 1 2",
		"1 LOAD 5",
		"2 END 0",
	)
	assert.ErrorIs(err, ErrRegisterIndex)

	_, err = runLines(t,
		"0 9 2",
		"1 LOAD *1",
		"2 END 0",
	)
	assert.ErrorIs(err, ErrRegisterIndex)
}

func TestStoreGrowth(t *testing.T) {
	assert := assert.New(t)

	// STORE beyond the vector grows it with zeros; the later read of
	// register 4 is then in range.
	m, err := runLines(t,
		"0 1 2",
		"1 LOAD #8",
		"2 STORE 4",
		"3 LOAD 3",
		"4 ADD 4",
		"5 END 0",
	)
	assert.NoError(err)
	assert.Equal([]int{8, 1, 2, 0, 8}, m.Registers)
	assert.Equal(8, m.Registers[0])
}

func TestJzero(t *testing.T) {
	assert := assert.New(t)

	// Accumulator zero: the jump is taken.
	m, err := runLines(t,
		"0",
		"1 JZERO 3",
		"2 DIV #0",
		"3 END 0",
	)
	assert.NoError(err)
	assert.True(m.Halted())

	// Accumulator nonzero: fall through to the positional successor.
	m, err = runLines(t,
		"0 7",
		"1 LOAD 1",
		"2 JZERO 9",
		"3 STORE 2",
		"9 END 0",
	)
	assert.NoError(err)
	assert.Equal(7, m.Registers[2])
}

func TestControlFlowFault(t *testing.T) {
	assert := assert.New(t)

	// Jump to an absent label.
	_, err := runLines(t,
		"0",
		"1 GOTO 42",
		"2 END 0",
	)
	assert.ErrorIs(err, ErrLabelUnknown(""))

	// Fall through past the last instruction: there is no successor, and
	// a missing END is a fault rather than a halt.
	_, err = runLines(t,
		"0 1",
		"1 LOAD 1",
	)
	assert.ErrorIs(err, ErrProgramEnd)

	// JZERO to an absent label faults only when taken.
	_, err = runLines(t,
		"0",
		"1 JZERO 42",
		"2 END 0",
	)
	assert.ErrorIs(err, ErrLabelUnknown(""))
}

func TestStepLimit(t *testing.T) {
	assert := assert.New(t)

	ld := &Loader{}
	prog, registers, err := ld.Parse(strings.NewReader("0\n1 GOTO 1"))
	assert.NoError(err)

	m := NewMachine()
	m.Load(prog, registers)
	m.StepLimit = 100

	err = m.Run()
	assert.ErrorIs(err, ErrStepLimit)
	assert.Equal(100, m.Steps)
	assert.False(m.Halted())
}

func TestHaltState(t *testing.T) {
	assert := assert.New(t)

	m, err := runLines(t,
		"0 5",
		"1 LOAD 0",
		"2 END 0",
	)
	assert.NoError(err)
	assert.True(m.Halted())
	assert.Equal(LABEL_HALT, m.Pc)
	assert.Equal([]int{0, 5}, m.Registers)

	// Stepping a halted machine is a no-op.
	steps := m.Steps
	assert.NoError(m.Step())
	assert.Equal(steps, m.Steps)
}

func TestLabelsAreNotPositions(t *testing.T) {
	assert := assert.New(t)

	// Fall-through follows program order, not label arithmetic: after
	// label 10 comes label 5, and GOTO addresses labels.
	m, err := runLines(t,
		"0",
		"10 LOAD #1",
		"5 ADD #2",
		"7 GOTO 2",
		"9 END unreachable",
		"2 ADD #3",
		"4 END 0",
	)
	assert.NoError(err)
	assert.Equal(6, m.Registers[0])
}

func TestDeterminism(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"0 6 7",
		"1 LOAD #0",
		"2 STORE 3",
		"3 LOAD 1",
		"4 JZERO 11",
		"5 SUB #1",
		"6 STORE 1",
		"7 LOAD 2",
		"8 ADD 3",
		"9 STORE 3",
		"10 GOTO 3",
		"11 LOAD 3",
		"12 END 0",
	}

	first, err := runLines(t, program...)
	assert.NoError(err)
	second, err := runLines(t, program...)
	assert.NoError(err)

	assert.Equal(first.Registers, second.Registers)
	assert.Equal(first.Steps, second.Steps)
	assert.Equal(first.Time, second.Time)
	assert.Equal(first.Space(), second.Space())
}
