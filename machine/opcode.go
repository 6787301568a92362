package machine

import (
	"fmt"
)

// Op is a machine instruction mnemonic.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_LOAD  = Op(0) // LOAD
	OP_STORE = Op(1) // STORE
	OP_ADD   = Op(2) // ADD
	OP_SUB   = Op(3) // SUB
	OP_MULT  = Op(4) // MULT
	OP_DIV   = Op(5) // DIV
	OP_GOTO  = Op(6) // GOTO
	OP_JZERO = Op(7) // JZERO
	OP_END   = Op(8) // END
)

// opMap maps program text mnemonics to operations.
var opMap = map[string]Op{
	"LOAD":  OP_LOAD,
	"STORE": OP_STORE,
	"ADD":   OP_ADD,
	"SUB":   OP_SUB,
	"MULT":  OP_MULT,
	"DIV":   OP_DIV,
	"GOTO":  OP_GOTO,
	"JZERO": OP_JZERO,
	"END":   OP_END,
}

// Jumps returns true if the operation redirects the program counter.
func (op Op) Jumps() bool {
	return op == OP_GOTO || op == OP_JZERO
}

// AddressMode selects how an argument token maps to an operand value.
type AddressMode int

//go:generate go tool stringer -linecomment -type=AddressMode
const (
	MODE_DIRECT    = AddressMode(0) // direct
	MODE_IMMEDIATE = AddressMode(1) // immediate
	MODE_INDIRECT  = AddressMode(2) // indirect
)

// Operand is a decoded instruction argument. Value is a register index
// in direct and indirect modes, and the literal value in immediate mode.
type Operand struct {
	Mode  AddressMode
	Value int
}

// String returns the operand in program text syntax.
func (arg Operand) String() (text string) {
	switch arg.Mode {
	case MODE_IMMEDIATE:
		text = fmt.Sprintf("#%d", arg.Value)
	case MODE_INDIRECT:
		text = fmt.Sprintf("*%d", arg.Value)
	default:
		text = fmt.Sprintf("%d", arg.Value)
	}

	return
}
