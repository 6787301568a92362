package machine

import (
	"errors"

	"github.com/thesix/Ram/translate"
)

var f = translate.From

var (
	// Machine faults
	ErrRegisterIndex  = errors.New(f("register index out of range"))
	ErrDivisionByZero = errors.New(f("division by zero"))
	ErrStepLimit      = errors.New(f("step limit exceeded"))
	ErrProgramEnd     = errors.New(f("fell off end of program"))

	// Loader faults
	ErrBlankLine        = errors.New(f("blank line"))
	ErrRegisterMissing  = errors.New(f("register line missing"))
	ErrAccumulatorInit  = errors.New(f("first register must be 0"))
	ErrProgramEmpty     = errors.New(f("program has no instructions"))
	ErrMnemonicInvalid  = errors.New(f("mnemonic invalid"))
	ErrArgumentMissing  = errors.New(f("argument missing"))
	ErrArgumentInvalid  = errors.New(f("argument invalid"))
	ErrTargetIndirected = errors.New(f("target must be a bare register index or label"))
	ErrLabelReserved    = errors.New(f("label 0 is reserved for halt"))
	ErrLabelDuplicate   = errors.New(f("label duplicated"))
)

// ErrLabelUnknown is the control-flow fault: a program counter or jump
// target matching no instruction in the program.
type ErrLabelUnknown Label

func (el ErrLabelUnknown) Error() string {
	return f("no instruction labeled %v", string(el))
}

func (el ErrLabelUnknown) Is(err error) (ok bool) {
	_, ok = err.(ErrLabelUnknown)
	return
}

// ErrSyntax locates a load-time format fault in the program text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

func (err ErrParseNumber) Is(target error) (ok bool) {
	_, ok = target.(ErrParseNumber)
	return
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

func (err ErrParseExpression) Is(target error) (ok bool) {
	_, ok = target.(ErrParseExpression)
	return
}
