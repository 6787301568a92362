package ram

import (
	"errors"

	"github.com/thesix/Ram/machine"
	"github.com/thesix/Ram/translate"
)

var f = translate.From

var (
	ErrNotLoaded = errors.New(f("no program loaded"))
)

// ErrRuntime indicates the location of a runtime fault.
type ErrRuntime struct {
	Label  machine.Label
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("pc %v %v", err.Label, err.Err)
	}

	return f("pc %v (line %d) %v", err.Label, err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
