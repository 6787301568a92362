// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package machine

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system defines, visible to $() expressions.
var sysDefine = map[string]string{
	"LINENO": "0",
}

// operand token grammar: direct `k`, immediate `#k`, indirect `*k`
var operandRe = regexp.MustCompile(`^([#*]?)(\d+)$`)

// parenRe matches load-time $(...) expressions.
var parenRe = regexp.MustCompile(`\$\([^\$]*\)`)

// Loader turns program text into an ordered instruction sequence plus the
// initial register vector.
//
// Program text is line oriented. Lines beginning with '#' are comments
// and blank lines are a format fault. The first non-comment line is the
// whitespace-separated initial register vector, whose first value must be
// 0. Every further line is
//
//	LABEL MNEMONIC ARGUMENT ...
//
// where anything after the argument is a free-form comment. Tokens of the
// form $(expr) are evaluated at load time against the predefines.
type Loader struct {
	Verbose bool // If set, verbosely logs the loader actions.

	predefine map[string]string // Predefines
	define    map[string]string // Defines visible to the current Parse.
}

// Predefine defines a new $() expression symbol or redefines an existing
// one.
func (ld *Loader) Predefine(name string, value string) {
	if ld.predefine == nil {
		ld.predefine = map[string]string{name: value}
	} else {
		ld.predefine[name] = value
	}
}

// parenEval does load-time $(...) evaluations.
func (ld *Loader) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range ld.define {
		number, _err := strconv.Atoi(str)
		if _err != nil {
			// Ignore non-integer defines.
			continue
		}
		pred[key] = starlark.MakeInt(number)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// expandLine replaces every $(...) expression in a line with its value.
func (ld *Loader) expandLine(line string, lineno int) (expanded string, err error) {
	// Set line number.
	ld.define["LINENO"] = fmt.Sprintf("%v", lineno)

	expanded = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := ld.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})

	return
}

// parseOperand decodes an argument token into its addressing mode and
// value.
func (ld *Loader) parseOperand(word string) (arg Operand, err error) {
	match := operandRe.FindStringSubmatch(word)
	if match == nil {
		err = ErrArgumentInvalid
		return
	}

	switch match[1] {
	case "#":
		arg.Mode = MODE_IMMEDIATE
	case "*":
		arg.Mode = MODE_INDIRECT
	default:
		arg.Mode = MODE_DIRECT
	}

	arg.Value, err = strconv.Atoi(match[2])
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// Parse parses an input stream into a Program and the initial register
// vector.
func (ld *Loader) Parse(input io.Reader) (prog *Program, registers []int, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var loaded bool
	var instructions []Instruction
	labels := map[Label]int{}

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	ld.define = maps.Clone(sysDefine)
	for name, value := range ld.predefine {
		ld.define[name] = value
	}

	for scanner.Scan() {
		line = scanner.Text()
		lineno += 1

		if ld.Verbose {
			log.Printf("%v: %v\n", lineno, line)
		}

		if len(strings.TrimSpace(line)) == 0 {
			err = ErrBlankLine
			return
		}

		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}

		var expanded string
		expanded, err = ld.expandLine(line, lineno)
		if err != nil {
			return
		}

		words := strings.Fields(expanded)

		if !loaded {
			// First non-comment line: the initial register vector.
			registers, err = ld.parseRegisters(words)
			if err != nil {
				return
			}
			loaded = true
			continue
		}

		var in Instruction
		in, err = ld.parseInstruction(words, lineno)
		if err != nil {
			return
		}

		if in.Label == LABEL_HALT {
			err = ErrLabelReserved
			return
		}
		if prior, ok := labels[in.Label]; ok {
			err = fmt.Errorf("%w (line %d)", ErrLabelDuplicate, prior)
			return
		}
		labels[in.Label] = lineno

		instructions = append(instructions, in)
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if !loaded {
		err = ErrRegisterMissing
		return
	}
	if len(instructions) == 0 {
		err = ErrProgramEmpty
		return
	}

	prog, err = NewProgram(instructions)

	return
}

// parseRegisters parses the initial register vector line. The first
// register is the accumulator and must be initialized to 0.
func (ld *Loader) parseRegisters(words []string) (registers []int, err error) {
	registers = make([]int, 0, len(words))
	for _, word := range words {
		var value int
		value, err = strconv.Atoi(word)
		if err != nil {
			err = ErrParseNumber(word)
			return
		}
		registers = append(registers, value)
	}

	if registers[0] != 0 {
		err = ErrAccumulatorInit
		return
	}

	return
}

// parseInstruction parses a LABEL MNEMONIC ARGUMENT line. Anything after
// the argument is ignored as a comment.
func (ld *Loader) parseInstruction(words []string, lineno int) (in Instruction, err error) {
	if len(words) < 2 {
		err = ErrMnemonicInvalid
		return
	}

	op, ok := opMap[words[1]]
	if !ok {
		err = ErrMnemonicInvalid
		return
	}

	if len(words) < 3 {
		err = ErrArgumentMissing
		return
	}

	in = Instruction{
		Label:  Label(words[0]),
		LineNo: lineno,
		Op:     op,
	}

	// END takes any token and ignores it.
	if op == OP_END {
		return
	}

	in.Arg, err = ld.parseOperand(words[2])
	if err != nil {
		return
	}

	// STORE names a destination register, GOTO and JZERO a target label.
	// None of them resolve their argument through an addressing mode.
	if (op == OP_STORE || op.Jumps()) && in.Arg.Mode != MODE_DIRECT {
		err = ErrTargetIndirected
		return
	}

	return
}
