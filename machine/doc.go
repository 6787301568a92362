// Package machine implements the register machine and its program loader.
//
// The machine is the Random Access Machine of theoretic computer science:
// a vector of signed integer registers with register 0 as the implicit
// accumulator, a label-addressed program counter, and a nine-operation
// instruction set with direct, immediate and indirect addressing. The
// loader turns line-oriented program text into an immutable instruction
// sequence plus the initial register vector, supporting load-time $()
// expression evaluation.
//
// Execution tracks both the uniform cost measure (steps) and the
// logarithmic cost measure (time and space), and aborts runs that exceed
// a configurable step budget.
package machine
