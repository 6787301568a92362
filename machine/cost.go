package machine

import (
	"math/bits"
)

// Cost is the logarithmic cost measure of a register value: the number of
// bits needed to write it down. Cost(0) is 1, and sign is ignored.
func Cost(value int) (cost int) {
	if value < 0 {
		value = -value
	}

	cost = bits.Len(uint(value))
	if cost == 0 {
		cost = 1
	}

	return
}

// chargeTime charges the logarithmic time cost of resolving arg against
// the current registers: every index and register value read is paid for
// by its bit length. Out-of-range reads charge nothing; the resolver
// reports the fault.
func (m *Machine) chargeTime(arg Operand) {
	m.Time += Cost(arg.Value)

	if arg.Mode == MODE_IMMEDIATE {
		return
	}
	if arg.Value < 0 || arg.Value >= len(m.Registers) {
		return
	}
	m.Time += Cost(m.Registers[arg.Value])

	if arg.Mode != MODE_INDIRECT {
		return
	}
	inner := m.Registers[arg.Value]
	if inner < 0 || inner >= len(m.Registers) {
		return
	}
	m.Time += Cost(m.Registers[inner])
}

// chargeAccumulator charges the time cost of reading the accumulator.
func (m *Machine) chargeAccumulator() {
	m.Time += Cost(m.Registers[0])
}

// chargeSpace raises the space high-water mark of a register after a
// write.
func (m *Machine) chargeSpace(index int) {
	for len(m.space) < len(m.Registers) {
		m.space = append(m.space, 0)
	}

	cost := Cost(m.Registers[index])
	if cost > m.space[index] {
		m.space[index] = cost
	}
}

// Space returns the total space consumed under the logarithmic cost
// measure: the sum over all registers of the largest bit length each one
// held during the run.
func (m *Machine) Space() (space int) {
	for _, cost := range m.space {
		space += cost
	}

	return
}
