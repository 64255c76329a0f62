package cpu

import (
	"fmt"
	"strings"
)

const (
	REGISTER_COUNT = 26 // Registers 'a' through 'z'
)

// Register is a register name, 'a' through 'z'.
type Register byte

// Valid returns true if the register is one of 'a' through 'z'.
func (reg Register) Valid() bool {
	return reg >= 'a' && reg <= 'z'
}

func (reg Register) String() string {
	if reg.Valid() {
		return string(rune(reg))
	}
	return fmt.Sprintf("Register(%d)", byte(reg))
}

// Registers is a register file.
type Registers struct {
	Data [REGISTER_COUNT]int64
}

// Get returns a register value. Unknown registers read as 0.
func (regs *Registers) Get(reg Register) int64 {
	if !reg.Valid() {
		return 0
	}
	return regs.Data[reg-'a']
}

// Set writes a register value. Writes to unknown registers are dropped.
func (regs *Registers) Set(reg Register, value int64) {
	if !reg.Valid() {
		return
	}
	regs.Data[reg-'a'] = value
}

// Reset zeros all registers.
func (regs *Registers) Reset() {
	clear(regs.Data[:])
}

// String lists the non-zero registers.
func (regs *Registers) String() string {
	var parts []string
	for n, value := range regs.Data {
		if value != 0 {
			parts = append(parts, fmt.Sprintf("%c=%d", 'a'+n, value))
		}
	}
	return strings.Join(parts, " ")
}
