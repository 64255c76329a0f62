package cpu

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location and generated instruction.
type Opcode struct {
	LineNo      int
	Ip          int
	Words       []string
	Instruction Instruction
	LinkLabel   string
}

// Program is an immutable, pre-validated instruction listing.
type Program struct {
	Opcodes []Opcode
}

// NewProgram creates a program from already decoded instructions.
func NewProgram(code ...Instruction) (prog *Program) {
	prog = &Program{
		Opcodes: make([]Opcode, len(code)),
	}
	for ip, ins := range code {
		prog.Opcodes[ip] = Opcode{Ip: ip, Instruction: ins}
	}

	return
}

// Len returns the number of instructions in the program.
func (prog *Program) Len() int {
	return len(prog.Opcodes)
}

// Fetch returns the instruction at ip.
func (prog *Program) Fetch(ip uint) (ins Instruction, ok bool) {
	if ip >= uint(len(prog.Opcodes)) {
		return
	}

	return prog.Opcodes[ip].Instruction, true
}

// LineNo returns the source line for ip, or 0 if unknown.
func (prog *Program) LineNo(ip uint) int {
	if ip >= uint(len(prog.Opcodes)) {
		return 0
	}

	return prog.Opcodes[ip].LineNo
}

// Instructions iterates over the program in ip order.
func (prog *Program) Instructions() iter.Seq2[int, Instruction] {
	return func(yield func(ip int, ins Instruction) bool) {
		for ip, op := range prog.Opcodes {
			if !yield(ip, op.Instruction) {
				return
			}
		}
	}
}

// Validate checks the program can be executed without decode failures.
//   - Destinations of set, add, mul and mod must be registers.
//   - All referenced registers must be 'a' through 'z'.
//   - An immediate modulo divisor must be non-zero.
func (prog *Program) Validate() (err error) {
	for ip, ins := range prog.Instructions() {
		err = validate(ins)
		if err != nil {
			err = ErrValidate{Ip: ip, Err: err}
			return
		}
	}

	return
}

func validate(ins Instruction) (err error) {
	switch ins.Op {
	case OP_SND, OP_RCV, OP_SET, OP_ADD, OP_MUL, OP_MOD, OP_JGZ:
	default:
		return ErrOpcodeDecode
	}

	if ins.Op.HasDestination() && !ins.X.IsRegister() {
		return ErrTargetInvalid
	}

	args := []Operand{ins.X}
	if ins.Op.Args() > 1 {
		args = append(args, ins.Y)
	}
	for _, arg := range args {
		if arg.IsRegister() && !arg.Register.Valid() {
			return ErrRegisterInvalid
		}
	}

	if ins.Op == OP_MOD && !ins.Y.IsRegister() && ins.Y.Value == 0 {
		return ErrModuloZero
	}

	return
}
