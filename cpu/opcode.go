package cpu

import (
	"fmt"
	"strconv"
)

// CodeOp is an instruction operation type.
type CodeOp int

const (
	OP_SND = CodeOp(0) // snd
	OP_SET = CodeOp(1) // set
	OP_ADD = CodeOp(2) // add
	OP_MUL = CodeOp(3) // mul
	OP_MOD = CodeOp(4) // mod
	OP_RCV = CodeOp(5) // rcv
	OP_JGZ = CodeOp(6) // jgz
)

var _op_names = [...]string{
	OP_SND: "snd",
	OP_SET: "set",
	OP_ADD: "add",
	OP_MUL: "mul",
	OP_MOD: "mod",
	OP_RCV: "rcv",
	OP_JGZ: "jgz",
}

func (op CodeOp) String() string {
	if op < 0 || int(op) >= len(_op_names) {
		return "CodeOp(" + strconv.Itoa(int(op)) + ")"
	}
	return _op_names[op]
}

// Args returns the number of operands the operation takes.
func (op CodeOp) Args() int {
	switch op {
	case OP_SND, OP_RCV:
		return 1
	default:
		return 2
	}
}

// HasDestination returns true if the first operand is written by the operation.
func (op CodeOp) HasDestination() bool {
	switch op {
	case OP_SET, OP_ADD, OP_MUL, OP_MOD:
		return true
	default:
		return false
	}
}

// CodeIR is an Immediate-or-Register operand kind.
type CodeIR int

const (
	IR_IMMEDIATE = CodeIR(0) // imm
	IR_REGISTER  = CodeIR(1) // reg
)

func (ir CodeIR) String() string {
	switch ir {
	case IR_IMMEDIATE:
		return "imm"
	case IR_REGISTER:
		return "reg"
	}
	return "CodeIR(" + strconv.Itoa(int(ir)) + ")"
}

// Operand is either an immediate value or a register reference.
type Operand struct {
	Kind     CodeIR
	Value    int64    // Immediate value, when Kind is IR_IMMEDIATE.
	Register Register // Register reference, when Kind is IR_REGISTER.
}

// Imm creates an immediate operand.
func Imm(value int64) Operand {
	return Operand{Kind: IR_IMMEDIATE, Value: value}
}

// Reg creates a register operand.
func Reg(reg Register) Operand {
	return Operand{Kind: IR_REGISTER, Register: reg}
}

// IsRegister returns true if the operand references a register.
func (arg Operand) IsRegister() bool {
	return arg.Kind == IR_REGISTER
}

// Resolve returns the value of the operand given a register file.
// Unknown and unset registers resolve to 0.
func (arg Operand) Resolve(regs *Registers) int64 {
	if arg.Kind == IR_REGISTER {
		return regs.Get(arg.Register)
	}
	return arg.Value
}

func (arg Operand) String() string {
	if arg.Kind == IR_REGISTER {
		return arg.Register.String()
	}
	return strconv.FormatInt(arg.Value, 10)
}

// Instruction is a single decoded duet instruction.
//
// For set, add, mul and mod, X is the destination register and Y the value.
// For jgz, X is the test and Y the offset. snd and rcv only use X.
type Instruction struct {
	Op CodeOp
	X  Operand
	Y  Operand
}

// MakeSnd creates an emit instruction.
func MakeSnd(arg Operand) Instruction {
	return Instruction{Op: OP_SND, X: arg}
}

// MakeSet creates a register set instruction.
func MakeSet(dst Register, arg Operand) Instruction {
	return Instruction{Op: OP_SET, X: Reg(dst), Y: arg}
}

// MakeAdd creates a register add instruction.
func MakeAdd(dst Register, arg Operand) Instruction {
	return Instruction{Op: OP_ADD, X: Reg(dst), Y: arg}
}

// MakeMul creates a register multiply instruction.
func MakeMul(dst Register, arg Operand) Instruction {
	return Instruction{Op: OP_MUL, X: Reg(dst), Y: arg}
}

// MakeMod creates a register modulo instruction.
func MakeMod(dst Register, arg Operand) Instruction {
	return Instruction{Op: OP_MOD, X: Reg(dst), Y: arg}
}

// MakeRcv creates a receive instruction.
func MakeRcv(arg Operand) Instruction {
	return Instruction{Op: OP_RCV, X: arg}
}

// MakeJgz creates a jump-if-positive instruction.
func MakeJgz(test, offset Operand) Instruction {
	return Instruction{Op: OP_JGZ, X: test, Y: offset}
}

// String returns the assembly language representation of this instruction.
func (ins Instruction) String() string {
	if ins.Op.Args() == 1 {
		return fmt.Sprintf("%v %v", ins.Op, ins.X)
	}
	return fmt.Sprintf("%v %v %v", ins.Op, ins.X, ins.Y)
}
