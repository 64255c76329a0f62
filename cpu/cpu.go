package cpu

import (
	"errors"
	"fmt"
	"log"
)

// Effects handles the instructions that reach outside of the register file.
// The runtime attached to the Cpu decides how values are emitted and received.
type Effects interface {
	// Emit is called by 'snd' with the resolved operand value.
	Emit(value int64) error
	// Receive is called by 'rcv' with the unresolved operand.
	Receive(arg Operand) error
}

// Cpu is a single execution context: an instruction pointer and a register
// bank running a shared, read-only program.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Program *Program // Reference to the running program.

	Ip       uint      // Current instruction pointer.
	Register Registers // Register bank.

	Ticks int // CPU ticks counter.
}

// NewCpu creates a new CPU running a program.
func NewCpu(prog *Program) (cpu *Cpu) {
	cpu = &Cpu{
		Program: prog,
	}

	return
}

// Reset the CPU state.
// - Clears the registers.
// - Zeros statistics counters.
// - Sets the IP to the start of the program.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Register.Reset()
	cpu.Ip = 0
	cpu.Ticks = 0
}

// Halted returns true once the IP has left the program.
func (cpu *Cpu) Halted() bool {
	return cpu.Ip >= uint(cpu.Program.Len())
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() string {
	return fmt.Sprintf("ip: %d ticks: %d regs: [%v]", cpu.Ip, cpu.Ticks, cpu.Register.String())
}

// FetchCode fetches the next instruction to execute.
func (cpu *Cpu) FetchCode() (ins Instruction, err error) {
	ins, ok := cpu.Program.Fetch(cpu.Ip)
	if !ok {
		err = ErrIpHalted
		return
	}

	return
}

// Tick executes a single CPU instruction cycle.
// Returns ErrIpHalted once the program has run past its end, or a jump
// has left the program.
func (cpu *Cpu) Tick(effects Effects) (err error) {
	ins, err := cpu.FetchCode()
	if err != nil {
		return
	}

	return cpu.Execute(ins, effects)
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(ins Instruction, effects Effects) (err error) {
	defer func() {
		if err != nil && err != ErrIpHalted {
			err = errors.Join(ErrOpcode(ins), err)
		}
	}()
	if cpu.Verbose {
		log.Printf("%03d: %v", cpu.Ip, ins)
	}

	next_ip := cpu.Ip + 1
	regs := &cpu.Register

	switch ins.Op {
	case OP_SND:
		if effects == nil {
			err = ErrNoEffects
			return
		}
		err = effects.Emit(ins.X.Resolve(regs))
		if err != nil {
			return
		}
	case OP_RCV:
		if effects == nil {
			err = ErrNoEffects
			return
		}
		err = effects.Receive(ins.X)
		if err != nil {
			return
		}
	case OP_SET, OP_ADD, OP_MUL, OP_MOD:
		if !ins.X.IsRegister() {
			err = ErrOpcodeArg1
			return
		}
		dst := ins.X.Register
		val := ins.Y.Resolve(regs)
		var output int64
		output, err = cpu.doAlu(ins.Op, regs.Get(dst), val)
		if err != nil {
			err = errors.Join(ErrOpcodeArg2, err)
			return
		}
		regs.Set(dst, output)
	case OP_JGZ:
		if ins.X.Resolve(regs) > 0 {
			target := int64(cpu.Ip) + ins.Y.Resolve(regs)
			if target < 0 || target >= int64(cpu.Program.Len()) {
				// Leaving the program halts the context.
				cpu.Ip = uint(cpu.Program.Len())
				cpu.Ticks += 1
				err = ErrIpHalted
				return
			}
			next_ip = uint(target)
		}
	default:
		err = ErrOpcodeDecode
		return
	}

	cpu.Ip = next_ip
	cpu.Ticks += 1

	return
}

// doAlu performs the requested register operation, and returns the output value.
func (cpu *Cpu) doAlu(op CodeOp, input int64, value int64) (output int64, err error) {
	switch op {
	case OP_SET:
		output = value
	case OP_ADD:
		output = input + value
	case OP_MUL:
		output = input * value
	case OP_MOD:
		if value == 0 {
			err = ErrModuloZero
			return
		}
		output = input % value
	}

	return
}
