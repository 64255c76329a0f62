// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"log"

	"github.com/ezrec/duet/cpu"
)

// Single runs one CPU on its own. 'snd' records the last emitted value,
// and a 'rcv' with a non-zero operand recovers it, which ends the run.
type Single struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Emitted      int64 // Last emitted value.
	HasEmitted   bool  // Set once any value was emitted.
	Recovered    int64 // Recovered value.
	HasRecovered bool  // Set once a value was recovered.
}

var _ cpu.Effects = (*Single)(nil)

// NewSingle creates a new single runtime for a program.
func NewSingle(prog *cpu.Program) (single *Single) {
	single = &Single{
		Cpu:     cpu.NewCpu(prog),
		Program: prog,
	}

	return
}

// Reset the runtime state.
func (single *Single) Reset() {
	single.Cpu.Verbose = single.Verbose
	single.Cpu.Program = single.Program
	single.Cpu.Reset()

	single.Emitted = 0
	single.HasEmitted = false
	single.Recovered = 0
	single.HasRecovered = false
}

// Emit records the last emitted value.
func (single *Single) Emit(value int64) (err error) {
	single.Emitted = value
	single.HasEmitted = true

	return
}

// Receive recovers the last emitted value if the operand is non-zero.
// Nothing is recovered until a value has been emitted.
func (single *Single) Receive(arg cpu.Operand) (err error) {
	if arg.Resolve(&single.Cpu.Register) == 0 {
		return
	}

	if !single.HasEmitted {
		return
	}

	single.Recovered = single.Emitted
	single.HasRecovered = true

	if single.Verbose {
		log.Printf("single: recovered %d", single.Recovered)
	}

	return
}

// Tick performs a single tick of the runtime.
// The run is done once a value is recovered, or the CPU halts.
func (single *Single) Tick() (done bool, err error) {
	single.Cpu.Verbose = single.Verbose

	if single.HasRecovered {
		done = true
		return
	}

	ip := single.Cpu.Ip
	err = single.Cpu.Tick(single)
	if errors.Is(err, cpu.ErrIpHalted) {
		err = nil
		done = true
		return
	}
	if err != nil {
		err = &ErrRuntime{LineNo: single.Program.LineNo(ip), Ip: ip, Err: err}
		return
	}

	done = single.HasRecovered
	return
}

// Run ticks until a value is recovered, and returns it.
// There is no tick limit; a program that never recovers and never halts
// never returns.
func (single *Single) Run() (value int64, err error) {
	single.Reset()

	for done := false; !done; {
		done, err = single.Tick()
		if err != nil {
			return
		}
	}

	if !single.HasRecovered {
		err = ErrNotRecovered
		return
	}

	value = single.Recovered
	return
}

// RunSingle runs a program on a single CPU and returns the recovered value.
func RunSingle(prog *cpu.Program) (value int64, err error) {
	return NewSingle(prog).Run()
}
