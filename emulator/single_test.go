package emulator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/duet/cpu"
)

func assemble(t *testing.T, program ...string) *cpu.Program {
	t.Helper()

	asm := &cpu.Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	return prog
}

func TestSingle(t *testing.T) {
	assert := assert.New(t)

	single := NewSingle(cpu.NewProgram())

	assert.False(single.Verbose)
	assert.NotNil(single.Cpu)
	assert.False(single.HasEmitted)
	assert.False(single.HasRecovered)
}

func TestSingleRoundTrip(t *testing.T) {
	assert := assert.New(t)

	prog := cpu.NewProgram(
		cpu.MakeSet('a', cpu.Imm(5)),
		cpu.MakeSnd(cpu.Reg('a')),
		cpu.MakeRcv(cpu.Reg('a')),
	)

	value, err := RunSingle(prog)
	assert.NoError(err)
	assert.Equal(int64(5), value)
}

func TestSingleExample(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"set a 1",
		"add a 2",
		"mul a a",
		"mod a 5",
		"snd a",
		"set a 0",
		"rcv a",
		"jgz a -1",
		"set a 1",
		"jgz a -2",
	)

	value, err := RunSingle(prog)
	assert.NoError(err)
	assert.Equal(int64(4), value)
}

func TestSingleDeterministic(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"set i 31",
		"set a 1",
		"loop: mul a 3",
		"add a p",
		"mod a 1000003",
		"add p 7",
		"snd a",
		"add i -1",
		"jgz i loop",
		"rcv a",
	)

	single := NewSingle(prog)
	first, err := single.Run()
	assert.NoError(err)

	for range 5 {
		value, err := single.Run()
		assert.NoError(err)
		assert.Equal(first, value)

		value, err = RunSingle(prog)
		assert.NoError(err)
		assert.Equal(first, value)
	}
}

func TestSingleTrace(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"set a 1",
		"add a 1",
		"mul a 2",
		"mod a 5",
		"snd a",
		"rcv b",
		"add b 1",
		"jgz a -6",
	)

	single := NewSingle(prog)
	single.Reset()

	trace := [](struct {
		ip      uint
		a, b    int64
		emitted int64
		done    bool
	}){
		{1, 1, 0, 0, false},
		{2, 2, 0, 0, false},
		{3, 4, 0, 0, false},
		{4, 4, 0, 0, false},
		{5, 4, 0, 4, false},
		{6, 4, 0, 4, false}, // rcv b: b is zero, nothing recovered
		{7, 4, 1, 4, false},
		{1, 4, 1, 4, false}, // jgz a -6
		{2, 5, 1, 4, false},
		{3, 10, 1, 4, false},
		{4, 0, 1, 4, false},
		{5, 0, 1, 0, false},
		{6, 0, 1, 0, true}, // rcv b: recovers the emitted 0
	}

	for n, step := range trace {
		done, err := single.Tick()
		assert.NoError(err, "tick %d", n)
		assert.Equal(step.ip, single.Cpu.Ip, "tick %d", n)
		assert.Equal(step.a, single.Cpu.Register.Get('a'), "tick %d", n)
		assert.Equal(step.b, single.Cpu.Register.Get('b'), "tick %d", n)
		assert.Equal(step.emitted, single.Emitted, "tick %d", n)
		assert.Equal(step.done, done, "tick %d", n)
	}

	assert.True(single.HasRecovered)
	assert.Equal(int64(0), single.Recovered)

	// Further ticks do not execute.
	done, err := single.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(uint(6), single.Cpu.Ip)
	assert.Equal(len(trace), single.Cpu.Ticks)
}

func TestSingleReceiveBeforeEmit(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"set a 1",
		"rcv a", // nothing emitted yet, keeps going
		"snd 7",
		"rcv a",
	)

	value, err := RunSingle(prog)
	assert.NoError(err)
	assert.Equal(int64(7), value)
}

func TestSingleReceiveImmediate(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"snd 3",
		"rcv 0",
		"snd 4",
		"rcv -1",
	)

	value, err := RunSingle(prog)
	assert.NoError(err)
	assert.Equal(int64(4), value)
}

func TestSingleNotRecovered(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
	}){
		{"empty", []string{}},
		{"past_end", []string{"snd 1", "rcv 0"}},
		{"jump_out", []string{"snd 1", "jgz 1 -5", "rcv 1"}},
	}

	for _, entry := range table {
		prog := assemble(t, entry.program...)
		_, err := RunSingle(prog)
		assert.ErrorIs(err, ErrNotRecovered, entry.name)
	}
}

func TestSingleModuloZero(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"set a 10",
		"",
		"mod a b",
	)

	_, err := RunSingle(prog)
	assert.ErrorIs(err, cpu.ErrModuloZero)

	var rt *ErrRuntime
	if assert.True(errors.As(err, &rt)) {
		assert.Equal(3, rt.LineNo)
		assert.Equal(uint(1), rt.Ip)
	}
}
