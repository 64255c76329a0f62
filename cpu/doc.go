// Package cpu implements the execution core and assembler for duet programs.
//
// The CPU consists of an instruction pointer (IP) and twenty-six signed
// 64-bit registers, 'a' through 'z'. Seven instructions are supported:
// snd, set, add, mul, mod, rcv and jgz. The snd and rcv instructions are
// delegated to an Effects implementation supplied by the runtime, so that
// the same core serves both the single and the paired runtimes.
//
// The assembler reads the textual program form, resolving labels, equates
// and compile-time expressions into a validated Program.
package cpu
