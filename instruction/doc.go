// Package instruction defines what the processor executes.
//
// An Instruction is an opcode word followed by ArgumentCount argument words;
// the processor advances the instruction pointer past all of them before
// calling Execute, so an instruction that writes the instruction pointer
// (a jump) has the final say.
//
// BASIC is a small reference instruction set with memory moves, flag-setting
// arithmetic, conditional jumps and a memory stack.
package instruction
