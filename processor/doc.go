// Package processor implements the emulated processor.
//
// A Processor owns a Memory, a Clock gate, its register and flag views, and
// an instruction History. Run is a blocking loop meant for its own
// goroutine; Stop, Pause, Resume and Step may be called from any other
// goroutine while it runs.
//
// Each gated cycle:
//   - reads the instruction pointer (IP),
//   - stops if IP is past the end of memory,
//   - decodes the opcode word at IP,
//   - records IP and the keyword in the history,
//   - advances IP past the instruction and its arguments,
//   - executes the instruction, which may overwrite IP (a jump).
//
// Memory layout:
//
//	0               IP  (Instruction Pointer)
//	1               SP  (Stack Pointer)
//	2               ZF (bit 0), CF (bit 1)
//	3               first program word
//	...
//	size-1          stack top, growing down
//
// A Dummy exposes the register and flag names of that layout with no
// memory behind them, for tools that only need symbols.
package processor
