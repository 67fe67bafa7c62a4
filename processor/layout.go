package processor

import (
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/pemu/internal"
	"github.com/ezrec/pemu/memory"
)

// Reserved memory layout.
const (
	REGISTER_WORDS  = 2                               // Words holding registers.
	FLAG_WORDS      = 1                               // Words holding flags.
	RESERVED_STACK  = 1                               // Words kept free for the stack.
	PROGRAM_ADDRESS = REGISTER_WORDS + FLAG_WORDS     // First program word.
	RESERVED_WORDS  = PROGRAM_ADDRESS + RESERVED_STACK // Words unavailable to programs.
)

var _registers = []struct {
	name    string
	address int
}{
	{"Instruction Pointer", 0},
	{"Stack Pointer", 1},
}

var _flags = []struct {
	name    string
	address int
	bit     int
}{
	{"Zero Flag", REGISTER_WORDS, 0},
	{"Carry Flag", REGISTER_WORDS, 1},
}

var _layout_defines = map[string]string{
	"REGISTER_WORDS":  fmt.Sprintf("%d", REGISTER_WORDS),
	"FLAG_WORDS":      fmt.Sprintf("%d", FLAG_WORDS),
	"RESERVED_STACK":  fmt.Sprintf("%d", RESERVED_STACK),
	"PROGRAM_ADDRESS": fmt.Sprintf("%d", PROGRAM_ADDRESS),
	"RESERVED_WORDS":  fmt.Sprintf("%d", RESERVED_WORDS),
}

// defines maps symbol names to values for a configuration:
// register short names to their address, flag short names to their word
// address, and NAME_BIT to the flag's bit index.
func defines(cfg Config) iter.Seq2[string, string] {
	config := map[string]string{
		"MEMORY_SIZE": fmt.Sprintf("%d", cfg.MemorySize),
		"STACK_TOP":   fmt.Sprintf("%d", cfg.MemorySize-1),
	}
	if word, err := cfg.Word(); err == nil {
		config["WORD_BITS"] = fmt.Sprintf("%d", word.Bits)
		config["WORD_MASK"] = fmt.Sprintf("%#x", word.Mask)
	}

	regs := func(yield func(string, string) bool) {
		for _, reg := range _registers {
			if !yield(memory.ShortName(reg.name), fmt.Sprintf("%d", reg.address)) {
				return
			}
		}
	}

	flags := func(yield func(string, string) bool) {
		for _, flag := range _flags {
			short := memory.ShortName(flag.name)
			if !yield(short, fmt.Sprintf("%d", flag.address)) {
				return
			}
			if !yield(short+"_BIT", fmt.Sprintf("%d", flag.bit)) {
				return
			}
		}
	}

	return internal.IterSeq2Concat(maps.All(_layout_defines), maps.All(config), regs, flags)
}
