package processor

import (
	"iter"

	"github.com/ezrec/pemu/memory"
)

// Dummy carries the register and flag names of a processor layout, with no
// memory, clock or execution behind them. Tools use it to list symbols.
type Dummy struct {
	config    Config
	registers *memory.Holder[memory.Symbol]
	flags     *memory.Holder[memory.Symbol]
}

var _ Symbols = (*Dummy)(nil)

// NewDummy builds a dummy processor for a configuration.
func NewDummy(cfg Config) (dummy *Dummy, err error) {
	err = cfg.Validate()
	if err != nil {
		return
	}

	regs := make([]memory.Symbol, len(_registers))
	for n, layout := range _registers {
		regs[n] = memory.NewDummyRegister(layout.name)
	}

	flags := make([]memory.Symbol, len(_flags))
	for n, layout := range _flags {
		flags[n] = memory.NewDummyFlag(layout.name)
	}

	dummy = &Dummy{config: cfg}

	dummy.registers, err = memory.NewHolder(regs...)
	if err != nil {
		dummy = nil
		return
	}

	dummy.flags, err = memory.NewHolder(flags...)
	if err != nil {
		dummy = nil
		return
	}

	return
}

// Config returns the configuration.
func (dummy *Dummy) Config() Config {
	return dummy.config
}

// Register finds a register name by short name.
func (dummy *Dummy) Register(name string) (memory.Symbol, error) {
	return dummy.registers.Get(name)
}

// Flag finds a flag name by short name.
func (dummy *Dummy) Flag(name string) (memory.Symbol, error) {
	return dummy.flags.Get(name)
}

func (dummy *Dummy) RegisterSymbols() []memory.Symbol {
	return dummy.registers.Slice()
}

func (dummy *Dummy) FlagSymbols() []memory.Symbol {
	return dummy.flags.Slice()
}

func (dummy *Dummy) Defines() iter.Seq2[string, string] {
	return defines(dummy.config)
}
