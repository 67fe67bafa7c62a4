// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package processor

import (
	"iter"
	"sync/atomic"
	"time"

	wallclock "github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"

	"github.com/ezrec/pemu/clock"
	"github.com/ezrec/pemu/instruction"
	"github.com/ezrec/pemu/internal"
	"github.com/ezrec/pemu/memory"
)

const (
	NOT_RUNNING = time.Duration(-1) // TimeRunning of a stopped processor.
)

// Processor is the full emulated machine.
type Processor struct {
	Verbose bool               // If set, logs every cycle. Set before Run.
	Log     logrus.FieldLogger // Logger for cycles and faults.

	config    Config
	memory    *memory.Memory
	clock     *clock.Clock
	set       instruction.Set
	history   *instruction.History
	registers *memory.RegisterHolder
	flags     *memory.FlagHolder

	ip memory.Register
	sp memory.Register

	source wallclock.Clock // Clock time source, nil for the wall clock.

	running  atomic.Bool
	paused   atomic.Bool
	stepping atomic.Bool
	started  atomic.Pointer[time.Time]

	keyPressed  atomic.Int32
	charPressed atomic.Int32
}

var _ Machine = (*Processor)(nil)

// Option configures a Processor.
type Option func(p *Processor)

// WithClockSource drives the clock gate from source, ie a wallclock.Mock.
func WithClockSource(source wallclock.Clock) Option {
	return func(p *Processor) {
		p.source = source
	}
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Processor) {
		p.Log = log
	}
}

// NewProcessor builds a processor from a configuration and instruction set.
func NewProcessor(cfg Config, set instruction.Set, opts ...Option) (p *Processor, err error) {
	err = cfg.Validate()
	if err != nil {
		return
	}

	if set == nil {
		err = ErrInstructionSet
		return
	}

	word, err := cfg.Word()
	if err != nil {
		return
	}

	p = &Processor{
		Log:     logrus.StandardLogger(),
		config:  cfg,
		memory:  memory.NewMemory(cfg.MemorySize, word),
		set:     set,
		history: instruction.NewHistory(cfg.HistoryCapacity),
	}

	for _, opt := range opts {
		opt(p)
	}

	var clockOpts []clock.Option
	if p.source != nil {
		clockOpts = append(clockOpts, clock.WithSource(p.source))
	}

	p.clock, err = clock.NewClock(cfg.Frequency, clockOpts...)
	if err != nil {
		p = nil
		return
	}

	regs := make([]memory.Register, len(_registers))
	for n, layout := range _registers {
		regs[n], err = memory.NewMemoryRegister(p.memory, layout.address, layout.name)
		if err != nil {
			p = nil
			return
		}
	}

	flags := make([]memory.Flag, len(_flags))
	for n, layout := range _flags {
		flags[n], err = memory.NewMemoryFlag(p.memory, layout.address, layout.bit, layout.name)
		if err != nil {
			p = nil
			return
		}
	}

	p.registers, err = memory.NewRegisterHolder(regs...)
	if err != nil {
		p = nil
		return
	}

	p.flags, err = memory.NewFlagHolder(flags...)
	if err != nil {
		p = nil
		return
	}

	p.ip, _ = p.registers.Get(instruction.REG_IP)
	p.sp, _ = p.registers.Get(instruction.REG_SP)

	p.initRegisters()

	return
}

func (p *Processor) initRegisters() {
	p.ip.SetValue(PROGRAM_ADDRESS)
	p.sp.SetValue(uint32(p.memory.Size() - 1))
}

// Reset clears memory, history and control state, then re-initialises the
// registers. It is refused while the processor runs.
func (p *Processor) Reset() (err error) {
	if p.running.Load() {
		err = ErrRunning
		return
	}

	p.memory.Clear()
	p.history.Clear()
	p.paused.Store(false)
	p.stepping.Store(false)
	p.keyPressed.Store(0)
	p.charPressed.Store(0)
	p.initRegisters()

	return
}

// Config returns the configuration the processor was built from.
func (p *Processor) Config() Config {
	return p.config
}

// Registers returns the registers in layout order.
func (p *Processor) Registers() []memory.Register {
	return p.registers.Slice()
}

// Flags returns the flags in layout order.
func (p *Processor) Flags() []memory.Flag {
	return p.flags.Slice()
}

// Register finds a register by short name.
func (p *Processor) Register(name string) (memory.Register, error) {
	return p.registers.Get(name)
}

// Flag finds a flag by short name.
func (p *Processor) Flag(name string) (memory.Flag, error) {
	return p.flags.Get(name)
}

// RegisterSymbols returns the register names in layout order.
func (p *Processor) RegisterSymbols() (syms []memory.Symbol) {
	for reg := range p.registers.All() {
		syms = append(syms, reg)
	}
	return
}

// FlagSymbols returns the flag names in layout order.
func (p *Processor) FlagSymbols() (syms []memory.Symbol) {
	for flag := range p.flags.All() {
		syms = append(syms, flag)
	}
	return
}

// Defines iterates the symbols of the memory layout.
func (p *Processor) Defines() iter.Seq2[string, string] {
	return defines(p.config)
}

// Memory returns the processor memory.
func (p *Processor) Memory() *memory.Memory {
	return p.memory
}

// Clock returns the clock gate.
func (p *Processor) Clock() *clock.Clock {
	return p.clock
}

// InstructionSet returns the instruction set.
func (p *Processor) InstructionSet() instruction.Set {
	return p.set
}

// History returns the instruction history.
func (p *Processor) History() *instruction.History {
	return p.history
}

// KeyPressed returns the last key code reported by the host.
func (p *Processor) KeyPressed() int {
	return int(p.keyPressed.Load())
}

// SetKeyPressed reports a key code to the processor.
func (p *Processor) SetKeyPressed(key int) {
	p.keyPressed.Store(int32(key))
}

// CharPressed returns the last character reported by the host.
func (p *Processor) CharPressed() rune {
	return rune(p.charPressed.Load())
}

// SetCharPressed reports a character to the processor.
func (p *Processor) SetCharPressed(char rune) {
	p.charPressed.Store(int32(char))
}

// ProgramAddress returns the address programs are loaded at.
func (p *Processor) ProgramAddress() int {
	return PROGRAM_ADDRESS
}

// ReservedWords returns the number of words unavailable to programs.
func (p *Processor) ReservedWords() int {
	return RESERVED_WORDS
}

// LoadProgram writes words at the program address. A program that does not
// fit leaves memory untouched.
func (p *Processor) LoadProgram(words []uint32) (err error) {
	available := p.memory.Size() - RESERVED_WORDS
	if len(words) > available {
		err = &ErrProgramSize{Length: len(words), Available: available}
		return
	}

	err = p.memory.SetRange(PROGRAM_ADDRESS, words)
	return
}

// TimeRunning returns the time since Run started, or NOT_RUNNING.
func (p *Processor) TimeRunning() time.Duration {
	started := p.started.Load()
	if !p.running.Load() || started == nil {
		return NOT_RUNNING
	}

	return p.clock.Since(*started)
}

// Info summarises the processor for display.
func (p *Processor) Info() string {
	return f("\tClock:\t%v\n\tMemory:\t%vx%v Bytes\n\tInstructions:\t%v\n",
		internal.EngNotation(float64(p.clock.Frequency()), "Hz"),
		p.memory.Size(), p.memory.Word().Bytes,
		p.set.Len())
}
