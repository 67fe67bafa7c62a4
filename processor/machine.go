package processor

import (
	"context"
	"iter"
	"time"

	"github.com/ezrec/pemu/clock"
	"github.com/ezrec/pemu/instruction"
	"github.com/ezrec/pemu/memory"
)

// Symbols is the naming surface shared by a processor and its dummy.
type Symbols interface {
	Config() Config
	RegisterSymbols() []memory.Symbol
	FlagSymbols() []memory.Symbol
	Defines() iter.Seq2[string, string]
}

// Machine is the surface a host application drives.
type Machine interface {
	instruction.Processor
	Symbols

	Registers() []memory.Register
	Flags() []memory.Flag
	Clock() *clock.Clock
	InstructionSet() instruction.Set
	History() *instruction.History
	SetKeyPressed(key int)
	SetCharPressed(char rune)

	LoadProgram(words []uint32) error
	TimeRunning() time.Duration
	Info() string

	Run() error
	RunContext(ctx context.Context) error
	Pause()
	Resume()
	Step()
	IsRunning() bool
	IsPaused() bool
}
