package processor

import (
	"errors"

	"github.com/ezrec/pemu/translate"
)

var f = translate.From

var (
	ErrConfig             = errors.New(f("invalid configuration"))
	ErrProgramTooLarge    = errors.New(f("program too large"))
	ErrInstructionUnknown = errors.New(f("unknown instruction"))
	ErrExecutionFailed    = errors.New(f("execution failed"))
	ErrRunning            = errors.New(f("processor running"))
	ErrInstructionSet     = errors.New(f("instruction set missing"))
)

// ErrConfigValue reports a rejected configuration field.
type ErrConfigValue struct {
	Field string
	Value any
	Err   error
}

func (err *ErrConfigValue) Error() string {
	if err.Err != nil {
		return f("config %v = %v: %v", err.Field, err.Value, err.Err)
	}
	return f("config %v = %v invalid", err.Field, err.Value)
}

func (err *ErrConfigValue) Unwrap() []error {
	if err.Err != nil {
		return []error{ErrConfig, err.Err}
	}
	return []error{ErrConfig}
}

// ErrProgramSize reports a program that does not fit the free memory.
type ErrProgramSize struct {
	Length    int
	Available int
}

func (err *ErrProgramSize) Error() string {
	return f("program of %d words does not fit in %d free words", err.Length, err.Available)
}

func (err *ErrProgramSize) Unwrap() error {
	return ErrProgramTooLarge
}

// ErrUnknownInstruction reports an opcode with no instruction.
type ErrUnknownInstruction struct {
	Address int
	Opcode  uint32
}

func (err *ErrUnknownInstruction) Error() string {
	return f("unknown instruction %#x at %d", err.Opcode, err.Address)
}

func (err *ErrUnknownInstruction) Unwrap() error {
	return ErrInstructionUnknown
}

// ErrExecution reports the failure of an instruction.
type ErrExecution struct {
	Keyword string
	Address int
	Err     error
}

func (err *ErrExecution) Error() string {
	return f("%v at %d: %v", err.Keyword, err.Address, err.Err)
}

func (err *ErrExecution) Unwrap() []error {
	return []error{ErrExecutionFailed, err.Err}
}
