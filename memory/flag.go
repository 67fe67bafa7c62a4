package memory

import (
	"fmt"
)

// Flag is a named bit of processor state.
type Flag interface {
	Symbol
	Address() int
	Bit() int
	Value() bool
	SetValue(value bool) (old bool)
}

// MemoryFlag is a view of a single bit of one memory cell.
type MemoryFlag struct {
	symbol
	mem     *Memory
	address int
	bit     int
}

var _ Flag = (*MemoryFlag)(nil)

// NewMemoryFlag binds a named flag to bit of the cell at address.
func NewMemoryFlag(mem *Memory, address int, bit int, name string) (flag *MemoryFlag, err error) {
	err = mem.check(address, 1)
	if err != nil {
		return
	}

	if bit < 0 || bit >= mem.word.Bits {
		err = fmt.Errorf("%w: %d", ErrBitInvalid, bit)
		return
	}

	flag = &MemoryFlag{
		symbol:  newSymbol(name),
		mem:     mem,
		address: address,
		bit:     bit,
	}
	return
}

// Address returns the bound memory address.
func (flag *MemoryFlag) Address() int {
	return flag.address
}

// Bit returns the bound bit index.
func (flag *MemoryFlag) Bit() int {
	return flag.bit
}

// Value reads the bound bit.
func (flag *MemoryFlag) Value() bool {
	return (flag.mem.load(flag.address)>>flag.bit)&1 != 0
}

// SetValue sets or clears the bound bit, returning the previous value.
// No other bit of the cell is changed.
func (flag *MemoryFlag) SetValue(value bool) (old bool) {
	mask := uint32(1) << flag.bit
	flag.mem.Update(flag.address, func(prior uint32) uint32 {
		old = (prior & mask) != 0
		if value {
			return prior | mask
		}
		return prior & ^mask
	})
	return
}

func (flag *MemoryFlag) String() string {
	return fmt.Sprintf("%v: %v", flag.short, flag.Value())
}
