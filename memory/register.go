package memory

import (
	"fmt"
)

// Register is a named word of processor state.
type Register interface {
	Symbol
	Address() int
	Value() uint32
	SetValue(value uint32) (old uint32)
}

// MemoryRegister is a view of one memory cell.
type MemoryRegister struct {
	symbol
	mem     *Memory
	address int
}

var _ Register = (*MemoryRegister)(nil)

// NewMemoryRegister binds a named register to the cell at address.
func NewMemoryRegister(mem *Memory, address int, name string) (reg *MemoryRegister, err error) {
	err = mem.check(address, 1)
	if err != nil {
		return
	}

	reg = &MemoryRegister{
		symbol:  newSymbol(name),
		mem:     mem,
		address: address,
	}
	return
}

// Address returns the bound memory address.
func (reg *MemoryRegister) Address() int {
	return reg.address
}

// Value reads the bound memory cell.
func (reg *MemoryRegister) Value() uint32 {
	return reg.mem.load(reg.address)
}

// SetValue writes the bound memory cell, returning the previous value.
func (reg *MemoryRegister) SetValue(value uint32) (old uint32) {
	reg.mem.Update(reg.address, func(prior uint32) uint32 {
		old = prior
		return value
	})
	return
}

func (reg *MemoryRegister) String() string {
	return fmt.Sprintf("%v: %#x", reg.short, reg.Value())
}
