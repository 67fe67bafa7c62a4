// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package instruction

import (
	"github.com/ezrec/pemu/memory"
)

// Processor is the processor state an instruction may act upon.
type Processor interface {
	Memory() *memory.Memory
	Register(name string) (memory.Register, error)
	Flag(name string) (memory.Flag, error)
	KeyPressed() int
	CharPressed() rune
	Stop()
}

// Instruction is a single decodable operation.
type Instruction interface {
	Keyword() string    // Mnemonic, recorded in the history.
	WordLength() int    // Words occupied, opcode included.
	ArgumentCount() int // Argument words following the opcode.
	// Execute runs the instruction with its argument words.
	Execute(p Processor, args []uint32) error
}

// Set maps opcode words to instructions.
type Set interface {
	Instruction(opcode uint32) (inst Instruction, ok bool)
	Opcode(keyword string) (opcode uint32, ok bool)
	Len() int
}

// Func is an Instruction backed by a function.
type Func struct {
	Name string
	Args int
	Exec func(p Processor, args []uint32) error
}

var _ Instruction = (*Func)(nil)

func (fn *Func) Keyword() string {
	return fn.Name
}

func (fn *Func) WordLength() int {
	return fn.Args + 1
}

func (fn *Func) ArgumentCount() int {
	return fn.Args
}

func (fn *Func) Execute(p Processor, args []uint32) (err error) {
	if len(args) != fn.Args {
		err = ErrArguments
		return
	}

	if fn.Exec == nil {
		return
	}

	err = fn.Exec(p, args)
	return
}

// Table is a Set where the opcode is the index of the instruction.
type Table struct {
	inst    []Instruction
	keyword map[string]uint32
}

var _ Set = (*Table)(nil)

// NewTable creates a table with opcodes assigned in order, from 0.
func NewTable(insts ...Instruction) (table *Table, err error) {
	table = &Table{
		inst:    make([]Instruction, 0, len(insts)),
		keyword: make(map[string]uint32, len(insts)),
	}

	for _, inst := range insts {
		keyword := inst.Keyword()
		if len(keyword) == 0 {
			err = &ErrKeyword{Keyword: keyword, Err: ErrKeywordEmpty}
			table = nil
			return
		}
		if _, ok := table.keyword[keyword]; ok {
			err = &ErrKeyword{Keyword: keyword, Err: ErrKeywordDuplicate}
			table = nil
			return
		}
		table.keyword[keyword] = uint32(len(table.inst))
		table.inst = append(table.inst, inst)
	}

	return
}

// Instruction decodes an opcode.
func (table *Table) Instruction(opcode uint32) (inst Instruction, ok bool) {
	if uint64(opcode) >= uint64(len(table.inst)) {
		return
	}

	inst = table.inst[opcode]
	ok = true
	return
}

// Opcode encodes a keyword.
func (table *Table) Opcode(keyword string) (opcode uint32, ok bool) {
	opcode, ok = table.keyword[keyword]
	return
}

// Len returns the number of instructions.
func (table *Table) Len() int {
	return len(table.inst)
}

// Keywords returns the keywords in opcode order.
func (table *Table) Keywords() (keywords []string) {
	for _, inst := range table.inst {
		keywords = append(keywords, inst.Keyword())
	}
	return
}
