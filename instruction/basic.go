// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package instruction

import (
	"github.com/ezrec/pemu/memory"
)

// Register and flag short names used by the BASIC set.
const (
	REG_IP     = "IP" // Instruction Pointer
	REG_SP     = "SP" // Stack Pointer
	FLAG_ZERO  = "ZF" // Zero Flag
	FLAG_CARRY = "CF" // Carry Flag
)

// BASIC is the reference instruction set. Arguments are memory addresses,
// except for DATA's value and the jump targets.
var BASIC = mustTable(
	&Func{Name: "NULL"},
	&Func{Name: "MOV", Args: 2, Exec: execMov},
	&Func{Name: "SWP", Args: 2, Exec: execSwp},
	&Func{Name: "DATA", Args: 2, Exec: execData},
	&Func{Name: "JMP", Args: 1, Exec: jumpIf("", true)},
	&Func{Name: "JZ", Args: 1, Exec: jumpIf(FLAG_ZERO, true)},
	&Func{Name: "JNZ", Args: 1, Exec: jumpIf(FLAG_ZERO, false)},
	&Func{Name: "JC", Args: 1, Exec: jumpIf(FLAG_CARRY, true)},
	&Func{Name: "JNC", Args: 1, Exec: jumpIf(FLAG_CARRY, false)},
	&Func{Name: "CMP", Args: 2, Exec: execCmp},
	&Func{Name: "INC", Args: 1, Exec: execInc},
	&Func{Name: "DEC", Args: 1, Exec: execDec},
	&Func{Name: "ADD", Args: 2, Exec: execAdd},
	&Func{Name: "SUB", Args: 2, Exec: execSub},
	&Func{Name: "PUSH", Args: 1, Exec: execPush},
	&Func{Name: "POP", Args: 1, Exec: execPop},
	&Func{Name: "CALL", Args: 1, Exec: execCall},
	&Func{Name: "RET", Exec: execRet},
	&Func{Name: "HLT", Exec: execHlt},
)

func mustTable(insts ...Instruction) *Table {
	table, err := NewTable(insts...)
	if err != nil {
		panic(err)
	}
	return table
}

func execMov(p Processor, args []uint32) (err error) {
	mem := p.Memory()
	value, err := mem.Get(int(args[1]))
	if err != nil {
		return
	}
	err = mem.Set(int(args[0]), value)
	return
}

func execSwp(p Processor, args []uint32) (err error) {
	mem := p.Memory()
	values, err := getValues(mem, args...)
	if err != nil {
		return
	}
	err = mem.Set(int(args[0]), values[1])
	if err != nil {
		return
	}
	err = mem.Set(int(args[1]), values[0])
	return
}

func execData(p Processor, args []uint32) (err error) {
	err = p.Memory().Set(int(args[0]), args[1])
	return
}

func jumpIf(flag string, want bool) func(p Processor, args []uint32) error {
	return func(p Processor, args []uint32) (err error) {
		if len(flag) != 0 {
			var fl memory.Flag
			fl, err = p.Flag(flag)
			if err != nil {
				return
			}
			if fl.Value() != want {
				return
			}
		}

		ip, err := p.Register(REG_IP)
		if err != nil {
			return
		}
		ip.SetValue(args[0])
		return
	}
}

func execCmp(p Processor, args []uint32) (err error) {
	values, err := getValues(p.Memory(), args...)
	if err != nil {
		return
	}
	err = setFlags(p, values[0] == values[1], values[0] < values[1])
	return
}

// arith applies op to the word at args[0], setting ZF on a zero result and
// CF when the result does not fit the word.
func arith(p Processor, args []uint32, op func(a, b uint64) uint64, operand func(values []uint32) uint32) (err error) {
	mem := p.Memory()
	values, err := getValues(mem, args...)
	if err != nil {
		return
	}

	mask := uint64(mem.Word().Mask)
	full := op(uint64(values[0]), uint64(operand(values)))
	result := full & mask

	err = mem.Set(int(args[0]), uint32(result))
	if err != nil {
		return
	}

	err = setFlags(p, result == 0, full != result)
	return
}

func add(a, b uint64) uint64 { return a + b }

// sub wraps below zero to a value above the word mask, so the carry
// reports the borrow.
func sub(a, b uint64) uint64 { return a - b }

func one(_ []uint32) uint32 { return 1 }

func second(values []uint32) uint32 { return values[1] }

func execInc(p Processor, args []uint32) error { return arith(p, args, add, one) }

func execDec(p Processor, args []uint32) error { return arith(p, args, sub, one) }

func execAdd(p Processor, args []uint32) error { return arith(p, args, add, second) }

func execSub(p Processor, args []uint32) error { return arith(p, args, sub, second) }

func execPush(p Processor, args []uint32) (err error) {
	value, err := p.Memory().Get(int(args[0]))
	if err != nil {
		return
	}
	err = push(p, value)
	return
}

func execPop(p Processor, args []uint32) (err error) {
	value, err := pop(p)
	if err != nil {
		return
	}
	err = p.Memory().Set(int(args[0]), value)
	return
}

func execCall(p Processor, args []uint32) (err error) {
	ip, err := p.Register(REG_IP)
	if err != nil {
		return
	}
	err = push(p, ip.Value())
	if err != nil {
		return
	}
	ip.SetValue(args[0])
	return
}

func execRet(p Processor, args []uint32) (err error) {
	ip, err := p.Register(REG_IP)
	if err != nil {
		return
	}
	value, err := pop(p)
	if err != nil {
		return
	}
	ip.SetValue(value)
	return
}

func execHlt(p Processor, args []uint32) (err error) {
	p.Stop()
	return
}

// push writes at SP, then moves SP down. The stack grows towards address 0.
func push(p Processor, value uint32) (err error) {
	sp, err := p.Register(REG_SP)
	if err != nil {
		return
	}

	top := sp.Value()
	if top == 0 {
		err = ErrStackFull
		return
	}

	err = p.Memory().Set(int(top), value)
	if err != nil {
		return
	}
	sp.SetValue(top - 1)
	return
}

// pop moves SP up, then reads at SP.
func pop(p Processor) (value uint32, err error) {
	sp, err := p.Register(REG_SP)
	if err != nil {
		return
	}

	top := int(sp.Value()) + 1
	if top >= p.Memory().Size() {
		err = ErrStackEmpty
		return
	}

	value, err = p.Memory().Get(top)
	if err != nil {
		return
	}
	sp.SetValue(uint32(top))
	return
}

func setFlags(p Processor, zero bool, carry bool) (err error) {
	zf, err := p.Flag(FLAG_ZERO)
	if err != nil {
		return
	}
	cf, err := p.Flag(FLAG_CARRY)
	if err != nil {
		return
	}
	zf.SetValue(zero)
	cf.SetValue(carry)
	return
}

func getValues(mem *memory.Memory, addrs ...uint32) (values []uint32, err error) {
	values = make([]uint32, len(addrs))
	for n, addr := range addrs {
		values[n], err = mem.Get(int(addr))
		if err != nil {
			return
		}
	}
	return
}
