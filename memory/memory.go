// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package memory

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Memory is a fixed size sequence of words, addressed 0 to Size()-1.
//
// Memory is safe for concurrent use. Readers running alongside the
// processor see a snapshot that may be one cycle stale.
type Memory struct {
	word Word

	mutex sync.RWMutex
	cell  []uint32
}

// NewMemory creates a zeroed memory of size words.
func NewMemory(size int, word Word) (mem *Memory) {
	mem = &Memory{
		word: word,
		cell: make([]uint32, max(size, 0)),
	}

	return
}

// Size returns the number of words in the memory.
func (mem *Memory) Size() int {
	return len(mem.cell)
}

// Word returns the word width of each cell.
func (mem *Memory) Word() Word {
	return mem.word
}

func (mem *Memory) check(address int, count int) (err error) {
	if address < 0 || count < 0 || address+count > len(mem.cell) {
		err = &ErrAddress{Address: address, Count: count, Size: len(mem.cell)}
	}
	return
}

// Get reads the word at address.
func (mem *Memory) Get(address int) (value uint32, err error) {
	err = mem.check(address, 1)
	if err != nil {
		return
	}

	mem.mutex.RLock()
	value = mem.cell[address]
	mem.mutex.RUnlock()

	return
}

// Set writes value, masked to the word width, at address.
func (mem *Memory) Set(address int, value uint32) (err error) {
	err = mem.check(address, 1)
	if err != nil {
		return
	}

	mem.mutex.Lock()
	mem.cell[address] = value & mem.word.Mask
	mem.mutex.Unlock()

	return
}

// Update replaces the word at address with fn(old) as a single operation.
func (mem *Memory) Update(address int, fn func(old uint32) uint32) (err error) {
	err = mem.check(address, 1)
	if err != nil {
		return
	}

	mem.mutex.Lock()
	mem.cell[address] = fn(mem.cell[address]) & mem.word.Mask
	mem.mutex.Unlock()

	return
}

// GetRange reads count words starting at address.
func (mem *Memory) GetRange(address int, count int) (values []uint32, err error) {
	err = mem.check(address, count)
	if err != nil {
		return
	}

	values = make([]uint32, count)

	mem.mutex.RLock()
	copy(values, mem.cell[address:address+count])
	mem.mutex.RUnlock()

	return
}

// SetRange writes values starting at address.
// The whole range is checked first; on error memory is left untouched.
func (mem *Memory) SetRange(address int, values []uint32) (err error) {
	err = mem.check(address, len(values))
	if err != nil {
		return
	}

	mem.mutex.Lock()
	for n, value := range values {
		mem.cell[address+n] = value & mem.word.Mask
	}
	mem.mutex.Unlock()

	return
}

// Clear zeroes every word.
func (mem *Memory) Clear() {
	mem.mutex.Lock()
	clear(mem.cell)
	mem.mutex.Unlock()
}

// load skips the bounds check, for views validated at creation.
func (mem *Memory) load(address int) (value uint32) {
	mem.mutex.RLock()
	value = mem.cell[address]
	mem.mutex.RUnlock()
	return
}

// Marshal writes the memory image as little-endian words.
func (mem *Memory) Marshal(file io.Writer) (err error) {
	out := bufio.NewWriter(file)

	mem.mutex.RLock()
	for _, value := range mem.cell {
		_, err = out.Write(mem.word.Split(value))
		if err != nil {
			break
		}
	}
	mem.mutex.RUnlock()
	if err != nil {
		return
	}

	err = out.Flush()
	return
}

// Unmarshal loads a memory image written by Marshal, starting at address 0.
// A short image leaves the remaining words untouched.
func (mem *Memory) Unmarshal(file io.Reader) (err error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return
	}

	words := (len(data) + mem.word.Bytes - 1) / mem.word.Bytes
	err = mem.check(0, words)
	if err != nil {
		return
	}

	mem.mutex.Lock()
	for n := range words {
		chunk := data[n*mem.word.Bytes : min((n+1)*mem.word.Bytes, len(data))]
		mem.cell[n] = mem.word.Combine(chunk...)
	}
	mem.mutex.Unlock()

	return
}

// String dumps the memory as rows of 8 hexadecimal words.
func (mem *Memory) String() string {
	return mem.Dump(8)
}

// Dump renders the memory as rows of width hexadecimal words, each row
// prefixed by its starting address.
func (mem *Memory) Dump(width int) string {
	if width < 1 {
		width = 8
	}

	digits := mem.word.Bytes * 2

	var text strings.Builder

	mem.mutex.RLock()
	defer mem.mutex.RUnlock()

	for n, value := range mem.cell {
		if n%width == 0 {
			if n != 0 {
				text.WriteString("\n")
			}
			fmt.Fprintf(&text, "%04x:", n)
		}
		fmt.Fprintf(&text, " %0*x", digits, value)
	}
	if len(mem.cell) > 0 {
		text.WriteString("\n")
	}

	return text.String()
}
