// Package memory implements the word-addressed storage of the processor.
//
// A Memory is a fixed number of cells of one Word width. Registers and flags
// are not independent storage: a MemoryRegister is a view of one cell, and a
// MemoryFlag is a view of a single bit of one cell, so writes through a view
// and writes to the raw cell are always observed by each other.
//
// Dummy registers and flags carry only a name. They let tooling check
// symbolic references without building a live machine.
package memory
