package memory

import (
	"fmt"
	"iter"
	"slices"
)

// Holder is an ordered collection of symbols, looked up by short name.
type Holder[T Symbol] struct {
	items []T
	index map[string]int
}

// RegisterHolder holds the registers of a processor.
type RegisterHolder = Holder[Register]

// FlagHolder holds the flags of a processor.
type FlagHolder = Holder[Flag]

// NewHolder collects items in order. Short names must be unique.
func NewHolder[T Symbol](items ...T) (holder *Holder[T], err error) {
	holder = &Holder[T]{
		index: make(map[string]int, len(items)),
	}

	for _, item := range items {
		err = holder.Add(item)
		if err != nil {
			holder = nil
			return
		}
	}

	return
}

// NewRegisterHolder collects registers in order.
func NewRegisterHolder(regs ...Register) (*RegisterHolder, error) {
	return NewHolder(regs...)
}

// NewFlagHolder collects flags in order.
func NewFlagHolder(flags ...Flag) (*FlagHolder, error) {
	return NewHolder(flags...)
}

// Add appends an item. Duplicate short names are rejected.
func (holder *Holder[T]) Add(item T) (err error) {
	short := item.ShortName()
	if _, ok := holder.index[short]; ok {
		err = fmt.Errorf("%w: %v", ErrDuplicateName, short)
		return
	}

	if holder.index == nil {
		holder.index = make(map[string]int)
	}
	holder.index[short] = len(holder.items)
	holder.items = append(holder.items, item)

	return
}

// Get finds an item by its exact short name.
func (holder *Holder[T]) Get(name string) (item T, err error) {
	n, ok := holder.index[name]
	if !ok {
		err = ErrNameMissing(name)
		return
	}

	item = holder.items[n]
	return
}

// Len returns the number of items.
func (holder *Holder[T]) Len() int {
	return len(holder.items)
}

// All iterates the items in insertion order.
func (holder *Holder[T]) All() iter.Seq[T] {
	return slices.Values(holder.items)
}

// Slice returns a copy of the items in insertion order.
func (holder *Holder[T]) Slice() []T {
	return slices.Clone(holder.items)
}

// Names iterates the short names in insertion order.
func (holder *Holder[T]) Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, item := range holder.items {
			if !yield(item.ShortName()) {
				return
			}
		}
	}
}
