package memory

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Symbol is the identity of a register or flag.
type Symbol interface {
	Name() string      // Full name, ie "Instruction Pointer".
	ShortName() string // Lookup name, ie "IP".
}

// ShortName builds the upper-cased initials of a full name.
func ShortName(name string) string {
	var short strings.Builder
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		short.WriteRune(unicode.ToUpper(r))
	}
	return short.String()
}

type symbol struct {
	name  string
	short string
}

func newSymbol(name string) symbol {
	return symbol{name: name, short: ShortName(name)}
}

func (sym symbol) Name() string {
	return sym.name
}

func (sym symbol) ShortName() string {
	return sym.short
}

// DummyRegister is a register with a name and nothing else.
type DummyRegister struct {
	symbol
}

// NewDummyRegister creates a named register with no value semantics.
func NewDummyRegister(name string) *DummyRegister {
	return &DummyRegister{symbol: newSymbol(name)}
}

// DummyFlag is a flag with a name and nothing else.
type DummyFlag struct {
	symbol
}

// NewDummyFlag creates a named flag with no value semantics.
func NewDummyFlag(name string) *DummyFlag {
	return &DummyFlag{symbol: newSymbol(name)}
}
