// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package listing

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/pemu/instruction"
)

// Macro is a macro definition in a listing.
type Macro struct {
	LineNo int      // Line number of the first line of the macro body.
	Args   []string // Argument names, bound as equates during expansion.
	Lines  []string // Body lines.
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
	reSymbol     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

type link struct {
	index  int
	symbol string
	lineNo int
	line   string
}

// Loader is a single pass listing loader.
type Loader struct {
	Verbose bool               // If set, logs every line.
	Log     logrus.FieldLogger // Logger for Verbose output.
	Set     instruction.Set    // Instruction keywords, may be nil.
	Origin  int                // Address of the first word, for labels.

	Words  []uint32          // Loaded words.
	Label  map[string]int    // Map of labels to addresses.
	Equate map[string]string // Map of equates.
	Macro  map[string]*Macro // Map of macros.

	predefine map[string]string
	links     []link
}

// Predefine defines an equate present at the start of every Parse.
func (ld *Loader) Predefine(name string, value string) {
	if ld.predefine == nil {
		ld.predefine = map[string]string{}
	}
	ld.predefine[name] = value
}

func (ld *Loader) log() logrus.FieldLogger {
	if ld.Log == nil {
		return logrus.StandardLogger()
	}
	return ld.Log
}

// valueOf returns the value of a numeric word.
func valueOf(word string) (value uint32, err error) {
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
		if len(word) == 0 {
			err = ErrParseNumber("~")
			return
		}
	}
	if word[0] == '\'' {
		err = ErrParseCharacter(strings.Trim(word, "'"))
		return
	}
	v64, err := strconv.ParseInt(word, 0, 33)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = uint32(v64)
	if invert {
		value = ^value
	}

	return
}

// character replaces a 'c' literal with its code point.
func character(word string) string {
	str := word[1 : len(word)-1]
	if str[0] == '\\' {
		switch str[1:] {
		case "\\":
			str = "\\"
		case "n":
			str = "\n"
		case "r":
			str = "\r"
		case "t":
			str = "\t"
		case "0":
			str = "\000"
		case "e":
			str = "\033"
		default:
			return word
		}
	}

	r, size := utf8.DecodeRuneInString(str)
	if size != len(str) {
		return word
	}

	return fmt.Sprintf("%d", r)
}

// parenEval evaluates $(...) expressions over the integer equates and the
// labels defined so far.
func (ld *Loader) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{Name: "listing"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range ld.Equate {
		if !reSymbol.MatchString(key) {
			continue
		}
		value32, verr := valueOf(str)
		if verr != nil {
			// Non-numeric equates are not visible to expressions.
			continue
		}
		pred[key] = starlark.MakeInt64(int64(value32))
	}
	for key, addr := range ld.Label {
		pred[key] = starlark.MakeInt(addr)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrParseExpression(expr), err)
		return
	}
	rc, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	i64, ok := rc.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(i64)
	return
}

// parseLine expands a line into words, handling directives, labels and
// macros. Macro bodies are loaded directly.
func (ld *Loader) parseLine(line string, lineNo int) (words []string, err error) {
	ld.Equate["LINENO"] = fmt.Sprintf("%v", lineNo)

	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := ld.parenEval(str[2 : len(str)-1])
		if _err != nil && err == nil {
			err = _err
		}
		return fmt.Sprintf("%#x", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// .equ NAME VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		if _, ok := ld.Equate[words[1]]; ok {
			err = ErrEquateDuplicate
			return
		}
		ld.Equate[words[1]] = words[2]
		words = nil
		return
	}

	for n, word := range words {
		if equate, ok := ld.Equate[word]; ok {
			words[n] = equate
		}
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if _, ok := ld.Label[label]; ok {
			err = ErrLabelDuplicate
			return
		}
		ld.Label[label] = ld.Origin + len(ld.Words)
		words = words[1:]
	}

	if len(words) == 0 {
		return
	}

	macro, ok := ld.Macro[words[0]]
	if !ok {
		return
	}

	name := words[0]
	args := words[1:]
	if len(args) != len(macro.Args) {
		err = ErrMacroSyntax
		return
	}

	saved := maps.Clone(ld.Equate)
	defer func() { ld.Equate = saved }()
	for n, arg := range macro.Args {
		ld.Equate[arg] = args[n]
	}

	for n, body := range macro.Lines {
		bodyNo := macro.LineNo + n
		body = strings.ReplaceAll(body, "@", fmt.Sprintf("%v_%v_", name, lineNo))

		var bodyWords []string
		bodyWords, err = ld.parseLine(body, bodyNo)
		if err == nil {
			err = ld.parseWords(bodyWords, bodyNo, body)
		}
		if err != nil {
			err = &ErrMacro{Macro: name, Line: bodyNo, Err: err}
			return
		}
	}

	words = nil
	return
}

// parseWords converts each word to a memory word.
func (ld *Loader) parseWords(words []string, lineNo int, line string) (err error) {
	for _, word := range words {
		if ld.Set != nil {
			if op, ok := ld.Set.Opcode(word); ok {
				ld.Words = append(ld.Words, op)
				continue
			}
			if op, ok := ld.Set.Opcode(strings.ToUpper(word)); ok {
				ld.Words = append(ld.Words, op)
				continue
			}
		}

		if addr, ok := ld.Label[word]; ok {
			ld.Words = append(ld.Words, uint32(addr))
			continue
		}

		var value uint32
		value, err = valueOf(word)
		if err != nil {
			if !reSymbol.MatchString(word) {
				return
			}
			// Possibly a forward label.
			err = nil
			ld.links = append(ld.links, link{index: len(ld.Words), symbol: word, lineNo: lineNo, line: line})
		}

		ld.Words = append(ld.Words, value)
	}

	return
}

// Parse loads the words of a listing.
func (ld *Loader) Parse(input io.Reader) (words []uint32, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineNo int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineNo, Line: line, Err: err}
		}
	}()

	ld.Words = nil
	ld.links = nil
	ld.Label = map[string]int{}
	ld.Macro = map[string]*Macro{}
	ld.Equate = map[string]string{"LINENO": "0"}
	maps.Copy(ld.Equate, ld.predefine)

	for scanner.Scan() {
		text := scanner.Text()
		lineNo++

		if ld.Verbose {
			ld.log().WithField("line", lineNo).Debug(text)
		}

		text = reCharacter.ReplaceAllStringFunc(text, character)
		line, _, _ = strings.Cut(text, ";")
		line = strings.TrimSpace(line)

		fields := strings.Fields(line)

		// .macro NAME ARG...
		if len(fields) > 0 && fields[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(fields) < 2 {
				err = ErrMacroSyntax
				return
			}
			if _, ok := ld.Macro[fields[1]]; ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineNo + 1,
				Args:   fields[2:],
			}
			ld.Macro[fields[1]] = macro
			continue
		}

		if len(fields) > 0 && fields[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		var lineWords []string
		lineWords, err = ld.parseLine(line, lineNo)
		if err != nil {
			return
		}

		err = ld.parseWords(lineWords, lineNo, line)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	for _, link := range ld.links {
		addr, ok := ld.Label[link.symbol]
		if !ok {
			lineNo, line = link.lineNo, link.line
			err = ErrSymbolMissing(link.symbol)
			return
		}
		ld.Words[link.index] = uint32(addr)
	}

	words = ld.Words
	return
}
