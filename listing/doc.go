// Package listing loads program words from a text listing.
//
// A listing is a sequence of whitespace separated tokens, one or more per
// line, each producing one memory word. A token may be an instruction
// keyword, a number, a character literal, a label, an equate, or a $(...)
// expression evaluated at load time. Comments start with ';'.
//
// Directives:
//
//	.equ NAME VALUE      ; define an equate
//	.macro NAME ARG...   ; start a macro; '@' in its body is a unique prefix
//	.endm                ; end a macro
//	NAME:                ; label the next word
package listing
