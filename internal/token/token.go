// Package token defines the command symbols recognized when lexing source code.
package token

import "fmt"

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in the source. Line is 1-indexed.
// Column is 1-indexed once a character has been read on the line; the zero
// column is the state before the first read.
type Position struct {
	Line   int
	Column int
}

// StartPosition is the position of a reader before any input is consumed.
var StartPosition = Position{Line: 1, Column: 0}

// String returns the position formatted as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token represents one command lexed from the input source code.
type Token struct {
	Type     Type
	Position Position
}

// Token types
const (
	INCREMENT     Type = "+"
	DECREMENT     Type = "-"
	POINTER_RIGHT Type = ">"
	POINTER_LEFT  Type = "<"
	OUTPUT        Type = "."
	INPUT         Type = ","
	LOOP_OPEN     Type = "["
	LOOP_CLOSE    Type = "]"
	EOF           Type = "EOF"
	NONE          Type = "NONE"
)

var commands = map[byte]Type{
	'+': INCREMENT,
	'-': DECREMENT,
	'>': POINTER_RIGHT,
	'<': POINTER_LEFT,
	'.': OUTPUT,
	',': INPUT,
	'[': LOOP_OPEN,
	']': LOOP_CLOSE,
}

// LookupCommand returns the token type for a command byte. The second result
// is false for any byte outside the command set.
func LookupCommand(ch byte) (Type, bool) {
	typ, ok := commands[ch]
	if !ok {
		return NONE, false
	}
	return typ, true
}
