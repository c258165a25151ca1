// Package lexer converts program source into a stream of command tokens.
package lexer

import (
	"strings"

	"github.com/deepnoodle-ai/bfvm/internal/token"
)

// Lexer filters a SourceReader down to command tokens. Every byte outside
// the command set is skipped.
type Lexer struct {
	src *SourceReader
}

// New returns a lexer reading from src.
func New(src *SourceReader) *Lexer {
	return &Lexer{src: src}
}

// NewString returns a lexer over an in-memory program.
func NewString(input string) *Lexer {
	return New(NewSourceReader(strings.NewReader(input)))
}

// Next returns the next command token, or an EOF token once the input is
// exhausted. Repeated calls after EOF keep returning EOF.
func (l *Lexer) Next() (token.Token, error) {
	for {
		ch, ok, err := l.src.Next()
		if err != nil {
			return token.Token{Type: token.NONE, Position: l.src.Position()}, err
		}
		if !ok {
			return token.Token{Type: token.EOF, Position: l.src.Position()}, nil
		}
		if typ, isCommand := token.LookupCommand(ch); isCommand {
			return token.Token{Type: typ, Position: l.src.Position()}, nil
		}
	}
}

// Position returns the position of the most recently consumed byte.
func (l *Lexer) Position() token.Position {
	return l.src.Position()
}

// Filename returns the name of the file being lexed, if known.
func (l *Lexer) Filename() string {
	return l.src.Filename()
}
