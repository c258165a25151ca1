// Package compiler translates program source into bytecode.
//
// Runs of identical '+', '-', '>' and '<' commands fold into a single
// instruction carrying the run length. Loop brackets are resolved with an
// explicit stack of pending '[' records, so nesting depth is bounded only by
// memory.
package compiler

import (
	"io"
	"strings"

	"github.com/deepnoodle-ai/bfvm/bytecode"
	"github.com/deepnoodle-ai/bfvm/errz"
	"github.com/deepnoodle-ai/bfvm/internal/lexer"
	"github.com/deepnoodle-ai/bfvm/internal/token"
	"github.com/deepnoodle-ai/bfvm/op"
)

// DefaultName is the program name used when none is configured.
const DefaultName = "__main__"

// Config holds configuration for the compiler.
type Config struct {
	// Filename is recorded on the compiled code and on error locations.
	Filename string

	// Name is the program name recorded on the compiled code.
	Name string
}

// pendingBrace records a '[' whose matching ']' has not been seen yet.
type pendingBrace struct {
	position token.Position
	index    int
}

// Compiler holds the state of a single compilation. A Compiler may be reused;
// each Compile call starts from a clean state.
type Compiler struct {
	cfgFilename string
	filename    string
	name        string

	lexer        *lexer.Lexer
	current      token.Token
	instructions []bytecode.Instruction
	locations    []bytecode.SourceLocation
	braces       []pendingBrace
}

// New creates a compiler with the given configuration. A nil cfg is allowed.
func New(cfg *Config) *Compiler {
	c := &Compiler{name: DefaultName}
	if cfg != nil {
		c.cfgFilename = cfg.Filename
		if cfg.Name != "" {
			c.name = cfg.Name
		}
	}
	return c
}

// Compile reads the whole token stream from l and returns the compiled code.
func Compile(l *lexer.Lexer, cfg *Config) (*bytecode.Code, error) {
	return New(cfg).Compile(l)
}

// CompileString compiles an in-memory program.
func CompileString(source string, cfg *Config) (*bytecode.Code, error) {
	return CompileReader(strings.NewReader(source), cfg)
}

// CompileReader compiles the program read from r.
func CompileReader(r io.Reader, cfg *Config) (*bytecode.Code, error) {
	return Compile(lexer.New(lexer.NewSourceReader(r)), cfg)
}

// CompileFile compiles the program stored at path. The filename defaults to
// path when cfg does not set one.
func CompileFile(path string, cfg *Config) (*bytecode.Code, error) {
	src, err := lexer.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	fileCfg := Config{Filename: path}
	if cfg != nil {
		fileCfg.Name = cfg.Name
		if cfg.Filename != "" {
			fileCfg.Filename = cfg.Filename
		}
	}
	return Compile(lexer.New(src), &fileCfg)
}

// Compile reads the whole token stream from l and returns the compiled code.
// The returned code always ends with an END instruction.
func (c *Compiler) Compile(l *lexer.Lexer) (*bytecode.Code, error) {
	c.reset(l)
	if err := c.advance(); err != nil {
		return nil, err
	}
	for c.current.Type != token.EOF {
		if err := c.compileToken(); err != nil {
			return nil, err
		}
	}
	if len(c.braces) > 0 {
		// Report the outermost '[' that was never closed.
		return nil, c.errorAt(errz.ErrSyntax, errz.E2001, c.braces[0].position, "no matching ']'")
	}
	c.emit(bytecode.End(), c.current.Position)
	code := bytecode.NewCode(bytecode.CodeParams{
		Name:         c.name,
		Filename:     c.filename,
		Instructions: c.instructions,
		Locations:    c.locations,
	})
	return code, nil
}

func (c *Compiler) reset(l *lexer.Lexer) {
	c.lexer = l
	c.current = token.Token{Type: token.NONE}
	c.instructions = nil
	c.locations = nil
	c.braces = nil
	c.filename = c.cfgFilename
	if l != nil && c.filename == "" {
		c.filename = l.Filename()
	}
}

func (c *Compiler) compileToken() error {
	switch c.current.Type {
	case token.INCREMENT:
		return c.compileRun(op.AddByte, bytecode.MaxRunLength)
	case token.DECREMENT:
		return c.compileRun(op.SubByte, bytecode.MaxRunLength)
	case token.POINTER_RIGHT:
		return c.compileRun(op.AddPointer, bytecode.MaxPointerDelta)
	case token.POINTER_LEFT:
		return c.compileRun(op.SubPointer, bytecode.MaxPointerDelta)
	case token.OUTPUT:
		c.emit(bytecode.Write(), c.current.Position)
		return c.advance()
	case token.INPUT:
		c.emit(bytecode.Read(), c.current.Position)
		return c.advance()
	case token.LOOP_OPEN:
		return c.compileLoopOpen()
	case token.LOOP_CLOSE:
		return c.compileLoopClose()
	default:
		return c.errorAt(errz.ErrInternal, errz.E2003, c.current.Position,
			"invalid token: "+string(c.current.Type))
	}
}

// compileRun folds consecutive tokens of the current type into one
// instruction. A run longer than limit continues in a new instruction.
func (c *Compiler) compileRun(opcode op.Code, limit int) error {
	typ := c.current.Type
	for c.current.Type == typ {
		pos := c.current.Position
		var count int
		for c.current.Type == typ && count < limit {
			count++
			if err := c.advance(); err != nil {
				return err
			}
		}
		c.emit(runInstruction(opcode, count), pos)
	}
	return nil
}

func runInstruction(opcode op.Code, count int) bytecode.Instruction {
	switch opcode {
	case op.AddByte:
		return bytecode.AddByte(uint8(count))
	case op.SubByte:
		return bytecode.SubByte(uint8(count))
	case op.AddPointer:
		return bytecode.AddPointer(uint16(count))
	default:
		return bytecode.SubPointer(uint16(count))
	}
}

func (c *Compiler) compileLoopOpen() error {
	c.braces = append(c.braces, pendingBrace{
		position: c.current.Position,
		index:    len(c.instructions),
	})
	// Placeholder; the target is patched when the matching ']' is compiled.
	c.emit(bytecode.JumpIfZero(0), c.current.Position)
	return c.advance()
}

func (c *Compiler) compileLoopClose() error {
	if len(c.braces) == 0 {
		return c.errorAt(errz.ErrSyntax, errz.E2002, c.current.Position, "no matching '['")
	}
	open := c.braces[len(c.braces)-1]
	c.braces = c.braces[:len(c.braces)-1]

	jumpIndex := len(c.instructions)
	c.instructions[open.index] = bytecode.JumpIfZero(jumpIndex + 1)
	c.emit(bytecode.Jump(open.index), c.current.Position)
	return c.advance()
}

func (c *Compiler) advance() error {
	tok, err := c.lexer.Next()
	if err != nil {
		return err
	}
	c.current = tok
	return nil
}

func (c *Compiler) emit(instr bytecode.Instruction, pos token.Position) {
	c.instructions = append(c.instructions, instr)
	c.locations = append(c.locations, bytecode.SourceLocation{
		Line:   pos.Line,
		Column: pos.Column,
	})
}

func (c *Compiler) errorAt(kind errz.ErrorKind, code errz.ErrorCode, pos token.Position, msg string) error {
	return errz.NewAt(kind, code, errz.SourceLocation{
		Filename: c.filename,
		Line:     pos.Line,
		Column:   pos.Column,
	}, msg)
}
