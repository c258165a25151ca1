package bytecode

import (
	"fmt"

	"github.com/deepnoodle-ai/bfvm/op"
)

// Code represents a compiled program. It is immutable after creation and
// safe for concurrent use.
type Code struct {
	name         string
	filename     string
	instructions []Instruction

	// Source map: one location per instruction for error reporting
	locations []SourceLocation
}

// CodeParams contains parameters for creating a new Code.
type CodeParams struct {
	Name         string
	Filename     string
	Instructions []Instruction
	Locations    []SourceLocation
}

// NewCode creates a new immutable Code from the given parameters.
// Input slices are copied so later caller mutation has no effect.
func NewCode(params CodeParams) *Code {
	code := &Code{
		name:     params.Name,
		filename: params.Filename,
	}
	if len(params.Instructions) > 0 {
		code.instructions = make([]Instruction, len(params.Instructions))
		copy(code.instructions, params.Instructions)
	}
	if len(params.Locations) > 0 {
		code.locations = make([]SourceLocation, len(params.Locations))
		copy(code.locations, params.Locations)
	}
	return code
}

// Name returns the name of the program.
func (c *Code) Name() string {
	return c.name
}

// Filename returns the file the program was compiled from, if any.
func (c *Code) Filename() string {
	return c.filename
}

// InstructionCount returns the number of instructions, including the
// trailing END.
func (c *Code) InstructionCount() int {
	return len(c.instructions)
}

// InstructionAt returns the instruction at index i.
func (c *Code) InstructionAt(i int) Instruction {
	return c.instructions[i]
}

// LocationAt returns the source location of the instruction at index i.
// The zero location is returned when no source map entry exists.
func (c *Code) LocationAt(i int) SourceLocation {
	if i < 0 || i >= len(c.locations) {
		return SourceLocation{}
	}
	return c.locations[i]
}

// LocationCount returns the number of source map entries.
func (c *Code) LocationCount() int {
	return len(c.locations)
}

// Validate checks the structural invariants the virtual machine relies on:
// the program ends with END, END appears nowhere else, every opcode is
// known, operands fit their width, and every JUMP_IF_ZERO/JUMP pair points
// at each other.
func (c *Code) Validate() error {
	n := len(c.instructions)
	if n == 0 {
		return fmt.Errorf("bytecode: empty program")
	}
	if c.instructions[n-1].op != op.End {
		return fmt.Errorf("bytecode: program does not end with END")
	}
	if len(c.locations) != 0 && len(c.locations) != n {
		return fmt.Errorf("bytecode: source map has %d entries for %d instructions",
			len(c.locations), n)
	}
	var opens []int
	for i, instr := range c.instructions {
		info := op.GetInfo(instr.op)
		if info.Name == "" {
			return fmt.Errorf("bytecode: unknown opcode %d at %d", instr.op, i)
		}
		switch info.Operand {
		case op.RunLength:
			if instr.operand < 0 || instr.operand > MaxRunLength {
				return fmt.Errorf("bytecode: run length %d out of range at %d", instr.operand, i)
			}
		case op.PointerDelta:
			if instr.operand < 0 || instr.operand > MaxPointerDelta {
				return fmt.Errorf("bytecode: pointer delta %d out of range at %d", instr.operand, i)
			}
		}
		switch instr.op {
		case op.End:
			if i != n-1 {
				return fmt.Errorf("bytecode: END at %d before end of program", i)
			}
		case op.JumpIfZero:
			opens = append(opens, i)
		case op.Jump:
			if len(opens) == 0 {
				return fmt.Errorf("bytecode: JUMP at %d has no matching JUMP_IF_ZERO", i)
			}
			open := opens[len(opens)-1]
			opens = opens[:len(opens)-1]
			if instr.operand != open {
				return fmt.Errorf("bytecode: JUMP at %d targets %d, expected %d", i, instr.operand, open)
			}
			if target := c.instructions[open].operand; target != i+1 {
				return fmt.Errorf("bytecode: JUMP_IF_ZERO at %d targets %d, expected %d", open, target, i+1)
			}
		}
	}
	if len(opens) > 0 {
		return fmt.Errorf("bytecode: JUMP_IF_ZERO at %d has no matching JUMP", opens[len(opens)-1])
	}
	return nil
}
