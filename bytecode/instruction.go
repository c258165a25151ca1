package bytecode

import (
	"fmt"

	"github.com/deepnoodle-ai/bfvm/op"
)

const (
	// MaxRunLength is the largest count an ADD_BYTE or SUB_BYTE carries.
	MaxRunLength = 1<<8 - 1
	// MaxPointerDelta is the largest distance an ADD_POINTER or SUB_POINTER
	// carries.
	MaxPointerDelta = 1<<16 - 1
)

// Instruction is a single bytecode instruction. The zero value is an
// invalid instruction.
type Instruction struct {
	op      op.Code
	operand int
}

// AddByte returns an instruction adding n to the current cell.
func AddByte(n uint8) Instruction {
	return Instruction{op: op.AddByte, operand: int(n)}
}

// SubByte returns an instruction subtracting n from the current cell.
func SubByte(n uint8) Instruction {
	return Instruction{op: op.SubByte, operand: int(n)}
}

// AddPointer returns an instruction moving the data pointer right by n.
func AddPointer(n uint16) Instruction {
	return Instruction{op: op.AddPointer, operand: int(n)}
}

// SubPointer returns an instruction moving the data pointer left by n.
func SubPointer(n uint16) Instruction {
	return Instruction{op: op.SubPointer, operand: int(n)}
}

// Write returns an instruction emitting the current cell.
func Write() Instruction {
	return Instruction{op: op.Write}
}

// Read returns an instruction storing one input byte in the current cell.
func Read() Instruction {
	return Instruction{op: op.Read}
}

// JumpIfZero returns an instruction that continues at target when the
// current cell is zero.
func JumpIfZero(target int) Instruction {
	return Instruction{op: op.JumpIfZero, operand: target}
}

// Jump returns an instruction that continues at target unconditionally.
func Jump(target int) Instruction {
	return Instruction{op: op.Jump, operand: target}
}

// End returns the instruction terminating every program.
func End() Instruction {
	return Instruction{op: op.End}
}

// Op returns the instruction's opcode.
func (i Instruction) Op() op.Code {
	return i.op
}

// RunLength returns the count of an ADD_BYTE or SUB_BYTE instruction.
// It panics for any other opcode.
func (i Instruction) RunLength() uint8 {
	i.expect(op.RunLength)
	return uint8(i.operand)
}

// PointerDelta returns the distance of an ADD_POINTER or SUB_POINTER
// instruction. It panics for any other opcode.
func (i Instruction) PointerDelta() uint16 {
	i.expect(op.PointerDelta)
	return uint16(i.operand)
}

// JumpTarget returns the destination of a JUMP_IF_ZERO or JUMP instruction.
// It panics for any other opcode.
func (i Instruction) JumpTarget() int {
	i.expect(op.JumpTarget)
	return i.operand
}

// Operand returns the raw operand and its kind, for tools that display
// instructions generically.
func (i Instruction) Operand() (int, op.OperandKind) {
	kind := op.GetInfo(i.op).Operand
	if kind == op.NoOperand {
		return 0, kind
	}
	return i.operand, kind
}

// String returns the instruction in disassembly form, e.g. "ADD_BYTE 3".
func (i Instruction) String() string {
	value, kind := i.Operand()
	if kind == op.NoOperand {
		return i.op.String()
	}
	return fmt.Sprintf("%s %d", i.op, value)
}

func (i Instruction) expect(kind op.OperandKind) {
	if got := op.GetInfo(i.op).Operand; got != kind {
		panic(fmt.Sprintf("bytecode: %s operand read from %s instruction", kind, i.op))
	}
}
