// Package op defines opcodes used by the bfvm compiler and virtual machine.
package op

// Code is an integer opcode that indicates an operation to execute.
type Code uint8

const (
	Invalid Code = 0

	// Cell arithmetic
	AddByte Code = 1
	SubByte Code = 2

	// Data pointer movement
	AddPointer Code = 10
	SubPointer Code = 11

	// I/O
	Write Code = 20
	Read  Code = 21

	// Jump
	JumpIfZero Code = 30
	Jump       Code = 31

	// Execution
	End Code = 40
)

// OperandKind describes how the operand of an instruction is interpreted.
type OperandKind uint8

const (
	// NoOperand means the instruction carries no meaningful operand.
	NoOperand OperandKind = iota
	// RunLength is an 8-bit repeat count applied to the current cell.
	RunLength
	// PointerDelta is a 16-bit distance the data pointer moves.
	PointerDelta
	// JumpTarget is an instruction index.
	JumpTarget
)

// String returns a short name for the operand kind.
func (k OperandKind) String() string {
	switch k {
	case RunLength:
		return "run"
	case PointerDelta:
		return "delta"
	case JumpTarget:
		return "target"
	default:
		return "none"
	}
}

// Info contains information about an opcode.
type Info struct {
	Code    Code
	Name    string
	Operand OperandKind
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op      Code
		name    string
		operand OperandKind
	}
	ops := []opInfo{
		{AddByte, "ADD_BYTE", RunLength},
		{SubByte, "SUB_BYTE", RunLength},
		{AddPointer, "ADD_POINTER", PointerDelta},
		{SubPointer, "SUB_POINTER", PointerDelta},
		{Write, "WRITE", NoOperand},
		{Read, "READ", NoOperand},
		{JumpIfZero, "JUMP_IF_ZERO", JumpTarget},
		{Jump, "JUMP", JumpTarget},
		{End, "END", NoOperand},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:    o.op,
			Name:    o.name,
			Operand: o.operand,
		}
	}
}

// GetInfo returns information about the given opcode. Unknown opcodes have
// an empty Name.
func GetInfo(op Code) Info {
	return infos[op]
}

// IsValid reports whether the opcode is one the virtual machine executes.
func (c Code) IsValid() bool {
	return infos[c].Name != ""
}

// String returns the opcode name, e.g. "ADD_BYTE".
func (c Code) String() string {
	if name := infos[c].Name; name != "" {
		return name
	}
	return "INVALID"
}
