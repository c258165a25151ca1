// Package bytecode provides immutable representations of compiled bfvm
// programs.
//
// This package defines the output of compilation: a linear sequence of
// [Instruction] values plus a source map. A [Code] is created once by the
// compiler and is read-only thereafter, so it may be shared freely.
//
// # Operands
//
// Every instruction carries at most one operand, and its meaning is fixed by
// the opcode:
//
//   - ADD_BYTE, SUB_BYTE: an 8-bit run length
//   - ADD_POINTER, SUB_POINTER: a 16-bit pointer delta
//   - JUMP_IF_ZERO, JUMP: an instruction index
//   - WRITE, READ, END: no operand
//
// The operand is only reachable through the accessor matching the opcode,
// so one interpretation can never be read as another:
//
//	instr := code.InstructionAt(0)
//	switch instr.Op() {
//	case op.AddByte:
//	    n := instr.RunLength()
//	case op.JumpIfZero:
//	    target := instr.JumpTarget()
//	}
//
// # Serialization
//
// [Marshal] and [Unmarshal] convert Code to and from JSON. Unmarshalled
// code is checked with [Code.Validate] before it is returned.
package bytecode
