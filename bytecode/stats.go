package bytecode

import "github.com/deepnoodle-ai/bfvm/op"

// Stats contains statistics about compiled bytecode.
// This is useful for auditing programs before execution.
type Stats struct {
	// InstructionCount is the total number of bytecode instructions.
	InstructionCount int `json:"instruction_count"`

	// OpCounts is the number of instructions per opcode name.
	OpCounts map[string]int `json:"op_counts"`

	// LoopCount is the number of JUMP_IF_ZERO/JUMP pairs.
	LoopCount int `json:"loop_count"`

	// MaxLoopDepth is the deepest loop nesting in the program.
	MaxLoopDepth int `json:"max_loop_depth"`
}

// Stats returns statistics about the code.
func (c *Code) Stats() Stats {
	stats := Stats{
		InstructionCount: len(c.instructions),
		OpCounts:         map[string]int{},
	}
	var depth int
	for _, instr := range c.instructions {
		stats.OpCounts[instr.op.String()]++
		switch instr.op {
		case op.JumpIfZero:
			stats.LoopCount++
			depth++
			if depth > stats.MaxLoopDepth {
				stats.MaxLoopDepth = depth
			}
		case op.Jump:
			depth--
		}
	}
	return stats
}
