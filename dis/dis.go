// Package dis supports analysis of bfvm bytecode by disassembling it.
package dis

import (
	"fmt"
	"io"

	"github.com/deepnoodle-ai/bfvm/bytecode"
	"github.com/deepnoodle-ai/bfvm/internal/table"
	"github.com/deepnoodle-ai/bfvm/op"
	"github.com/fatih/color"
)

// Instruction represents a single bytecode instruction and its operand.
type Instruction struct {
	Offset     int                     `json:"offset"`
	Name       string                  `json:"name"`
	Opcode     op.Code                 `json:"opcode"`
	Operand    *int                    `json:"operand,omitempty"`
	Location   bytecode.SourceLocation `json:"location"`
	Annotation string                  `json:"annotation,omitempty"`
}

// Disassemble returns a parsed representation of the given bytecode.
func Disassemble(code *bytecode.Code) []Instruction {
	instructions := make([]Instruction, 0, code.InstructionCount())
	for i := 0; i < code.InstructionCount(); i++ {
		instr := code.InstructionAt(i)
		d := Instruction{
			Offset:   i,
			Name:     instr.Op().String(),
			Opcode:   instr.Op(),
			Location: code.LocationAt(i),
		}
		if value, kind := instr.Operand(); kind != op.NoOperand {
			d.Operand = &value
		}
		switch instr.Op() {
		case op.JumpIfZero:
			d.Annotation = fmt.Sprintf("skip to %d if zero", instr.JumpTarget())
		case op.Jump:
			d.Annotation = fmt.Sprintf("back to %d", instr.JumpTarget())
		case op.AddByte:
			d.Annotation = fmt.Sprintf("cell += %d", instr.RunLength())
		case op.SubByte:
			d.Annotation = fmt.Sprintf("cell -= %d", instr.RunLength())
		case op.AddPointer:
			d.Annotation = fmt.Sprintf("ptr += %d", instr.PointerDelta())
		case op.SubPointer:
			d.Annotation = fmt.Sprintf("ptr -= %d", instr.PointerDelta())
		}
		instructions = append(instructions, d)
	}
	return instructions
}

var (
	nameColor       = color.New(color.Bold)
	operandColor    = color.New(color.FgYellow)
	annotationColor = color.New(color.FgHiCyan)
)

// Print a string representation of the given instructions to the given writer.
// Colors follow the global color.NoColor setting.
func Print(instructions []Instruction, writer io.Writer) {
	var lines [][]string
	for _, instr := range instructions {
		var values []string
		values = append(values, fmt.Sprintf("%d", instr.Offset))
		values = append(values, nameColor.Sprint(instr.Name))
		if instr.Operand != nil {
			values = append(values, operandColor.Sprintf("%d", *instr.Operand))
		} else {
			values = append(values, "")
		}
		if instr.Location.IsZero() {
			values = append(values, "")
		} else {
			values = append(values, instr.Location.String())
		}
		if instr.Annotation != "" {
			values = append(values, annotationColor.Sprint(instr.Annotation))
		} else {
			values = append(values, "")
		}
		lines = append(lines, values)
	}

	table.NewTable(writer).
		WithHeader([]string{"OFFSET", "OPCODE", "OPERAND", "SOURCE", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}
