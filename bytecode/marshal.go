package bytecode

import (
	"encoding/json"
	"fmt"

	"github.com/deepnoodle-ai/bfvm/op"
)

// Serialization types

type codeDef struct {
	Name         string           `json:"name,omitempty"`
	Filename     string           `json:"filename,omitempty"`
	Instructions []instructionDef `json:"instructions"`
}

type instructionDef struct {
	Op      string `json:"op"`
	Operand *int   `json:"operand,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

var opsByName = func() map[string]op.Code {
	m := map[string]op.Code{}
	for i := 0; i < 256; i++ {
		code := op.Code(i)
		if code.IsValid() {
			m[code.String()] = code
		}
	}
	return m
}()

// MarshalJSON implements json.Marshaler.
func (c *Code) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.def())
}

func (c *Code) def() codeDef {
	def := codeDef{
		Name:         c.name,
		Filename:     c.filename,
		Instructions: make([]instructionDef, 0, len(c.instructions)),
	}
	for i, instr := range c.instructions {
		d := instructionDef{Op: instr.op.String()}
		if value, kind := instr.Operand(); kind != op.NoOperand {
			v := value
			d.Operand = &v
		}
		loc := c.LocationAt(i)
		d.Line, d.Column = loc.Line, loc.Column
		def.Instructions = append(def.Instructions, d)
	}
	return def
}

// Marshal converts a Code object into a JSON representation.
func Marshal(code *Code) ([]byte, error) {
	return json.Marshal(code.def())
}

// Unmarshal converts a JSON representation into a Code object. The result
// is validated before it is returned.
func Unmarshal(data []byte) (*Code, error) {
	var def codeDef
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, err
	}
	params := CodeParams{
		Name:         def.Name,
		Filename:     def.Filename,
		Instructions: make([]Instruction, 0, len(def.Instructions)),
	}
	var hasLocations bool
	for _, d := range def.Instructions {
		if d.Line != 0 || d.Column != 0 {
			hasLocations = true
		}
	}
	for i, d := range def.Instructions {
		code, ok := opsByName[d.Op]
		if !ok {
			return nil, fmt.Errorf("bytecode: unknown opcode %q at %d", d.Op, i)
		}
		instr := Instruction{op: code}
		if op.GetInfo(code).Operand != op.NoOperand {
			if d.Operand == nil {
				return nil, fmt.Errorf("bytecode: %s at %d is missing its operand", d.Op, i)
			}
			instr.operand = *d.Operand
		}
		params.Instructions = append(params.Instructions, instr)
		if hasLocations {
			params.Locations = append(params.Locations, SourceLocation{Line: d.Line, Column: d.Column})
		}
	}
	code := NewCode(params)
	if err := code.Validate(); err != nil {
		return nil, err
	}
	return code, nil
}
