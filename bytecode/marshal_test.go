package bytecode

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshalRoundTrip(t *testing.T) {
	code := loopProgram()
	data, err := Marshal(code)
	require.Nil(t, err)

	restored, err := Unmarshal(data)
	require.Nil(t, err)
	require.Equal(t, code.Name(), restored.Name())
	require.Equal(t, code.Filename(), restored.Filename())
	require.Equal(t, code.InstructionCount(), restored.InstructionCount())
	for i := 0; i < code.InstructionCount(); i++ {
		require.Equal(t, code.InstructionAt(i), restored.InstructionAt(i))
		require.Equal(t, code.LocationAt(i), restored.LocationAt(i))
	}
}

func TestMarshalJSONShape(t *testing.T) {
	code := NewCode(CodeParams{Instructions: []Instruction{AddByte(2), Write(), End()}})
	data, err := json.Marshal(code)
	require.Nil(t, err)
	require.JSONEq(t, `{"instructions":[{"op":"ADD_BYTE","operand":2},{"op":"WRITE"},{"op":"END"}]}`, string(data))
}

func TestUnmarshalZeroOperand(t *testing.T) {
	code, err := Unmarshal([]byte(`{"instructions":[{"op":"JUMP_IF_ZERO","operand":2},{"op":"JUMP","operand":0},{"op":"END"}]}`))
	require.Nil(t, err)
	require.Equal(t, 0, code.InstructionAt(1).JumpTarget())
	require.Equal(t, 0, code.LocationCount())
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errMsg string
	}{
		{"unknown op", `{"instructions":[{"op":"HALT"}]}`, `bytecode: unknown opcode "HALT" at 0`},
		{"missing operand", `{"instructions":[{"op":"ADD_BYTE"},{"op":"END"}]}`, "bytecode: ADD_BYTE at 0 is missing its operand"},
		{"invalid program", `{"instructions":[{"op":"WRITE"}]}`, "bytecode: program does not end with END"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.input))
			require.NotNil(t, err)
			require.Equal(t, tt.errMsg, err.Error())
		})
	}
	_, err := Unmarshal([]byte(`not json`))
	require.NotNil(t, err)
}
