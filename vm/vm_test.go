package vm

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/bfvm/bytecode"
	"github.com/deepnoodle-ai/bfvm/compiler"
	"github.com/deepnoodle-ai/bfvm/errz"
	"github.com/deepnoodle-ai/bfvm/op"
	"github.com/stretchr/testify/require"
)

const helloWorld = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

func newVM(t *testing.T, source string, input string, opts ...Option) (*VirtualMachine, *bytes.Buffer) {
	t.Helper()
	code, err := compiler.CompileString(source, nil)
	require.Nil(t, err)
	var out bytes.Buffer
	opts = append([]Option{WithInput(strings.NewReader(input)), WithOutput(&out)}, opts...)
	return New(code, opts...), &out
}

func run(t *testing.T, source string, input string, opts ...Option) (*VirtualMachine, string, error) {
	t.Helper()
	vm, out := newVM(t, source, input, opts...)
	err := vm.Run(context.Background())
	return vm, out.String(), err
}

func requireCode(t *testing.T, err error, kind errz.ErrorKind, code errz.ErrorCode) {
	t.Helper()
	var se *errz.StructuredError
	require.True(t, errors.As(err, &se), "expected structured error, got %v", err)
	require.Equal(t, kind, se.Kind)
	require.Equal(t, code, se.Code)
}

func TestHelloWorld(t *testing.T) {
	_, out, err := run(t, helloWorld, "")
	require.Nil(t, err)
	require.Equal(t, "Hello World!\n", out)
}

func TestCellWraparound(t *testing.T) {
	vm, _, err := run(t, "-", "")
	require.Nil(t, err)
	require.Equal(t, byte(255), vm.Cell(0))

	vm, _, err = run(t, strings.Repeat("+", 256), "")
	require.Nil(t, err)
	require.Equal(t, byte(0), vm.Cell(0))

	vm, _, err = run(t, strings.Repeat("+", 255)+">"+strings.Repeat("-", 300), "")
	require.Nil(t, err)
	require.Equal(t, byte(255), vm.Cell(0))
	require.Equal(t, byte(212), vm.Cell(1))
}

func TestIncrementAt255YieldsZero(t *testing.T) {
	vm, _, err := run(t, strings.Repeat("+", 255)+"+", "")
	require.Nil(t, err)
	require.Equal(t, byte(0), vm.Cell(0))
}

func TestZeroIterationLoop(t *testing.T) {
	vm, out, err := run(t, "[+.]", "")
	require.Nil(t, err)
	require.Equal(t, "", out)
	require.Equal(t, byte(0), vm.Cell(0))
	require.Equal(t, int64(1), vm.Steps())
}

func TestClearLoop(t *testing.T) {
	vm, _, err := run(t, "+++[-]", "")
	require.Nil(t, err)
	require.Equal(t, byte(0), vm.Cell(0))
	// ADD_BYTE, then 3 x (JUMP_IF_ZERO, SUB_BYTE, JUMP), then the exit test
	require.Equal(t, int64(11), vm.Steps())
}

func TestNestedLoops(t *testing.T) {
	// 3 * 4 into cell 1, then copy out as output
	vm, out, err := run(t, "+++[>++++<-]>.", "")
	require.Nil(t, err)
	require.Equal(t, "\x0c", out)
	require.Equal(t, byte(0), vm.Cell(0))
	require.Equal(t, byte(12), vm.Cell(1))
	require.Equal(t, 1, vm.DataPointer())
}

func TestPointerBounds(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr bool
		wantDP  int
	}{
		{"left of zero", "<", true, 0},
		{"left past zero", ">>><<<<", true, 3},
		{"last cell", strings.Repeat(">", TapeSize-1), false, TapeSize - 1},
		{"past last cell", strings.Repeat(">", TapeSize), true, 0},
		{"past last cell in steps", strings.Repeat(">", TapeSize-1) + "+>", true, TapeSize - 1},
		{"back and forth", ">>>><<<<", false, 0},
		{"large delta", strings.Repeat(">", 20000) + strings.Repeat("<", 20000), false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm, _, err := run(t, tt.source, "")
			if tt.wantErr {
				require.NotNil(t, err)
				requireCode(t, err, errz.ErrRange, errz.E3001)
				require.Equal(t, "range error: data pointer out of range", err.Error())
			} else {
				require.Nil(t, err)
			}
			require.Equal(t, tt.wantDP, vm.DataPointer())
		})
	}
}

func TestReadAndWrite(t *testing.T) {
	_, out, err := run(t, ",+.,+.", "HI")
	require.Nil(t, err)
	require.Equal(t, "IJ", out)
}

func TestCat(t *testing.T) {
	// Echo until a zero byte terminates the input.
	_, out, err := run(t, ",[.,]", "bytes in, bytes out\x00")
	require.Nil(t, err)
	require.Equal(t, "bytes in, bytes out", out)
}

func TestReadAtEndOfInput(t *testing.T) {
	_, out, err := run(t, "+.,", "")
	require.NotNil(t, err)
	requireCode(t, err, errz.ErrIO, errz.E3003)
	require.True(t, errors.Is(err, io.EOF))
	require.Equal(t, "\x01", out)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("stdin closed")
}

func TestReadFailure(t *testing.T) {
	_, _, err := run(t, ",", "", WithInput(failingReader{}))
	require.NotNil(t, err)
	requireCode(t, err, errz.ErrIO, errz.E3003)
	require.Equal(t, "io error: could not read input", err.Error())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestWriteFailure(t *testing.T) {
	_, _, err := run(t, "+.", "", WithOutput(failingWriter{}))
	require.NotNil(t, err)
	requireCode(t, err, errz.ErrIO, errz.E3002)
	require.Equal(t, "io error: could not write output", err.Error())
}

type promptReader struct {
	out  *bytes.Buffer
	seen string
}

func (r *promptReader) Read(p []byte) (int, error) {
	r.seen = r.out.String()
	p[0] = 'y'
	return 1, nil
}

func TestOutputFlushedBeforeRead(t *testing.T) {
	code, err := compiler.CompileString("++++++++[>++++++++<-]>+.,.", nil)
	require.Nil(t, err)
	var out bytes.Buffer
	reader := &promptReader{out: &out}
	err = New(code, WithInput(reader), WithOutput(&out)).Run(context.Background())
	require.Nil(t, err)
	require.Equal(t, "A", reader.seen)
	require.Equal(t, "Ay", out.String())
}

func TestUnknownOpcode(t *testing.T) {
	code := bytecode.NewCode(bytecode.CodeParams{
		Instructions: []bytecode.Instruction{{}, bytecode.End()},
	})
	err := New(code, WithOutput(io.Discard)).Run(context.Background())
	require.NotNil(t, err)
	requireCode(t, err, errz.ErrInternal, errz.E3004)
	require.Equal(t, "internal error: unknown opcode: 0", err.Error())
}

func TestMissingEnd(t *testing.T) {
	code := bytecode.NewCode(bytecode.CodeParams{
		Instructions: []bytecode.Instruction{bytecode.AddByte(1)},
	})
	err := New(code, WithOutput(io.Discard)).Run(context.Background())
	require.NotNil(t, err)
	requireCode(t, err, errz.ErrInternal, errz.E3004)
}

func TestNoMainCode(t *testing.T) {
	err := New(nil).Run(context.Background())
	require.EqualError(t, err, "no main code available")
}

func TestRunOnce(t *testing.T) {
	vm, _ := newVM(t, "+", "")
	require.Nil(t, vm.Run(context.Background()))
	require.ErrorIs(t, vm.Run(context.Background()), ErrAlreadyRun)
	require.Equal(t, byte(1), vm.Cell(0))
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	vm, _ := newVM(t, "+[]", "", WithContextCheckInterval(1))
	err := vm.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestContextCheckDisabled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	vm, _ := newVM(t, "+++[-]", "", WithContextCheckInterval(0))
	require.Nil(t, vm.Run(ctx))
}

func TestStepLimit(t *testing.T) {
	vm, _ := newVM(t, "+[]", "", WithStepLimit(100))
	err := vm.Run(context.Background())
	require.NotNil(t, err)
	requireCode(t, err, errz.ErrRuntime, errz.E3005)
	require.Equal(t, int64(100), vm.Steps())
}

func TestObserverHalts(t *testing.T) {
	var events []StepEvent
	observer := ObserverFunc(func(event StepEvent) bool {
		events = append(events, event)
		return len(events) < 3
	})
	vm, _ := newVM(t, "+\n>+++", "", WithObserver(observer))
	err := vm.Run(context.Background())
	requireCode(t, err, errz.ErrRuntime, errz.E3006)
	require.Len(t, events, 3)

	require.Equal(t, 0, events[0].IP)
	require.Equal(t, op.AddByte, events[0].Opcode)
	require.Equal(t, "ADD_BYTE", events[0].OpcodeName)
	require.Equal(t, bytecode.SourceLocation{Line: 1, Column: 1}, events[0].Location)

	require.Equal(t, op.AddPointer, events[1].Opcode)
	require.Equal(t, bytecode.SourceLocation{Line: 2, Column: 1}, events[1].Location)
	require.Equal(t, byte(1), events[1].Cell)

	require.Equal(t, 1, events[2].DataPointer)
	require.Equal(t, byte(0), events[2].Cell)
	// The third instruction never ran.
	require.Equal(t, byte(0), vm.Cell(1))
}

func TestProfileObserver(t *testing.T) {
	profile := NewProfileObserver()
	_, _, err := run(t, "+++[-]", "", WithObserver(profile))
	require.Nil(t, err)
	require.Equal(t, int64(1), profile.Counts[op.AddByte])
	require.Equal(t, int64(4), profile.Counts[op.JumpIfZero])
	require.Equal(t, int64(3), profile.Counts[op.SubByte])
	require.Equal(t, int64(3), profile.Counts[op.Jump])
	require.Equal(t, int64(0), profile.Counts[op.End])
}

func TestProfileObserverZeroValue(t *testing.T) {
	var profile ProfileObserver
	_, _, err := run(t, "++.", "", WithObserver(&profile))
	require.Nil(t, err)
	require.Equal(t, int64(1), profile.Counts[op.AddByte])
	require.Equal(t, int64(1), profile.Counts[op.Write])
}

func TestPanicBecomesInternalError(t *testing.T) {
	observer := ObserverFunc(func(event StepEvent) bool {
		panic("observer exploded")
	})
	_, _, err := run(t, "+", "", WithObserver(observer))
	requireCode(t, err, errz.ErrInternal, errz.E3007)
	require.Equal(t, "internal error: panic: observer exploded", err.Error())
	kind, ok := errz.KindOf(err)
	require.True(t, ok)
	require.Equal(t, errz.ErrInternal, kind)
}

func TestTapeIsCopied(t *testing.T) {
	vm, _, err := run(t, "+>++", "")
	require.Nil(t, err)
	tape := vm.Tape()
	require.Len(t, tape, TapeSize)
	require.Equal(t, []byte{1, 2, 0}, tape[:3])
	tape[0] = 99
	require.Equal(t, byte(1), vm.Cell(0))
	require.Equal(t, 3, vm.InstructionPointer())
}

func TestRunHelper(t *testing.T) {
	code, err := compiler.CompileString(helloWorld, nil)
	require.Nil(t, err)
	var out bytes.Buffer
	require.Nil(t, Run(context.Background(), code, WithOutput(&out), WithInput(strings.NewReader(""))))
	require.Equal(t, "Hello World!\n", out.String())
}
