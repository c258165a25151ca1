// Package vm provides a VirtualMachine that executes compiled bfvm bytecode.
package vm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/deepnoodle-ai/bfvm/bytecode"
	"github.com/deepnoodle-ai/bfvm/errz"
	"github.com/deepnoodle-ai/bfvm/op"
)

const (
	// TapeSize is the number of cells on the tape.
	TapeSize = 30000

	// DefaultContextCheckInterval is the number of instructions between
	// checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

// ErrAlreadyRun is returned when Run is called on a VM that has already run.
var ErrAlreadyRun = errors.New("vm has already run")

type VirtualMachine struct {
	ip    int // instruction pointer
	dp    int // data pointer
	steps int64
	tape  [TapeSize]byte
	main  *bytecode.Code

	input  io.Reader
	output io.Writer
	reader *bufio.Reader
	writer *bufio.Writer

	ran      bool
	runMutex sync.Mutex

	// contextCheckInterval is the number of instructions between checks of
	// ctx.Done(). A value of 0 disables checking.
	contextCheckInterval int

	// stepLimit caps the number of executed instructions. 0 means no limit.
	stepLimit int64

	// observer receives a callback before each instruction. If nil, no
	// callbacks are made.
	observer Observer
}

// New creates a new Virtual Machine for the given code. Input defaults to
// os.Stdin and output to os.Stdout.
func New(main *bytecode.Code, options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		main:                 main,
		input:                os.Stdin,
		output:               os.Stdout,
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range options {
		opt(vm)
	}
	return vm
}

func (vm *VirtualMachine) start() error {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.ran {
		return ErrAlreadyRun
	}
	vm.ran = true
	return nil
}

// Run executes the program until its END instruction or the first error.
// A VirtualMachine runs at most once.
func (vm *VirtualMachine) Run(ctx context.Context) (err error) {
	if vm.main == nil {
		return fmt.Errorf("no main code available")
	}
	if err := vm.start(); err != nil {
		return err
	}
	vm.reader = bufio.NewReader(vm.input)
	vm.writer = bufio.NewWriter(vm.output)
	defer func() {
		if r := recover(); r != nil {
			err = errz.Newf(errz.ErrInternal, errz.E3007, "panic: %v", r)
		}
		if flushErr := vm.writer.Flush(); flushErr != nil && err == nil {
			err = writeError(flushErr)
		}
	}()
	return vm.eval(ctx)
}

// Evaluate the program from the current instruction pointer until END.
func (vm *VirtualMachine) eval(ctx context.Context) error {
	var instructionCount int
	checkInterval := vm.contextCheckInterval
	doneChan := ctx.Done()
	count := vm.main.InstructionCount()

	for {
		if vm.ip < 0 || vm.ip >= count {
			return errz.Newf(errz.ErrInternal, errz.E3004,
				"instruction pointer out of range: %d", vm.ip)
		}
		instr := vm.main.InstructionAt(vm.ip)
		opcode := instr.Op()
		if opcode == op.End {
			return nil
		}

		// Deterministic check of ctx.Done() every N instructions.
		if checkInterval > 0 && doneChan != nil {
			instructionCount++
			if instructionCount >= checkInterval {
				instructionCount = 0
				select {
				case <-doneChan:
					return ctx.Err()
				default:
				}
			}
		}

		if vm.stepLimit > 0 && vm.steps >= vm.stepLimit {
			return errz.Newf(errz.ErrRuntime, errz.E3005,
				"step limit of %d instructions exceeded", vm.stepLimit)
		}
		vm.steps++

		if vm.observer != nil {
			event := StepEvent{
				IP:          vm.ip,
				Opcode:      opcode,
				OpcodeName:  opcode.String(),
				Location:    vm.main.LocationAt(vm.ip),
				DataPointer: vm.dp,
				Cell:        vm.tape[vm.dp],
			}
			if !vm.observer.OnStep(event) {
				return errz.New(errz.ErrRuntime, errz.E3006, "execution halted by observer")
			}
		}

		// Dispatch the instruction
		switch opcode {
		case op.AddByte:
			vm.tape[vm.dp] += instr.RunLength()
			vm.ip++
		case op.SubByte:
			vm.tape[vm.dp] -= instr.RunLength()
			vm.ip++
		case op.AddPointer:
			if err := vm.movePointer(int(instr.PointerDelta())); err != nil {
				return err
			}
			vm.ip++
		case op.SubPointer:
			if err := vm.movePointer(-int(instr.PointerDelta())); err != nil {
				return err
			}
			vm.ip++
		case op.Write:
			if err := vm.writer.WriteByte(vm.tape[vm.dp]); err != nil {
				return writeError(err)
			}
			vm.ip++
		case op.Read:
			if err := vm.read(); err != nil {
				return err
			}
			vm.ip++
		case op.JumpIfZero:
			if vm.tape[vm.dp] != 0 {
				vm.ip++
			} else {
				vm.ip = instr.JumpTarget()
			}
		case op.Jump:
			vm.ip = instr.JumpTarget()
		default:
			return errz.Newf(errz.ErrInternal, errz.E3004, "unknown opcode: %d", opcode)
		}
	}
}

func (vm *VirtualMachine) movePointer(delta int) error {
	dp := vm.dp + delta
	if dp < 0 || dp >= TapeSize {
		return errz.New(errz.ErrRange, errz.E3001, "data pointer out of range")
	}
	vm.dp = dp
	return nil
}

func (vm *VirtualMachine) read() error {
	// Pending output is flushed first so prompts appear before input is read.
	if err := vm.writer.Flush(); err != nil {
		return writeError(err)
	}
	b, err := vm.reader.ReadByte()
	if err == io.EOF {
		return errz.New(errz.ErrIO, errz.E3003, "end of input").WithCause(err)
	}
	if err != nil {
		return errz.New(errz.ErrIO, errz.E3003, "could not read input").WithCause(err)
	}
	vm.tape[vm.dp] = b
	return nil
}

func writeError(err error) error {
	return errz.New(errz.ErrIO, errz.E3002, "could not write output").WithCause(err)
}

// Tape returns a copy of the tape.
func (vm *VirtualMachine) Tape() []byte {
	tape := make([]byte, TapeSize)
	copy(tape, vm.tape[:])
	return tape
}

// Cell returns the value of the cell at index i.
func (vm *VirtualMachine) Cell(i int) byte {
	return vm.tape[i]
}

// DataPointer returns the index of the current cell.
func (vm *VirtualMachine) DataPointer() int {
	return vm.dp
}

// InstructionPointer returns the index of the next instruction to execute.
func (vm *VirtualMachine) InstructionPointer() int {
	return vm.ip
}

// Steps returns the number of instructions executed so far, not counting END.
func (vm *VirtualMachine) Steps() int64 {
	return vm.steps
}
