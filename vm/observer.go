package vm

import (
	"github.com/deepnoodle-ai/bfvm/bytecode"
	"github.com/deepnoodle-ai/bfvm/op"
)

// Observer is an interface for observing VM execution. Implementations can
// be used for tracing, profiling, or debugging without modifying the VM.
type Observer interface {
	// OnStep is called before each instruction executes.
	// Returns false to halt execution immediately.
	OnStep(event StepEvent) bool
}

// StepEvent contains information about a single instruction step.
type StepEvent struct {
	// IP is the instruction pointer (index into the instruction array).
	IP int

	// Opcode is the operation being executed.
	Opcode op.Code

	// OpcodeName is the human-readable name of the opcode.
	OpcodeName string

	// Location is the source location of the instruction.
	Location bytecode.SourceLocation

	// DataPointer is the index of the current cell.
	DataPointer int

	// Cell is the value of the current cell before the instruction runs.
	Cell byte
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(event StepEvent) bool

// OnStep calls f(event).
func (f ObserverFunc) OnStep(event StepEvent) bool {
	return f(event)
}

// ProfileObserver counts executed instructions per opcode. The zero value
// is ready to use.
type ProfileObserver struct {
	Counts map[op.Code]int64
}

// NewProfileObserver returns an empty ProfileObserver.
func NewProfileObserver() *ProfileObserver {
	return &ProfileObserver{Counts: map[op.Code]int64{}}
}

func (p *ProfileObserver) OnStep(event StepEvent) bool {
	if p.Counts == nil {
		p.Counts = map[op.Code]int64{}
	}
	p.Counts[event.Opcode]++
	return true
}

var (
	_ Observer = ObserverFunc(nil)
	_ Observer = (*ProfileObserver)(nil)
)
