package vm

import "io"

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithInput sets the reader READ instructions consume bytes from.
func WithInput(r io.Reader) Option {
	return func(vm *VirtualMachine) {
		vm.input = r
	}
}

// WithOutput sets the writer WRITE instructions emit bytes to. Output is
// buffered and flushed when Run returns and before every READ.
func WithOutput(w io.Writer) Option {
	return func(vm *VirtualMachine) {
		vm.output = w
	}
}

// WithContextCheckInterval sets how often the VM checks ctx.Done() during
// execution. The interval is specified in number of instructions. A value of
// 0 disables checking. The default is DefaultContextCheckInterval (1000).
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithStepLimit stops execution with an error once limit instructions have
// executed. A limit of 0 means no limit.
func WithStepLimit(limit int64) Option {
	return func(vm *VirtualMachine) {
		vm.stepLimit = limit
	}
}

// WithObserver sets an observer for VM execution events.
//
// Observer methods are called synchronously during execution, so
// implementations should be fast to avoid impacting performance.
// Returning false from OnStep halts execution immediately.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}
