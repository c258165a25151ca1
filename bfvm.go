// Package bfvm compiles and runs programs written in the eight-command
// tape language.
//
// Compilation produces immutable bytecode which a fresh virtual machine then
// executes against a 30000-cell tape:
//
//	code, err := bfvm.Compile(source)
//	if err != nil {
//	    return err
//	}
//	err = bfvm.Run(ctx, code, bfvm.WithOutput(os.Stdout))
package bfvm

import (
	"context"
	"io"

	"github.com/deepnoodle-ai/bfvm/bytecode"
	"github.com/deepnoodle-ai/bfvm/compiler"
	"github.com/deepnoodle-ai/bfvm/vm"
)

// Option configures a compilation or execution.
type Option func(*options)

type options struct {
	filename  string
	name      string
	input     io.Reader
	output    io.Writer
	observer  vm.Observer
	stepLimit int64
}

func collectOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) compilerConfig() *compiler.Config {
	return &compiler.Config{
		Filename: o.filename,
		Name:     o.name,
	}
}

func (o *options) vmOpts() []vm.Option {
	var opts []vm.Option
	if o.input != nil {
		opts = append(opts, vm.WithInput(o.input))
	}
	if o.output != nil {
		opts = append(opts, vm.WithOutput(o.output))
	}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	if o.stepLimit > 0 {
		opts = append(opts, vm.WithStepLimit(o.stepLimit))
	}
	return opts
}

// WithFilename sets the filename for the source code being compiled.
// This is used for error messages.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithName sets the program name recorded on the compiled code.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithInput sets the reader the program reads bytes from. Defaults to
// os.Stdin.
func WithInput(r io.Reader) Option {
	return func(o *options) {
		o.input = r
	}
}

// WithOutput sets the writer the program writes bytes to. Defaults to
// os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithObserver sets an observer for VM execution events.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithStepLimit aborts execution after limit instructions.
func WithStepLimit(limit int64) Option {
	return func(o *options) {
		o.stepLimit = limit
	}
}

// Compile compiles source code into executable bytecode.
// The returned Code is immutable and safe for concurrent use.
func Compile(source string, opts ...Option) (*bytecode.Code, error) {
	return compiler.CompileString(source, collectOptions(opts...).compilerConfig())
}

// CompileFile compiles the program stored at path.
func CompileFile(path string, opts ...Option) (*bytecode.Code, error) {
	return compiler.CompileFile(path, collectOptions(opts...).compilerConfig())
}

// Run executes compiled bytecode on a new virtual machine.
func Run(ctx context.Context, code *bytecode.Code, opts ...Option) error {
	return vm.Run(ctx, code, collectOptions(opts...).vmOpts()...)
}

// Exec is a convenience function that compiles and runs source code.
// It is equivalent to Compile() followed by Run().
func Exec(ctx context.Context, source string, opts ...Option) error {
	code, err := Compile(source, opts...)
	if err != nil {
		return err
	}
	return Run(ctx, code, opts...)
}

// ExecFile compiles and runs the program stored at path.
func ExecFile(ctx context.Context, path string, opts ...Option) error {
	code, err := CompileFile(path, opts...)
	if err != nil {
		return err
	}
	return Run(ctx, code, opts...)
}
