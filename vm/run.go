package vm

import (
	"context"

	"github.com/deepnoodle-ai/bfvm/bytecode"
)

// Run the given code in a new Virtual Machine.
func Run(ctx context.Context, main *bytecode.Code, options ...Option) error {
	return New(main, options...).Run(ctx)
}
