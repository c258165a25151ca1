package vm

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/bfvm/compiler"
)

func BenchmarkVM_HelloWorld(b *testing.B) {
	code, err := compiler.CompileString(helloWorld, nil)
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := Run(ctx, code, WithOutput(io.Discard)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkVM_NestedLoops(b *testing.B) {
	// Roughly 16 million iterations of the innermost loop
	program := strings.Repeat("+", 255) + "[>" + strings.Repeat("+", 255) + "[>++++[-]<-]<-]"
	code, err := compiler.CompileString(program, nil)
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := Run(ctx, code, WithOutput(io.Discard)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompile_HelloWorld(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := compiler.CompileString(helloWorld, nil); err != nil {
			b.Fatal(err)
		}
	}
}
