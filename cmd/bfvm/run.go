package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/deepnoodle-ai/bfvm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Compile and run a program",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHandler,
}

func runHandler(cmd *cobra.Command, args []string) error {
	path, err := sourcePath(args)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return execFile(ctx, path, cmd.InOrStdin(), cmd.OutOrStdout())
}

func execFile(ctx context.Context, path string, in io.Reader, out io.Writer) error {
	opts := getRunOptions(in, out)
	code, err := bfvm.CompileFile(path, opts...)
	if err != nil {
		return err
	}
	log.Debug().
		Str("file", path).
		Int("instructions", code.InstructionCount()).
		Msg("compiled program")
	return bfvm.Run(ctx, code, opts...)
}

func getRunOptions(in io.Reader, out io.Writer) []bfvm.Option {
	opts := []bfvm.Option{
		bfvm.WithInput(in),
		bfvm.WithOutput(out),
	}
	if limit := viper.GetInt64("step-limit"); limit > 0 {
		opts = append(opts, bfvm.WithStepLimit(limit))
	}
	if viper.GetBool("trace") {
		opts = append(opts, bfvm.WithObserver(traceObserver(log.Logger)))
	}
	return opts
}
