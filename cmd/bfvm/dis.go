package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/bfvm"
	"github.com/deepnoodle-ai/bfvm/bytecode"
	"github.com/deepnoodle-ai/bfvm/dis"
	"github.com/deepnoodle-ai/bfvm/internal/table"
	"github.com/spf13/cobra"
)

var outputFormatsCompletion = []string{"json", "text"}

var disCmd = &cobra.Command{
	Use:   "dis [file]",
	Short: "Disassemble compiled bytecode",
	Args:  cobra.MaximumNArgs(1),
	RunE:  disHandler,
}

func init() {
	disCmd.Flags().StringP("output", "o", "text", "Output format (json, text)")
	disCmd.Flags().Bool("stats", false, "Include bytecode statistics")
	disCmd.RegisterFlagCompletionFunc("output",
		func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp
		})
}

func disHandler(cmd *cobra.Command, args []string) error {
	path, err := sourcePath(args)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("output")
	withStats, _ := cmd.Flags().GetBool("stats")

	code, err := bfvm.CompileFile(path)
	if err != nil {
		return err
	}
	return writeDisassembly(cmd.OutOrStdout(), code, format, withStats)
}

func writeDisassembly(w io.Writer, code *bytecode.Code, format string, withStats bool) error {
	switch strings.ToLower(format) {
	case "", "text":
		dis.Print(dis.Disassemble(code), w)
		if withStats {
			printStats(code.Stats(), w)
		}
		return nil
	case "json":
		var result any = code
		if withStats {
			result = map[string]any{
				"code":  code,
				"stats": code.Stats(),
			}
		}
		output, err := getOutputJSON(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(output))
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func printStats(stats bytecode.Stats, w io.Writer) {
	names := make([]string, 0, len(stats.OpCounts))
	for name := range stats.OpCounts {
		names = append(names, name)
	}
	sort.Strings(names)

	var rows [][]string
	for _, name := range names {
		rows = append(rows, []string{name, strconv.Itoa(stats.OpCounts[name])})
	}
	rows = append(rows,
		[]string{"instructions", strconv.Itoa(stats.InstructionCount)},
		[]string{"loops", strconv.Itoa(stats.LoopCount)},
		[]string{"max loop depth", strconv.Itoa(stats.MaxLoopDepth)},
	)
	table.NewTable(w).
		WithHeader([]string{"STAT", "COUNT"}).
		WithColumnAlignment([]table.Alignment{table.AlignLeft, table.AlignRight}).
		WithRows(rows).
		Render()
}
