package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theY4Kman/yaksh/vm"

	"github.com/google/subcommands"
)

type buildCmd struct {
	outPath     string
	disassemble bool
}

func (*buildCmd) Name() string     { return "build" }
func (*buildCmd) Synopsis() string { return "Compile a source file to a binary .ykb image" }
func (*buildCmd) Usage() string {
	return `yaksh build <file>
`
}

func (cmd *buildCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.outPath, "out", "", "Output path for the .ykb image. Defaults to the source file name with a .ykb extension.")
	f.BoolVar(&cmd.disassemble, "disassemble", false, "Print a human-readable listing of the built image to stdout")
	f.BoolVar(&cmd.disassemble, "di", false, "Shorthand for disassemble.")
}

func (cmd *buildCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 File not provided\n")
		return subcommands.ExitUsageError
	}
	srcPath := args[0]
	data, err := os.ReadFile(srcPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	img, errs := compileSource(string(data))
	if len(errs) > 0 {
		reportErrors(errs)
		return subcommands.ExitFailure
	}

	outPath := cmd.outPath
	if outPath == "" {
		outPath = strings.TrimSuffix(srcPath, filepath.Ext(srcPath)) + ".ykb"
	}
	if err := os.WriteFile(outPath, img, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to write image: %v\n", err)
		return subcommands.ExitFailure
	}

	if cmd.disassemble {
		listing, err := vm.Disassemble(img)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Print(listing)
	}
	return subcommands.ExitSuccess
}
