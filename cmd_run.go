package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/theY4Kman/yaksh/bytecode"
	"github.com/theY4Kman/yaksh/vm"

	"github.com/google/subcommands"
)

type runCmd struct{}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Execute a source file or a pre-built .ykb image" }
func (*runCmd) Usage() string {
	return `yaksh run <file>
`
}
func (*runCmd) SetFlags(f *flag.FlagSet) {}

func (cmd *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 File not provided\n")
		return subcommands.ExitUsageError
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	// A pre-built image starts with the magic stamp; anything else is
	// treated as source text.
	img := data
	if len(data) < 4 || !bytes.Equal(data[:4], bytecode.MAGIC[:]) {
		var errs []error
		img, errs = compileSource(string(data))
		if len(errs) > 0 {
			reportErrors(errs)
			return subcommands.ExitFailure
		}
	}

	prog, err := vm.Load(img)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}
	if err := vm.New(os.Stdout).Run(prog); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
