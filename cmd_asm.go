package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type asmCmd struct {
	outPath string
}

func (*asmCmd) Name() string     { return "asm" }
func (*asmCmd) Synopsis() string { return "Emit the textual assembly for a source file" }
func (*asmCmd) Usage() string {
	return `yaksh asm <file>
`
}

func (cmd *asmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.outPath, "out", "", "Write the assembly to a .yab file instead of stdout")
}

func (cmd *asmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	text, errs := generateAsm(string(data))
	if len(errs) > 0 {
		reportErrors(errs)
		return subcommands.ExitFailure
	}

	if cmd.outPath != "" {
		if err := os.WriteFile(cmd.outPath, []byte(text), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "💥 Failed to write assembly: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	fmt.Print(text)
	return subcommands.ExitSuccess
}
