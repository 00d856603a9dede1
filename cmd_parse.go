package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/theY4Kman/yaksh/parser"

	"github.com/google/subcommands"
)

type parseCmd struct {
	outPath string
}

func (*parseCmd) Name() string     { return "parse" }
func (*parseCmd) Synopsis() string { return "Print the AST of a source file as JSON" }
func (*parseCmd) Usage() string {
	return `yaksh parse <file>
`
}

func (cmd *parseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.outPath, "out", "", "Write the AST JSON to a file instead of stdout")
}

func (cmd *parseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	script, errs := parseSource(string(data))
	if len(errs) > 0 {
		reportErrors(errs)
		return subcommands.ExitFailure
	}

	if cmd.outPath != "" {
		if err := parser.WriteASTJSONToFile(script, cmd.outPath); err != nil {
			fmt.Fprintf(os.Stderr, "💥 Failed to write AST: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	dump, err := parser.PrintASTJSON(script)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to render AST: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(dump)
	return subcommands.ExitSuccess
}
