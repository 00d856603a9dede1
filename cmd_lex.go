package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/theY4Kman/yaksh/lexer"

	"github.com/google/subcommands"
)

type lexCmd struct{}

func (*lexCmd) Name() string     { return "lex" }
func (*lexCmd) Synopsis() string { return "Print the token stream of a source file" }
func (*lexCmd) Usage() string {
	return `yaksh lex <file>
`
}
func (*lexCmd) SetFlags(f *flag.FlagSet) {}

func (cmd *lexCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	tokens, err := lexer.CreateLexer(string(data)).Scan()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}
	for _, tok := range tokens {
		fmt.Println(tok)
	}
	return subcommands.ExitSuccess
}
