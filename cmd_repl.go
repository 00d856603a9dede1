package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/theY4Kman/yaksh/asm"
	"github.com/theY4Kman/yaksh/asmgen"
	"github.com/theY4Kman/yaksh/vm"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"
)

type replCmd struct {
	dumpAsm bool
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive session" }
func (*replCmd) Usage() string {
	return `yaksh repl
`
}

func (cmd *replCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.dumpAsm, "dumpAsm", false, "Echo the generated assembly before running each input")
	f.BoolVar(&cmd.dumpAsm, "da", false, "Shorthand for dumpAsm.")
}

func (cmd *replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to start the line editor: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	fmt.Println("\nWelcome to the Yaksh programming language!")
	fmt.Println("Type 'exit' to leave the session.")
	fmt.Println("")

	// The generator session and the VM both persist across inputs:
	// globals keep their slots, functions keep their table indices, and
	// each input compiles to a fresh image run on the same machine.
	session := asmgen.NewGenerator()
	machine := vm.New(os.Stdout)
	var buffer strings.Builder

	for {
		if buffer.Len() == 0 {
			rl.SetPrompt(">>> ")
		} else {
			rl.SetPrompt("... ")
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			buffer.Reset()
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 %v\n", err)
			return subcommands.ExitFailure
		}

		if strings.TrimSpace(line) == "exit" && buffer.Len() == 0 {
			return subcommands.ExitSuccess
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
		source := buffer.String()

		if needsMoreInput(source, line) {
			continue
		}
		buffer.Reset()
		if strings.TrimSpace(source) == "" {
			continue
		}

		cmd.runInput(session, machine, source)
	}
}

// needsMoreInput decides whether the buffered source is a complete input.
// A line ending in ':' opens a block, and once an input spans lines it is
// terminated by an empty line, the way an indentation-structured language
// has to be read interactively.
func needsMoreInput(source, lastLine string) bool {
	trimmed := strings.TrimSpace(lastLine)
	if strings.HasSuffix(trimmed, ":") {
		return true
	}
	if strings.Contains(source, "\n") && trimmed != "" {
		return true
	}
	return false
}

func (cmd *replCmd) runInput(session *asmgen.Generator, machine *vm.VM, source string) {
	script, errs := parseSource(source + "\n")
	if len(errs) > 0 {
		reportErrors(errs)
		return
	}
	text, err := session.Generate(script)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return
	}
	if cmd.dumpAsm {
		fmt.Print(text)
	}
	img, err := asm.Assemble(text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return
	}
	prog, err := vm.Load(img)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return
	}
	if err := machine.Run(prog); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
}
