// Command noo is the Noolang command-line front end: `noo check <file>`
// type-checks a program and prints its inferred type and effects, `noo repl`
// starts an interactive line-at-a-time checker.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jethrolarson/noolang/internal/ast"
	"github.com/jethrolarson/noolang/internal/errors"
	"github.com/jethrolarson/noolang/internal/lexer"
	"github.com/jethrolarson/noolang/internal/parser"
	"github.com/jethrolarson/noolang/internal/types"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "check":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: noo check <file>")
			os.Exit(1)
		}
		checkFile(os.Args[2])
	case "repl":
		runREPL()
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "%s unknown command %q\n", red("Error:"), os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(bold("noo") + " - Noolang type checker")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  noo check <file>   Parse and type-check a .noo file")
	fmt.Println("  noo repl           Start the interactive checker")
}

func checkFile(filename string) {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s cannot read %s: %v\n", red("Error:"), filename, err)
		os.Exit(1)
	}

	program, perrs := parseSource(string(content), filename)
	if len(perrs) > 0 {
		printParseErrors(perrs)
		os.Exit(1)
	}

	result, err := types.TypeProgram(program)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("TypeError:"), err)
		os.Exit(1)
	}

	fmt.Printf("%s %s : %s\n", green("OK"), result.Type, result.Effects)
}

// parseSource normalizes src, runs the lexer then parser over it and
// returns either a program or the accumulated parser errors.
func parseSource(src, filename string) (*ast.Program, []error) {
	l := lexer.New(string(lexer.Normalize([]byte(src))), filename)
	p := parser.New(l)
	prog := p.ParseProgram()
	return prog, p.Errors()
}

func printParseErrors(errs []error) {
	for _, e := range errs {
		if rep, ok := errors.AsReport(e); ok {
			fmt.Fprintf(os.Stderr, "%s %s: %s\n", red("Parse error:"), rep.Code, rep.Message)
			continue
		}
		fmt.Fprintf(os.Stderr, "%s %v\n", red("Parse error:"), e)
	}
}
