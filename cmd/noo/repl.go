package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/jethrolarson/noolang/internal/config"
	"github.com/jethrolarson/noolang/internal/types"
)

var (
	yellow = color.New(color.FgYellow).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// runREPL starts an interactive line-at-a-time checker. Each accepted line
// is type-checked against the state left behind by every prior line, so
// definitions and mutable bindings accumulate across the session the way
// TypeProgramWith's "REPL session's accumulated bindings" doc comment
// describes.
func runREPL() {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("Error:"), err)
		cfg = &config.Config{}
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	if f, err := os.Open(cfg.HistoryFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Println(bold("noo") + " " + dim("- type :help for help, :quit to exit"))

	var state *types.State
	lineNo := 0

	for {
		input, err := line.Prompt("noo> ")
		if err == io.EOF {
			fmt.Println(green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", red("Error:"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch {
		case input == ":quit" || input == ":q" || input == ":exit":
			fmt.Println(green("Goodbye!"))
			f, ferr := os.Create(cfg.HistoryFile)
			if ferr == nil {
				_, _ = line.WriteHistory(f)
				f.Close()
			}
			return
		case input == ":help":
			printREPLHelp()
			continue
		case input == ":reset":
			state = nil
			fmt.Println(yellow("state reset"))
			continue
		}

		lineNo++
		program, perrs := parseSource(input, fmt.Sprintf("<repl:%d>", lineNo))
		if len(perrs) > 0 {
			printParseErrors(perrs)
			continue
		}

		result, terr := types.TypeProgramWith(program, state)
		if terr != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", red("TypeError:"), terr)
			continue
		}

		newState := result.State
		state = &newState
		fmt.Printf("%s : %s\n", result.Type, result.Effects)
	}

	if f, err := os.Create(cfg.HistoryFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func printREPLHelp() {
	fmt.Println(dim("  :help   show this message"))
	fmt.Println(dim("  :reset  discard accumulated bindings"))
	fmt.Println(dim("  :quit   exit the repl"))
}
