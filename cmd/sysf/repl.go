package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/sunholo/sysf/internal/session"
)

var dim = color.New(color.Faint).SprintFunc()

const historyFileName = ".sysf_history"

// runREPL starts an interactive read-eval-print loop over one Session,
// grounded on the teacher's liner.NewLiner()/history-file pattern: each
// line is handed to EvalExpression unless looksLikeDecl takes it for a
// declaration (a leading data/prim_type/prim_op keyword, or both a ':'
// and a '='), in which case it goes to Load instead.
func runREPL() {
	s := newSession()

	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	historyPath := filepath.Join(os.TempDir(), historyFileName)
	if f, err := os.Open(historyPath); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	line.SetCompleter(func(in string) (c []string) {
		for _, cmd := range []string{":help", ":quit", ":type"} {
			if strings.HasPrefix(cmd, in) {
				c = append(c, cmd)
			}
		}
		return
	})

	fmt.Println(bold("sysf"), dim("— System F with algebraic data types"))
	fmt.Println(dim("Type :help for help, :quit to exit"))
	fmt.Println()

	for {
		input, err := line.Prompt("λ> ")
		if err == io.EOF {
			fmt.Println(green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if handled := handleCommand(s, input); handled {
			continue
		}
		evalLine(s, input)
	}

	if f, err := os.Create(historyPath); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func handleCommand(s *session.Session, input string) bool {
	switch {
	case input == ":quit":
		os.Exit(0)
	case input == ":help":
		fmt.Println("Commands:")
		fmt.Println("  :type <expr>   Show a global's declared type; other expressions are evaluated")
		fmt.Println("  :quit          Exit the shell")
		return true
	case strings.HasPrefix(input, ":type "):
		expr := strings.TrimPrefix(input, ":type ")
		printType(s, expr)
		return true
	}
	return false
}

func printType(s *session.Session, expr string) {
	// A bare global name is answered with its declared signature. Any
	// other expression is evaluated (which also type-checks it) and its
	// value, not its type, is printed.
	if ty, ok := s.LookupType(expr); ok {
		fmt.Printf("%s : %s\n", cyan(expr), ty)
		return
	}
	v, err := s.EvalExpression(expr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return
	}
	fmt.Printf("%s : %s\n", cyan(expr), v)
}

// evalLine decides whether input looks like a declaration (has a top-level
// `name : Type = body`, `data`, `prim_type` or `prim_op` form) and routes it
// to Load, otherwise evaluates it as a standalone expression via
// EvalExpression (spec §6).
func evalLine(s *session.Session, input string) {
	if looksLikeDecl(input) {
		names, err := s.Load(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			return
		}
		for _, name := range names {
			fmt.Printf("%s %s\n", green("✓"), name)
		}
		return
	}

	v, err := s.EvalExpression(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return
	}
	fmt.Println(v)
}

func looksLikeDecl(input string) bool {
	for _, kw := range []string{"data ", "prim_type ", "prim_op "} {
		if strings.HasPrefix(input, kw) {
			return true
		}
	}
	return strings.Contains(input, ":") && strings.Contains(input, "=")
}
