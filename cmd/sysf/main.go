// Command sysf is the thin CLI front-end for the language: run/repl/check,
// built entirely on the internal/session programmatic interface (spec §6).
// It is the only collaborator in this repository allowed to import
// github.com/fatih/color and github.com/peterh/liner — the core package
// tree stays free of interactive-shell dependencies.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/sunholo/sysf/internal/session"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "Print version information")
		helpFlag    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *versionFlag {
		printVersion()
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	switch command := flag.Arg(0); command {
	case "run":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
			fmt.Println("Usage: sysf run <file.sf>")
			os.Exit(1)
		}
		runFile(flag.Arg(1))

	case "check":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
			fmt.Println("Usage: sysf check <file.sf>")
			os.Exit(1)
		}
		checkFile(flag.Arg(1))

	case "repl":
		runREPL()

	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), command)
		printHelp()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("sysf %s\n", bold("dev"))
	fmt.Println("System F with algebraic data types")
}

func printHelp() {
	fmt.Println(bold("sysf - System F with algebraic data types"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sysf <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <file>   Load and run a program's declarations\n", cyan("run"))
	fmt.Printf("  %s <file>   Load a program (type-checking and evaluating it) and print its declared types\n", cyan("check"))
	fmt.Printf("  %s           Start the interactive shell\n", cyan("repl"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --version   Print version information")
	fmt.Println("  --help      Show this help message")
}

// newSession returns a Session with the prelude already loaded, exiting the
// process on prelude failure (a bug in the shipped prelude source, never a
// user-input error).
func newSession() *session.Session {
	s, err := session.NewWithPrelude()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: failed to load prelude: %v\n", red("Error"), err)
		os.Exit(1)
	}
	return s
}

func runFile(filename string) {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read file %q: %v\n", red("Error"), filename, err)
		os.Exit(1)
	}

	s := newSession()
	names, err := s.Load(string(content))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
	fmt.Printf("%s loaded %d declaration(s) from %s\n", green("✓"), len(names), filename)
}

func checkFile(filename string) {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read file %q: %v\n", red("Error"), filename, err)
		os.Exit(1)
	}

	s := newSession()
	names, err := s.Load(string(content))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
	fmt.Printf("%s %s type-checks: %d declaration(s) accepted\n", green("✓"), filename, len(names))
	for _, name := range names {
		if ty, ok := s.LookupType(name); ok {
			fmt.Printf("  %s : %s\n", cyan(name), ty)
		}
	}
}
