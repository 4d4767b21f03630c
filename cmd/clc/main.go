package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"fortio.org/log"

	"clc-lang/impl/internal/config"
	"clc-lang/impl/internal/evaluator"
	"clc-lang/impl/internal/lexer"
	"clc-lang/impl/internal/parser"
	"clc-lang/impl/internal/repl"
)

const version = "0.1.0"

const usageText = `Usage: clc [-config path] [-loglevel level] <command> [args]

Commands:
  repl                 interactive session (default)
  run <file>           evaluate a file and print the last value
  eval <code>          evaluate code given on the command line
  tokens <file>        print tokens as JSON lines
  ast [-tree] <file>   print the syntax tree as JSON or as a tree
  builtins [-regexp]   list builtin function names
  version              print the version`

type tokenOut struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("clc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprintln(stderr, usageText) }
	configPath := fs.String("config", config.DefaultPath(), "configuration file")
	logLevel := fs.String("loglevel", "", "log level (debug, verbose, info, warning, error)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := log.SetLogLevelStr(cfg.LogLevel); err != nil {
		fmt.Fprintf(stderr, "invalid log level %q\n", cfg.LogLevel)
		return 2
	}
	log.S(log.Verbose, "configuration", log.Str("path", cfg.Path), log.Str("prompt", cfg.Prompt),
		log.Str("history", cfg.HistoryFile), log.Attr("color", cfg.Color))

	rest := fs.Args()
	if len(rest) == 0 {
		return exit(repl.Run(cfg), stderr)
	}

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "repl":
		return exit(repl.Run(cfg), stderr)
	case "run":
		path, ok := oneArg(cmd, cmdArgs, stderr)
		if !ok {
			return 2
		}
		return exit(runFile(path, stdout), stderr)
	case "eval":
		if len(cmdArgs) == 0 {
			fmt.Fprintln(stderr, "eval: missing code")
			return 2
		}
		return exit(evalSource(strings.Join(cmdArgs, " "), stdout), stderr)
	case "tokens":
		path, ok := oneArg(cmd, cmdArgs, stderr)
		if !ok {
			return 2
		}
		return exit(printTokens(path, stdout), stderr)
	case "ast":
		return cmdAST(cmdArgs, stdout, stderr)
	case "builtins":
		return cmdBuiltins(cmdArgs, stdout, stderr)
	case "version":
		fmt.Fprintln(stdout, "clc", version)
		return 0
	case "help":
		fmt.Fprintln(stdout, usageText)
		return 0
	}

	// clc <file> runs the file
	if len(cmdArgs) == 0 {
		if _, err := os.Stat(cmd); err == nil {
			return exit(runFile(cmd, stdout), stderr)
		}
	}
	fmt.Fprintf(stderr, "unknown command %q\n%s\n", cmd, usageText)
	return 2
}

func exit(err error, stderr io.Writer) int {
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func oneArg(cmd string, args []string, stderr io.Writer) (string, bool) {
	if len(args) != 1 {
		fmt.Fprintf(stderr, "%s: expected exactly one file\n", cmd)
		return "", false
	}
	return args[0], true
}

func readProgram(path string) (parser.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return parser.Program{}, fmt.Errorf("read %s: %w", path, err)
	}
	toks, err := lexer.Lex(string(data))
	if err != nil {
		return parser.Program{}, err
	}
	return parser.Parse(toks)
}

func runFile(path string, w io.Writer) error {
	prog, err := readProgram(path)
	if err != nil {
		return err
	}
	log.LogVf("running %s: %d statements", path, len(prog.Statements))
	return evaluate(prog, w)
}

func evalSource(src string, w io.Writer) error {
	toks, err := lexer.Lex(src)
	if err != nil {
		return err
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		return err
	}
	return evaluate(prog, w)
}

// evaluate prints only the value of the last top-level statement.
func evaluate(prog parser.Program, w io.Writer) error {
	vals, err := evaluator.Evaluate(prog.Statements, evaluator.NewEnv())
	if err != nil {
		return err
	}
	if len(vals) > 0 {
		fmt.Fprintln(w, evaluator.Format(vals[len(vals)-1]))
	}
	return nil
}

func printTokens(path string, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	toks, err := lexer.Lex(string(data))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, t := range toks {
		if err := enc.Encode(tokenOut{Type: t.Kind.String(), Value: t.Lit}); err != nil {
			return err
		}
	}
	return nil
}

func cmdAST(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ast", flag.ContinueOnError)
	fs.SetOutput(stderr)
	tree := fs.Bool("tree", false, "draw each statement as a tree")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	path, ok := oneArg("ast", fs.Args(), stderr)
	if !ok {
		return 2
	}
	prog, err := readProgram(path)
	if err != nil {
		return exit(err, stderr)
	}
	if *tree {
		for _, st := range prog.Statements {
			fmt.Fprintln(stdout, parser.Tree(st))
		}
		return 0
	}
	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return exit(enc.Encode(prog), stderr)
}

// cmdBuiltins prints the builtin names, or with -regexp the word-boundary
// alternation used by syntax highlighting grammars.
func cmdBuiltins(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("builtins", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asRegexp := fs.Bool("regexp", false, "print a regular expression matching any builtin")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	names := evaluator.Names()
	if *asRegexp {
		fmt.Fprintf(stdout, "\\b(%s)\\b\n", strings.Join(names, "|"))
		return 0
	}
	for _, n := range names {
		fmt.Fprintln(stdout, n)
	}
	return 0
}
