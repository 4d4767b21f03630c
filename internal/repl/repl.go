package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fortio.org/log"
	"github.com/peterh/liner"

	"clc-lang/impl/internal/config"
	"clc-lang/impl/internal/evaluator"
)

const banner = "clc REPL\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands."

const help = `  :vars    List variables
  :help    Show this help
  :quit    Exit the REPL`

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

// Loop executes lines for one interactive session and writes results to Out
// and errors to Err.
type Loop struct {
	Session *Session
	Out     io.Writer
	Err     io.Writer
	Color   bool
}

// Handle runs one input line and reports whether the user asked to quit.
func (l *Loop) Handle(line string) (quit bool) {
	cmd := strings.TrimSpace(line)
	if cmd == "" {
		return false
	}
	if strings.HasPrefix(cmd, ":") {
		switch strings.ToLower(cmd) {
		case ":quit", ":q":
			return true
		case ":vars":
			env := l.Session.Env()
			for _, name := range env.Names() {
				v, _ := env.Get(name)
				fmt.Fprintf(l.Out, "%s = %s\n", name, evaluator.Format(v))
			}
		case ":help":
			fmt.Fprintln(l.Out, help)
		default:
			l.error(fmt.Sprintf("unknown command %s. Type :help for commands.", cmd))
		}
		return false
	}

	v, err := l.Session.Exec(line)
	if err != nil {
		l.error(err.Error())
		return false
	}
	if v != nil {
		fmt.Fprintln(l.Out, evaluator.Format(v))
	}
	return false
}

func (l *Loop) error(msg string) {
	if l.Color {
		msg = red(msg)
	}
	fmt.Fprintln(l.Err, msg)
}

// Run reads lines from the terminal until EOF or :quit.
func Run(cfg *config.Config) error {
	loop := &Loop{Session: NewSession(), Out: os.Stdout, Err: os.Stderr, Color: cfg.Color}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(loop.Session.Complete)

	if cfg.HistoryFile != "" {
		loadHistory(ln, cfg.HistoryFile)
		defer saveHistory(ln, cfg.HistoryFile)
	}

	fmt.Fprintln(loop.Out, banner)
	for {
		line, err := ln.Prompt(cfg.Prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(loop.Out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("repl: %w", err)
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if loop.Handle(line) {
			return nil
		}
	}
}

func loadHistory(ln *liner.State, path string) {
	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warnf("Unable to read history %s: %v", path, err)
		}
		return
	}
	defer f.Close()
	n, err := ln.ReadHistory(f)
	if err != nil {
		log.Warnf("Unable to parse history %s: %v", path, err)
	}
	log.S(log.Debug, "history loaded", log.Str("path", path), log.Attr("entries", n))
}

func saveHistory(ln *liner.State, path string) {
	f, err := os.Create(path)
	if err != nil {
		log.Warnf("Unable to write history %s: %v", path, err)
		return
	}
	defer f.Close()
	n, err := ln.WriteHistory(f)
	if err != nil {
		log.Warnf("Unable to write history %s: %v", path, err)
		return
	}
	log.S(log.Debug, "history saved", log.Str("path", path), log.Attr("entries", n))
}
