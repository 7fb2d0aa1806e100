package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"github.com/postfixlang/postfix/pkg/interpreter"
	"github.com/postfixlang/postfix/pkg/types"
)

// banner returns the startup banner; it prints Version so
// `postfix --version` and the banner never disagree.
func banner() string {
	return fmt.Sprintf("PostFix - %s\ntype an expression, or `exit` to quit.", Version)
}

// runREPL reads lines, feeds them to the interpreter, and prints the
// top of stack after each complete statement, per spec.md §4.7.
func runREPL(logger *zap.Logger) error {
	in := interpreter.New(os.Stdout)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "postfix> ",
		HistoryFile:     "",
		AutoComplete:    &dictCompleter{in: in},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("initializing line editor: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(os.Stdout, banner())

	for {
		rl.SetPrompt(promptFor(in))
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		// The interpreter's own open-bracket/brace state (§4.3) persists
		// across calls, so each line is tokenized and pushed exactly
		// once here; a multi-line `{ … }` simply keeps exeDepth > 0
		// between Readline calls instead of being re-fed from scratch.
		if err := in.RunLine(line); err != nil {
			logger.Debug("evaluation error", zap.Error(err))
			fmt.Fprintln(os.Stderr, diagnostic(err))
			continue
		}

		if in.Open() {
			continue
		}

		if in.StackSize() > 0 {
			top, err := in.PeekValue()
			if err == nil {
				fmt.Fprintln(os.Stdout, top.String())
			}
		}

		if in.Exited() {
			return nil
		}
	}
}

func promptFor(in *interpreter.Interpreter) string {
	if in.Open() {
		return "...     "
	}
	return "postfix> "
}

// diagnostic renders a single user-facing line for err, the shell's
// "print one diagnostic line and continue" contract (spec.md §7).
func diagnostic(err error) string {
	if kind, ok := types.KindOf(err); ok {
		return fmt.Sprintf("error: %s: %s", kind, err)
	}
	return fmt.Sprintf("error: %s", err)
}

// dictCompleter exposes the interpreter's current dictionary keys to
// the line editor for tab-completion, re-read on every completion
// request since the dictionary changes as the session runs.
type dictCompleter struct {
	in *interpreter.Interpreter
}

func (c *dictCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	word := lastWord(string(line[:pos]))
	var matches [][]rune
	for _, k := range c.in.DictKeys() {
		if strings.HasPrefix(k, word) {
			matches = append(matches, []rune(k[len(word):]))
		}
	}
	return matches, len(word)
}

func lastWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	if strings.HasSuffix(s, " ") {
		return ""
	}
	return fields[len(fields)-1]
}
