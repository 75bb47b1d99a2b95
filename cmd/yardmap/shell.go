package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/yardtrack/yardmap/internal/dispatcher"
)

// ErrUnterminatedQuote is returned for input with an open double quote
var ErrUnterminatedQuote = errors.New("unterminated quote")

// Shell is an interactive prompt that dispatches one command per line
type Shell struct {
	d  *dispatcher.Dispatcher
	rl *readline.Instance
}

// NewShell creates a shell with completion for every registered command
func NewShell(d *dispatcher.Dispatcher) (*Shell, error) {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem("help"),
		readline.PcItem("commands"),
		readline.PcItem("exit"),
	}
	for _, c := range d.Commands() {
		items = append(items, readline.PcItem(shellName(c)))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "yard> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    readline.NewPrefixCompleter(items...),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Shell{d: d, rl: rl}, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run reads commands until exit, EOF or ctx is done
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	out := s.rl.Stdout()
	fmt.Fprintln(out, "Type 'help' for usage.")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(out, "Exiting...")
			cancel()
			return
		}

		if !s.exec(out, line) {
			cancel()
			return
		}
	}
}

// exec runs one input line and reports whether the shell should continue
func (s *Shell) exec(out io.Writer, line string) bool {
	parts, err := splitArgs(line)
	if err != nil {
		fmt.Fprintln(out, "error:", err)
		return true
	}
	if len(parts) == 0 {
		return true
	}

	switch strings.ToLower(parts[0]) {
	case "help", "?":
		printShellHelp(out)
	case "commands":
		for _, c := range s.d.Commands() {
			fmt.Fprintln(out, " ", shellName(c))
		}
	case "exit", "quit", "q":
		return false
	default:
		res, err := s.d.Dispatch(dispatcher.Event{
			Command: dispatcher.Normalize(parts[0]),
			Args:    parts[1:],
		})
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			return true
		}
		fmt.Fprintln(out, formatResult(res))
	}
	return true
}

func printShellHelp(w io.Writer) {
	fmt.Fprint(w, `Commands are written as noun:verb followed by their arguments.
Quote arguments that contain spaces.

  zone:create "Bay A" #2e7d32 10% 10% 30% 20%
  zone:move:begin <zone>   zone:move <zone> <top> <left>   zone:gesture:end <zone>
  marker:place motorcycle 7 15 12
  status

  commands   list every command
  help       show this text
  exit       leave the shell
`)
}

// shellName turns ":ZONE:CREATE:" into "zone:create"
func shellName(command string) string {
	return strings.ToLower(strings.Trim(command, ":"))
}

// splitArgs splits a line on whitespace. Double quotes group words and
// may produce an empty argument.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t'):
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, ErrUnterminatedQuote
	}
	if started {
		args = append(args, cur.String())
	}
	return args, nil
}
