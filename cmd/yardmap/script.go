package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yardtrack/yardmap/internal/dispatcher"
)

// Script is a sequence of commands replayed against a fresh yard
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is one dispatched command. Command may be written as "zone:create"
// or ":ZONE:CREATE:". A string result can be saved under a name and used
// as "$name" in the args of later steps.
type Step struct {
	Command     string   `yaml:"command"`
	Args        []string `yaml:"args"`
	Save        string   `yaml:"save"`
	ExpectError bool     `yaml:"expectError"`
}

// LoadError reports a script that could not be read or parsed
type LoadError struct {
	File    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// ErrUnexpectedSuccess is returned for a step marked expectError that succeeded
var ErrUnexpectedSuccess = errors.New("expected an error")

// ParseScript parses a script from YAML bytes
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, &LoadError{Message: "failed to parse YAML", Cause: err}
	}
	if len(s.Steps) == 0 {
		return nil, &LoadError{Message: "script must have at least one step"}
	}
	for i, st := range s.Steps {
		if strings.TrimSpace(st.Command) == "" {
			return nil, &LoadError{Message: fmt.Sprintf("step %d has no command", i+1)}
		}
		if st.Save != "" && st.ExpectError {
			return nil, &LoadError{Message: fmt.Sprintf("step %d saves the result of a failing command", i+1)}
		}
	}
	return &s, nil
}

// LoadScript loads a script from a file
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}

	s, err := ParseScript(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{File: path, Message: err.Error()}
	}
	return s, nil
}

// RunScript dispatches every step in order and writes one result line per
// step to out. It stops at the first unexpected outcome.
func RunScript(ctx context.Context, d *dispatcher.Dispatcher, s *Script, out io.Writer) error {
	vars := make(map[string]string)
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		args, err := expandArgs(st.Args, vars)
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}

		cmd := dispatcher.Normalize(st.Command)
		res, err := d.Dispatch(dispatcher.Event{Command: cmd, Args: args})
		switch {
		case st.ExpectError && err == nil:
			return fmt.Errorf("step %d %s: %w", i+1, cmd, ErrUnexpectedSuccess)
		case st.ExpectError:
			fmt.Fprintf(out, "%s -> error (expected): %v\n", cmd, err)
		case err != nil:
			return fmt.Errorf("step %d %s: %w", i+1, cmd, err)
		default:
			fmt.Fprintf(out, "%s -> %s\n", cmd, formatResult(res))
		}

		if st.Save != "" {
			v, ok := res.(string)
			if !ok {
				return fmt.Errorf("step %d %s: result %T cannot be saved as %q", i+1, cmd, res, st.Save)
			}
			vars[st.Save] = v
		}
	}
	return nil
}

// ErrUnknownVariable is returned for a "$name" arg that no earlier step saved
var ErrUnknownVariable = errors.New("unknown variable")

func expandArgs(args []string, vars map[string]string) ([]string, error) {
	out := make([]string, len(args))
	for i, a := range args {
		name, ok := strings.CutPrefix(a, "$")
		if !ok || name == "" {
			out[i] = a
			continue
		}
		v, ok := vars[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownVariable, a)
		}
		out[i] = v
	}
	return out, nil
}

// formatResult renders a handler result on one line
func formatResult(res any) string {
	switch v := res.(type) {
	case nil:
		return "<nil>"
	case string:
		return v
	case []string:
		return "[" + strings.Join(v, ", ") + "]"
	}
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Sprintf("%v", res)
	}
	return string(data)
}
