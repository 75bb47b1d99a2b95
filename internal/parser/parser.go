// Package parser converts positional command arguments into core types.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/yardtrack/yardmap/internal/util"
)

// ErrArgCount is returned when a command receives the wrong number of arguments
var ErrArgCount = errors.New("wrong number of arguments")

// parseIntFromFloat parses a string that may be an integer ("7") or a float
// ("7.00") into int. Script and shell input does not distinguish the two.
func parseIntFromFloat(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("parseIntFromFloat: %q is not a valid int", s)
	}
	return int(f), nil
}

// Parser provides pure []string -> core struct conversion.
// It has zero external dependencies beyond a logger.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new parser with only a logger dependency
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// clean returns a copy of data with quotes trimmed and unescaped,
// after checking that it holds exactly want arguments.
func clean(data []string, want int) ([]string, error) {
	if len(data) != want {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrArgCount, want, len(data))
	}
	out := make([]string, len(data))
	for i, v := range data {
		out[i] = util.CleanArg(v)
	}
	return out, nil
}

func parseFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing %s: %w", name, err)
	}
	return v, nil
}
