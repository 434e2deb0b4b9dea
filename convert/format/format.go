// Package format runs optional external pretty-printer over generated
// documents.
package format

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// ErrNotAvailable is returned when formatter program cannot be found.
var ErrNotAvailable = errors.New("formatter is not available")

// Formatter rewrites files in place.
type Formatter interface {
	Format(ctx context.Context, paths []string) error
}

// Nop does nothing.
type Nop struct{}

func (Nop) Format(context.Context, []string) error {
	return nil
}

// Command runs external program with file names appended to its arguments.
type Command struct {
	argv []string
	log  *zap.Logger
}

// NewCommand returns formatter for argv, first element is the program.
func NewCommand(argv []string, log *zap.Logger) *Command {
	return &Command{argv: append([]string(nil), argv...), log: log}
}

// Format blocks until program exits.
func (c *Command) Format(ctx context.Context, paths []string) error {
	if len(c.argv) == 0 {
		return fmt.Errorf("%w: empty command", ErrNotAvailable)
	}
	if len(paths) == 0 {
		return nil
	}

	prog, err := exec.LookPath(c.argv[0])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotAvailable, err)
	}

	args := append(append([]string(nil), c.argv[1:]...), paths...)
	c.log.Debug("Running formatter", zap.String("program", prog), zap.Strings("args", c.argv[1:]), zap.Int("files", len(paths)))

	out, err := exec.CommandContext(ctx, prog, args...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("formatter failed: %w: %s", err, msg)
		}
		return fmt.Errorf("formatter failed: %w", err)
	}
	return nil
}

// New selects formatter according to configuration.
func New(enable bool, argv []string, log *zap.Logger) Formatter {
	if !enable {
		return Nop{}
	}
	return NewCommand(argv, log)
}
