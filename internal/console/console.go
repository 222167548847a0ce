// Package console implements the hbnb line-oriented command interpreter.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-hbnb/app/observability/metrics"
	"github.com/FACorreiaa/go-hbnb/internal/storage"
)

const Prompt = "(hbnb) "

const maxLineSize = 1 << 20

// command runs with the argument part of a line and reports whether the
// interpreter should stop.
type command func(ctx context.Context, arg string) bool

// Console reads commands from in and writes their output to out.
type Console struct {
	store  storage.Engine
	in     io.Reader
	out    io.Writer
	logger *slog.Logger

	// Prompt is printed before every line when not empty.
	Prompt string

	commands map[string]command
}

// New builds a console. The prompt is only shown when in is a terminal.
func New(store storage.Engine, in io.Reader, out io.Writer, logger *slog.Logger) *Console {
	c := &Console{
		store:  store,
		in:     in,
		out:    out,
		logger: logger,
	}
	if f, ok := in.(*os.File); ok && IsTerminal(f) {
		c.Prompt = Prompt
	}
	c.commands = map[string]command{
		"EOF":     c.doEOF,
		"all":     c.doAll,
		"count":   c.doCount,
		"create":  c.doCreate,
		"destroy": c.doDestroy,
		"help":    c.doHelp,
		"quit":    c.doQuit,
		"show":    c.doShow,
		"update":  c.doUpdate,
	}
	return c
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run reads lines until quit, end of input or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(c.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if c.Prompt != "" {
			fmt.Fprint(c.out, c.Prompt)
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read command: %w", err)
			}
			c.Execute(ctx, "EOF")
			return nil
		}
		if c.Execute(ctx, scanner.Text()) {
			return nil
		}
	}
}

// Execute interprets a single line and reports whether the console should stop.
func (c *Console) Execute(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, "?") {
		line = "help " + line[1:]
	}

	name, arg := splitCommand(line)
	cmd, ok := c.commands[name]
	if name == "" || !ok {
		return c.dispatchDotted(ctx, line)
	}
	c.record(ctx, name)
	return cmd(ctx, arg)
}

// dispatchDotted handles <Class>.<command>(<args>) lines.
func (c *Console) dispatchDotted(ctx context.Context, line string) bool {
	call, ok := parseDotted(line)
	if !ok {
		c.unknown(line)
		return false
	}
	cmd, ok := c.commands[call.command]
	if !ok || !dottedCommands[call.command] {
		c.unknown(line)
		return false
	}
	c.record(ctx, call.command)
	return cmd(ctx, call.classicArgs())
}

var dottedCommands = map[string]bool{
	"all":     true,
	"count":   true,
	"destroy": true,
	"show":    true,
	"update":  true,
}

func (c *Console) unknown(line string) {
	c.logger.Debug("Unknown syntax", slog.String("line", line))
	c.println("*** Unknown syntax: " + line)
}

func (c *Console) record(ctx context.Context, name string) {
	metrics.Get().ConsoleCommandsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("command", name)))
}

func (c *Console) println(a ...any) {
	fmt.Fprintln(c.out, a...)
}
