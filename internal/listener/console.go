package listener

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Console is a colored ExecutionListener printing one line per finished
// node, in the style of the pack's other console formatters.
type Console struct {
	writer  io.Writer
	noColor bool
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// NewConsole creates a Console writing to os.Stdout by default.
func NewConsole(opts ...ConsoleOption) *Console {
	c := &Console{writer: os.Stdout}
	for _, opt := range opts {
		opt(c)
	}
	if c.noColor {
		color.NoColor = true
	}
	return c
}

// WithConsoleWriter overrides the destination writer.
func WithConsoleWriter(w io.Writer) ConsoleOption {
	return func(c *Console) { c.writer = w }
}

// WithConsoleNoColor disables ANSI color output.
func WithConsoleNoColor(noColor bool) ConsoleOption {
	return func(c *Console) { c.noColor = noColor }
}

func (c *Console) Started(nodeID string) {}

func (c *Console) Skipped(nodeID, reason string) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(c.writer, "  %s %s (%s)\n", yellow("-"), nodeID, reason)
}

func (c *Console) Finished(nodeID string, status Status, err error) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	switch status {
	case Successful:
		fmt.Fprintf(c.writer, "  %s %s\n", green("✓"), nodeID)
	case Aborted:
		fmt.Fprintf(c.writer, "  %s %s\n", yellow("○"), nodeID)
	case Failed:
		fmt.Fprintf(c.writer, "  %s %s %s\n", red("✗"), nodeID, red(fmt.Sprintf("(%v)", err)))
	}
}
