package term

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/notesctl/pkg/core"
)

// Confirmer asks yes/no questions on a line-oriented terminal.
// It shares its reader with whoever else reads input so that lines are
// never lost between the two.
type Confirmer struct {
	in        *bufio.Reader
	out       io.Writer
	AssumeYes bool
}

// NewConfirmer creates a Confirmer. Pass the same *bufio.Reader used by the
// input loop, if there is one.
func NewConfirmer(in *bufio.Reader, out io.Writer) *Confirmer {
	return &Confirmer{in: in, out: out}
}

// Confirm prints prompt followed by "[y/N]" and reads one line.
// Anything but y/yes, including EOF, declines.
func (c *Confirmer) Confirm(ctx context.Context, prompt string) bool {
	if c.AssumeYes {
		return true
	}
	if ctx.Err() != nil || c.in == nil {
		return false
	}

	fmt.Fprintf(c.out, "%s [y/N] ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(c.out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

var _ core.Confirmer = (*Confirmer)(nil)
