package term

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aretw0/notesctl/pkg/core"
)

// NotificationPrinter writes notification events as they arrive.
type NotificationPrinter struct {
	// ShowDismissed also prints a line when a notification expires.
	ShowDismissed bool

	mu    sync.Mutex
	out   io.Writer
	color bool
}

// NewNotificationPrinter creates a printer writing to out.
func NewNotificationPrinter(out io.Writer) *NotificationPrinter {
	return &NotificationPrinter{out: out, color: ColorEnabled(out)}
}

// SetColor forces coloured output on or off.
func (p *NotificationPrinter) SetColor(enabled bool) {
	p.mu.Lock()
	p.color = enabled
	p.mu.Unlock()
}

// Print writes a single event.
func (p *NotificationPrinter) Print(e core.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := e.Notification
	switch e.Type {
	case core.EventShown:
		tag := paint(p.color, levelColor(n.Level), "["+strings.ToUpper(string(n.Level))+"]")
		fmt.Fprintf(p.out, "%s %s\n", tag, n.Message)
	case core.EventDismissed:
		if p.ShowDismissed {
			fmt.Fprintf(p.out, "%s\n", paint(p.color, ansiDim, "(dismissed) "+n.Message))
		}
	}
}

// Drain prints events until the channel closes or ctx is done.
func (p *NotificationPrinter) Drain(ctx context.Context, events <-chan core.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			p.Print(e)
		}
	}
}
