package term

import (
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/notesctl/pkg/core"
)

// Presenter writes the client's views as plain lines.
type Presenter struct {
	// Prompt is reprinted after the input is reset. Empty disables it.
	Prompt string

	mu    sync.Mutex
	out   io.Writer
	color bool
	busy  bool
}

// NewPresenter creates a Presenter writing to out.
func NewPresenter(out io.Writer) *Presenter {
	return &Presenter{out: out, color: ColorEnabled(out)}
}

// SetColor forces coloured output on or off.
func (p *Presenter) SetColor(enabled bool) {
	p.mu.Lock()
	p.color = enabled
	p.mu.Unlock()
}

func (p *Presenter) ShowLoading() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%s\n", paint(p.color, ansiDim, "Loading notes..."))
}

func (p *Presenter) ShowNotes(notes []core.Note) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, n := range notes {
		fmt.Fprintf(p.out, "#%d %s\n", n.ID, n.Text)
	}
}

func (p *Presenter) ShowEmpty() {
	p.printf("No notes yet. Add one with: a <text>\n")
}

// ShowError renders the persistent error panel. It stays on screen until the
// next load replaces it and always offers the two recovery actions.
func (p *Presenter) ShowError(err error, recovered []core.Note) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "%s\n", paint(p.color, ansiRed, "Error: "+err.Error()))
	if len(recovered) > 0 {
		fmt.Fprintf(p.out, "last loaded %d note(s):\n", len(recovered))
		for _, n := range recovered {
			fmt.Fprintf(p.out, "  #%d %s\n", n.ID, n.Text)
		}
	}
	fmt.Fprintln(p.out, "[r] reload  [i] initialize storage")
}

func (p *Presenter) SetBusy(busy bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if busy && !p.busy {
		fmt.Fprintf(p.out, "%s\n", paint(p.color, ansiDim, "working..."))
	}
	p.busy = busy
}

// Busy reports whether an add is in flight.
func (p *Presenter) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy
}

func (p *Presenter) ResetInput() {
	if p.Prompt == "" {
		return
	}
	p.printf("%s", p.Prompt)
}

func (p *Presenter) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

var _ core.Presenter = (*Presenter)(nil)
