package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a single status line with the elapsed time while a slow
// export runs. The line is erased when it stops.
type spinner struct {
	out    io.Writer
	label  string
	start  time.Time
	parent context.Context

	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once

	mu    sync.Mutex
	width int // printable width of the last frame, 0 once erased
}

// startSpinner begins animating label on out. Cancelling ctx stops the
// animation as well.
func startSpinner(ctx context.Context, out io.Writer, label string) *spinner {
	if ctx == nil {
		ctx = context.Background()
	}
	inner, cancel := context.WithCancel(ctx)
	s := &spinner{
		out:     out,
		label:   label,
		start:   time.Now(),
		parent:  ctx,
		ctx:     inner,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.erase()
			return
		case <-ticker.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *spinner) draw(frame string) {
	elapsed := time.Since(s.start).Round(100 * time.Millisecond)
	line := fmt.Sprintf("%s %s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.label), StyleDim.Render(elapsed.String()))
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.out, "\r"+line)
	s.width = lipgloss.Width(line)
}

func (s *spinner) erase() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width))
	s.width = 0
}

// stop halts the animation, erases the line and returns the time since
// start. It may be called more than once.
func (s *spinner) stop() time.Duration {
	s.once.Do(s.cancel)
	<-s.stopped
	return time.Since(s.start)
}

// interrupted reports whether the caller's context ended the animation.
func (s *spinner) interrupted() bool {
	return s.parent.Err() != nil
}
