package ui

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Spinner provides an animated spinner for indeterminate waits, like
// the probe's first round trip to the target.
type Spinner struct {
	ui      *UI
	label   string
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	stopped bool
}

// Animation frames (braille pattern).
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a new animated spinner.
func (u *UI) NewSpinner(label string) *Spinner {
	return &Spinner{
		ui:    u,
		label: label,
		done:  make(chan struct{}),
	}
}

// Start begins the spinner animation. On non-TTY output it prints the
// label once and stays quiet.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	if !s.ui.shouldStyle() {
		fmt.Printf("%s...", s.label)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		style := lipgloss.NewStyle().Foreground(ColorPrimary)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		frame := 0
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				fmt.Fprintf(os.Stdout, "\r%s %s...",
					style.Render(spinnerFrames[frame]), s.label)
				frame = (frame + 1) % len(spinnerFrames)
			}
		}
	}()
}

// halt stops the animation goroutine at most once and reports whether
// this call did the stopping.
func (s *Spinner) halt() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started || s.stopped {
		return false
	}
	s.stopped = true
	close(s.done)
	return true
}

// Stop clears the spinner without a final status.
func (s *Spinner) Stop() {
	if !s.halt() {
		return
	}
	s.wg.Wait()

	if s.ui.shouldStyle() {
		fmt.Fprint(os.Stdout, "\r\033[K")
	}
}

// Success stops the spinner and prints a success line.
func (s *Spinner) Success(msg string) {
	if !s.halt() {
		return
	}
	s.wg.Wait()

	if !s.ui.shouldStyle() {
		fmt.Printf(" %s\n", msg)
		return
	}
	fmt.Fprintf(os.Stdout, "\r\033[K%s %s... %s\n",
		StyleSuccess.Render(SymbolSuccess), s.label, msg)
}

// Error stops the spinner and prints an error line.
func (s *Spinner) Error(msg string) {
	if !s.halt() {
		return
	}
	s.wg.Wait()

	if !s.ui.shouldStyle() {
		fmt.Printf(" %s\n", msg)
		return
	}
	fmt.Fprintf(os.Stdout, "\r\033[K%s %s... %s\n",
		StyleError.Render(SymbolError), s.label, StyleError.Render(msg))
}
