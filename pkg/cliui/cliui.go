// Package cliui provides the terminal rendering shared by the disrello CLI:
// step spinners, key/value styles, board layouts and chat replies.
package cliui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Shared styles for command output.
var (
	KeyStyle    = fg("75").Bold(true)
	ValueStyle  = fg("252")
	DimStyle    = fg("243")
	NameStyle   = fg("212").Bold(true)
	HeaderStyle = fg("255").Bold(true).Underline(true)
	WarnStyle   = fg("214").Bold(true)
	StepStyle   = fg("245")

	SuccessMark = fg("82").Render("✓")
	FailMark    = fg("196").Render("✗")
)

var (
	spinStyle  = fg("82")
	spinFrames = []rune("⣾⣽⣻⢿⡿⣟⣯⣷")
)

const spinInterval = 80 * time.Millisecond

// spinner redraws a single status line until stopped.
type spinner struct {
	w    io.Writer
	msg  string
	mu   sync.Mutex
	quit chan struct{}
	wg   sync.WaitGroup
}

func startSpinner(w io.Writer, msg string) *spinner {
	s := &spinner{w: w, msg: msg, quit: make(chan struct{})}
	s.wg.Add(1)
	go s.loop()
	return s
}

func (s *spinner) loop() {
	defer s.wg.Done()
	tick := time.NewTicker(spinInterval)
	defer tick.Stop()

	for i := 0; ; i++ {
		s.mu.Lock()
		fmt.Fprintf(s.w, "\r  %s %s", spinStyle.Render(string(spinFrames[i%len(spinFrames)])), s.msg)
		s.mu.Unlock()

		select {
		case <-s.quit:
			return
		case <-tick.C:
		}
	}
}

// stop ends the animation and overwrites the line with the outcome.
func (s *spinner) stop(err error, took time.Duration) {
	close(s.quit)
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r  %s %s %s\n", Mark(err), s.msg, StepStyle.Render("("+FormatDuration(took)+")"))
}

// Step shows msg with a spinner while fn runs and leaves a ✓ or ✗ with the
// elapsed time behind. fn's error is returned unchanged.
func Step(w io.Writer, msg string, fn func() error) error {
	s := startSpinner(w, msg)
	began := time.Now()
	err := fn()
	s.stop(err, time.Since(began))
	return err
}

// Mark is ✗ for a non-nil err and ✓ otherwise.
func Mark(err error) string {
	if err == nil {
		return SuccessMark
	}
	return FailMark
}

// FormatDuration prints sub-second durations in milliseconds and anything
// longer in seconds with one decimal.
func FormatDuration(d time.Duration) string {
	if d >= time.Second {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}

// RenderMarkdown renders a bot view for the terminal. On failure the input is
// returned as is together with the error.
func RenderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err != nil {
		return md, err
	}
	out, err := r.Render(md)
	if err != nil {
		return md, err
	}
	return out, nil
}
