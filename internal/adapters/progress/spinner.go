package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/wighawag/rocketh-go/internal/usecase"
)

// SpinnerProgressReporter shows a spinner while transactions are pending
type SpinnerProgressReporter struct {
	mu           sync.Mutex
	spinner      *spinner.Spinner
	out          io.Writer
	currentStage string
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return newSpinnerProgressReporter(os.Stderr)
}

func newSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		spinner: s,
		out:     out,
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.currentStage = event.Stage

	switch {
	case event.Spinner:
		r.spinner.Suffix = " " + event.Message
		if !r.spinner.Active() {
			r.spinner.Start()
		}
	case event.Stage == usecase.StageCompleted:
		r.spinner.Stop()
	default:
		if r.spinner.Active() {
			r.spinner.Stop()
		}
		if event.Message != "" {
			fmt.Fprintln(r.out, color.New(color.Faint).Sprint(event.Message))
		}
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.printPaused(color.New(color.FgCyan), message)
}

// Error stops the spinner for good and prints message
func (r *SpinnerProgressReporter) Error(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spinner.Stop()
	r.currentStage = ""
	fmt.Fprintln(r.out, color.New(color.FgRed).Sprint(message))
}

// printPaused stops the spinner while printing so lines don't interleave
func (r *SpinnerProgressReporter) printPaused(c *color.Color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	fmt.Fprintln(r.out, c.Sprint(message))

	if wasActive {
		r.spinner.Start()
	}
}

// Stop halts the spinner, used when a command is interrupted
func (r *SpinnerProgressReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spinner.Stop()
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
