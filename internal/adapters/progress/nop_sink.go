package progress

import (
	"context"

	"github.com/wighawag/rocketh-go/internal/domain/config"
	"github.com/wighawag/rocketh-go/internal/usecase"
)

// NopSink is a no-op implementation of ProgressSink
type NopSink struct{}

// NewNopSink creates a new no-op progress sink
func NewNopSink() usecase.ProgressSink {
	return &NopSink{}
}

// OnProgress does nothing with progress events
func (n *NopSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {}

// Info does nothing with info messages
func (n *NopSink) Info(message string) {}

// Error does nothing with error messages
func (n *NopSink) Error(message string) {}

// NewProgressSink picks the spinner for terminal output and the nop sink when the
// output is machine readable or prompts are disabled.
func NewProgressSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	if cfg.Output != "" || cfg.NonInteractive {
		return NewNopSink()
	}
	return NewSpinnerProgressReporter()
}

// Ensure NopSink implements ProgressSink
var _ usecase.ProgressSink = (*NopSink)(nil)
