package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wighawag/rocketh-go/internal/domain/config"
	"github.com/wighawag/rocketh-go/internal/usecase"
)

func TestSpinnerProgressReporter(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	r := newSpinnerProgressReporter(&out)

	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageBuilding, Message: "Preparing Counter"})
	assert.Contains(t, out.String(), "Preparing Counter")
	assert.False(t, r.spinner.Active())

	// The spinner itself only animates on a terminal
	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageWaiting, Message: "Waiting for 0xabc", Spinner: true})
	assert.Equal(t, " Waiting for 0xabc", r.spinner.Suffix)
	assert.Equal(t, usecase.StageWaiting, r.currentStage)

	r.Info("still waiting")
	assert.Contains(t, out.String(), "still waiting")

	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageCompleted})
	assert.False(t, r.spinner.Active())
	assert.Equal(t, usecase.StageCompleted, r.currentStage)
}

func TestSpinnerStopsOnError(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	r := newSpinnerProgressReporter(&out)

	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageWaiting, Message: "Waiting for 0xabc", Spinner: true})
	r.Error("failed to get receipt")

	assert.False(t, r.spinner.Active())
	assert.Empty(t, r.currentStage)
	assert.Contains(t, out.String(), "failed to get receipt")
}

func TestNewProgressSink(t *testing.T) {
	assert.IsType(t, &NopSink{}, NewProgressSink(&config.RuntimeConfig{Output: "json"}))
	assert.IsType(t, &NopSink{}, NewProgressSink(&config.RuntimeConfig{NonInteractive: true}))
	assert.IsType(t, &SpinnerProgressReporter{}, NewProgressSink(&config.RuntimeConfig{}))
}
