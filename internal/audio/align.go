// Package audio aligns in-memory audio buffers to video frame timing.
// Alignment works purely on sample counts; it never touches the filesystem
// or an external process.
package audio

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when a non-positive fps, frame count or
// sample rate is passed. Inputs are rejected before any computation.
var ErrInvalidInput = errors.New("invalid alignment input")

// Buffer is an uncompressed audio buffer: one slice of samples per channel,
// all channels the same length. Values are normalized to [-1, 1].
type Buffer struct {
	Samples    [][]float64
	SampleRate int
}

// FrameCount returns the number of samples per channel.
func (b Buffer) FrameCount() int {
	if len(b.Samples) == 0 {
		return 0
	}
	return len(b.Samples[0])
}

// Action describes how a buffer is adjusted to reach the target duration.
type Action string

const (
	// ActionNone means the buffer already matches the target.
	ActionNone Action = "none"
	// ActionPad means trailing silence is appended.
	ActionPad Action = "pad"
	// ActionTrim means trailing samples are dropped.
	ActionTrim Action = "trim"
)

// Plan is the computed sample-level adjustment for a buffer. It is derived,
// never persisted.
type Plan struct {
	// TargetSamples is the sample count per channel after alignment.
	TargetSamples int
	// Action is the adjustment to apply.
	Action Action
	// DeltaSamples is the number of samples appended or removed per channel.
	DeltaSamples int
}

// PlanAlignment computes the adjustment needed for a buffer with frameCount
// samples per channel at sampleRate to last exactly targetFrameCount/fps
// seconds. The target sample count is rounded once from the real-valued
// duration, so no truncation error accumulates across intermediate steps.
func PlanAlignment(frameCount, sampleRate, targetFrameCount int, fps float64) (Plan, error) {
	if targetFrameCount <= 0 {
		return Plan{}, fmt.Errorf("%w: target frame count must be positive, got %d", ErrInvalidInput, targetFrameCount)
	}
	if fps <= 0 {
		return Plan{}, fmt.Errorf("%w: fps must be positive, got %g", ErrInvalidInput, fps)
	}
	if sampleRate <= 0 {
		return Plan{}, fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidInput, sampleRate)
	}

	target := int(math.Round(float64(targetFrameCount) / fps * float64(sampleRate)))

	switch {
	case frameCount == target:
		return Plan{TargetSamples: target, Action: ActionNone}, nil
	case frameCount < target:
		return Plan{TargetSamples: target, Action: ActionPad, DeltaSamples: target - frameCount}, nil
	default:
		return Plan{TargetSamples: target, Action: ActionTrim, DeltaSamples: frameCount - target}, nil
	}
}

// Align returns a buffer whose duration is exactly targetFrameCount/fps
// seconds. A short buffer is padded with trailing silence; a long buffer has
// its tail dropped, never its head, so sync with the video's start is
// preserved. When no adjustment is needed the input buffer is returned
// as-is, sharing its sample storage; pad and trim always allocate fresh
// storage and leave the input untouched.
func Align(buf Buffer, targetFrameCount int, fps float64) (Buffer, Plan, error) {
	plan, err := PlanAlignment(buf.FrameCount(), buf.SampleRate, targetFrameCount, fps)
	if err != nil {
		return Buffer{}, Plan{}, err
	}

	switch plan.Action {
	case ActionNone:
		return buf, plan, nil

	case ActionPad:
		out := Buffer{Samples: make([][]float64, len(buf.Samples)), SampleRate: buf.SampleRate}
		for ch, in := range buf.Samples {
			padded := make([]float64, len(in)+plan.DeltaSamples)
			copy(padded, in)
			out.Samples[ch] = padded
		}
		return out, plan, nil

	default: // ActionTrim
		out := Buffer{Samples: make([][]float64, len(buf.Samples)), SampleRate: buf.SampleRate}
		for ch, in := range buf.Samples {
			trimmed := make([]float64, plan.TargetSamples)
			copy(trimmed, in[:plan.TargetSamples])
			out.Samples[ch] = trimmed
		}
		return out, plan, nil
	}
}
