// Package job provides the Job aggregate for post-processing work on
// generated media, with state machine transitions and repository
// interfaces for persistence.
package job

import (
	"errors"
	"sync"
	"time"

	"github.com/rongsam/stitch-api/internal/job/id"
	"github.com/rongsam/stitch-api/internal/media"
)

// Kind identifies the operation a job performs.
type Kind string

const (
	// KindStitch concatenates a batch of generated segments into one video.
	KindStitch Kind = "stitch"
	// KindSubtitles burns an SRT subtitle file into a video.
	KindSubtitles Kind = "subtitles"
)

// IsValid returns true if the kind is known.
func (k Kind) IsValid() bool {
	return k == KindStitch || k == KindSubtitles
}

// Status represents the current state of a Job.
type Status string

const (
	// StatusInQueue indicates the job is waiting to start.
	StatusInQueue Status = "IN_QUEUE"
	// StatusRunning indicates the job is being processed.
	StatusRunning Status = "RUNNING"
	// StatusCompleted indicates the job finished successfully.
	StatusCompleted Status = "COMPLETED"
	// StatusFailed indicates the job encountered an error during execution.
	StatusFailed Status = "FAILED"
	// StatusCancelled indicates the job was manually cancelled.
	StatusCancelled Status = "CANCELLED"
)

// ErrInvalidTransition is returned when an invalid state transition is attempted.
var ErrInvalidTransition = errors.New("invalid state transition")

// validTransitions defines which state transitions are allowed.
var validTransitions = map[Status][]Status{
	StatusInQueue:   {StatusRunning, StatusCancelled},
	StatusRunning:   {StatusCompleted, StatusFailed, StatusCancelled},
	StatusCompleted: {},
	StatusFailed:    {},
	StatusCancelled: {},
}

// canTransition checks if a transition from one status to another is valid.
func canTransition(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Job represents one post-processing job aggregate: either stitching a
// batch of segments discovered from an exemplar path, or burning
// subtitles into a single video.
type Job struct {
	mu sync.RWMutex

	// ID is the unique identifier for this job.
	ID string
	// Kind is the operation this job performs.
	Kind Kind
	// Status is the current job state.
	Status Status
	// Error contains any error message if the job failed.
	Error string

	// ExemplarPath is the segment path the batch is discovered from
	// (stitch jobs).
	ExemplarPath string
	// VideoPath is the input video (subtitle jobs).
	VideoPath string
	// SubtitlePath is the SRT file to burn in (subtitle jobs).
	SubtitlePath string
	// Style is the subtitle rendering style (subtitle jobs).
	Style media.SubtitleStyle
	// OutputPrefix names the numbered output file.
	OutputPrefix string

	// SegmentCount is the number of segments joined (stitch jobs).
	SegmentCount int
	// OutputPath is the path to the produced file.
	OutputPath string
	// DurationSec is the probed duration of the output in seconds,
	// zero when probing was unavailable.
	DurationSec float64
	// PushToS3 indicates whether to upload the result to S3.
	PushToS3 bool
	// VideoURL is the S3 URL if PushToS3 was true.
	VideoURL string

	// CreatedAt is when the job was created.
	CreatedAt time.Time
	// UpdatedAt is when the job was last updated.
	UpdatedAt time.Time
	// StartedAt is when processing started.
	StartedAt time.Time
	// CompletedAt is when processing finished.
	CompletedAt time.Time
}

// New creates a new Job of the given kind with a generated ID and initial
// IN_QUEUE status.
func New(kind Kind) *Job {
	now := time.Now()
	return &Job{
		ID:        id.Generate(),
		Kind:      kind,
		Status:    StatusInQueue,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewWithID creates a new Job with the specified ID and initial IN_QUEUE
// status. Useful for testing or when the ID is externally generated.
func NewWithID(jobID string, kind Kind) *Job {
	now := time.Now()
	return &Job{
		ID:        jobID,
		Kind:      kind,
		Status:    StatusInQueue,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TransitionTo attempts to change the job status to the specified state.
// Returns ErrInvalidTransition if the transition is not allowed.
func (j *Job) TransitionTo(status Status) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !canTransition(j.Status, status) {
		return ErrInvalidTransition
	}

	j.Status = status
	j.UpdatedAt = time.Now()

	// Set timestamps based on state
	switch status {
	case StatusRunning:
		j.StartedAt = j.UpdatedAt
	case StatusCompleted, StatusFailed, StatusCancelled:
		j.CompletedAt = j.UpdatedAt
	}

	return nil
}

// Start transitions the job from IN_QUEUE to RUNNING.
func (j *Job) Start() error {
	return j.TransitionTo(StatusRunning)
}

// Complete transitions the job to COMPLETED state.
func (j *Job) Complete() error {
	return j.TransitionTo(StatusCompleted)
}

// Fail transitions the job to FAILED state with an error message.
func (j *Job) Fail(errMsg string) error {
	j.mu.Lock()
	j.Error = errMsg
	j.mu.Unlock()
	return j.TransitionTo(StatusFailed)
}

// Cancel transitions the job to CANCELLED state.
func (j *Job) Cancel() error {
	return j.TransitionTo(StatusCancelled)
}

// GetStatus returns the current job status (thread-safe).
func (j *Job) GetStatus() Status {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Status
}

// SetOutput records the produced file and optional S3 URL.
func (j *Job) SetOutput(outputPath, videoURL string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.OutputPath = outputPath
	j.VideoURL = videoURL
	j.UpdatedAt = time.Now()
}

// SetStitchResult records the discovered batch size and probed duration.
func (j *Job) SetStitchResult(segmentCount int, durationSec float64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.SegmentCount = segmentCount
	j.DurationSec = durationSec
	j.UpdatedAt = time.Now()
}

// IsTerminal returns true if the job is in a terminal state.
func (j *Job) IsTerminal() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Status == StatusCompleted ||
		j.Status == StatusFailed ||
		j.Status == StatusCancelled
}

// Clone creates a deep copy of the job for safe reads.
func (j *Job) Clone() *Job {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return &Job{
		ID:           j.ID,
		Kind:         j.Kind,
		Status:       j.Status,
		Error:        j.Error,
		ExemplarPath: j.ExemplarPath,
		VideoPath:    j.VideoPath,
		SubtitlePath: j.SubtitlePath,
		Style:        j.Style,
		OutputPrefix: j.OutputPrefix,
		SegmentCount: j.SegmentCount,
		OutputPath:   j.OutputPath,
		DurationSec:  j.DurationSec,
		PushToS3:     j.PushToS3,
		VideoURL:     j.VideoURL,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
		StartedAt:    j.StartedAt,
		CompletedAt:  j.CompletedAt,
	}
}
