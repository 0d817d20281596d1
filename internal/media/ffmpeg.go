package media

import (
	"errors"
	"fmt"
)

// Static errors for media operations.
var (
	// ErrNoSegments is returned when a stitch is requested with no segments.
	ErrNoSegments = errors.New("no segments to stitch")
	// ErrFFprobeOutput is returned when ffprobe output cannot be parsed.
	ErrFFprobeOutput = errors.New("unparseable ffprobe output")
)

// FFmpeg drives the ffmpeg and ffprobe CLIs. It implements Stitcher,
// Burner and Prober.
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	runner      Runner
}

// Option configures an FFmpeg instance.
type Option func(*FFmpeg)

// WithFFprobePath overrides the ffprobe binary path.
func WithFFprobePath(path string) Option {
	return func(f *FFmpeg) {
		if path != "" {
			f.ffprobePath = path
		}
	}
}

// WithRunner substitutes the process runner. Tests use this to record
// invocation arguments and return scripted results.
func WithRunner(r Runner) Option {
	return func(f *FFmpeg) {
		if r != nil {
			f.runner = r
		}
	}
}

// NewFFmpeg creates a new FFmpeg.
// If ffmpegPath is empty, it defaults to "ffmpeg" (found via PATH).
func NewFFmpeg(ffmpegPath string, opts ...Option) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	f := &FFmpeg{
		ffmpegPath:  ffmpegPath,
		ffprobePath: "ffprobe",
		runner:      execRunner{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FFmpegError represents an error from running ffmpeg, carrying the tool's
// stderr verbatim so codec and format mismatches can be diagnosed.
type FFmpegError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *FFmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}

// Compile-time interface checks.
var (
	_ Stitcher = (*FFmpeg)(nil)
	_ Burner   = (*FFmpeg)(nil)
	_ Prober   = (*FFmpeg)(nil)
)
