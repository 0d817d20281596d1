package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rongsam/stitch-api/internal/segment"
)

// Stitch implements Stitcher. The segments are written to a temporary
// concat-demuxer manifest, joined in stream-copy mode, and the manifest is
// removed on every exit path. A partially written output is removed when
// ffmpeg fails; the failure is terminal for the invocation, since a
// stream-copy mismatch is a content problem that a retry would reproduce.
func (f *FFmpeg) Stitch(ctx context.Context, segments []segment.Segment, outputPrefix string) (string, error) {
	if len(segments) == 0 {
		return "", ErrNoSegments
	}

	dir := segments[0].Dir
	names, err := segment.ExistingNames(dir)
	if err != nil {
		return "", fmt.Errorf("list output directory: %w", err)
	}
	output := filepath.Join(dir, segment.NextSequenceName(names, outputPrefix, segments[0].Ext))

	manifest, err := writeConcatManifest(segments)
	if err != nil {
		return "", fmt.Errorf("create concat manifest: %w", err)
	}
	defer func() { _ = os.Remove(manifest) }()

	args := []string{
		"-y",           // Overwrite output file
		"-f", "concat", // Use concat demuxer
		"-safe", "0", // Allow absolute paths
		"-i", manifest, // Input manifest
		"-c", "copy", // Copy streams without re-encoding
		output,
	}

	_, stderr, err := f.runner.Run(ctx, f.ffmpegPath, args)
	if err != nil {
		_ = os.Remove(output)
		if ctx.Err() != nil {
			return "", fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return "", &FFmpegError{Args: args, Stderr: stderr, Err: err}
	}

	return output, nil
}

// writeConcatManifest writes a temporary file listing the segment paths in
// order, one per line, in the grammar required by ffmpeg's concat demuxer.
func writeConcatManifest(segments []segment.Segment) (string, error) {
	f, err := os.CreateTemp("", "ffmpeg-concat-*.txt")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	name := f.Name()
	fail := func(err error) (string, error) {
		_ = f.Close()
		_ = os.Remove(name)
		return "", err
	}

	for _, seg := range segments {
		absPath, err := filepath.Abs(seg.Path)
		if err != nil {
			return fail(fmt.Errorf("get absolute path for %s: %w", seg.Path, err))
		}
		// Escape single quotes in path
		escaped := strings.ReplaceAll(absPath, "'", `'\''`)
		if _, err := fmt.Fprintf(f, "file '%s'\n", escaped); err != nil {
			return fail(fmt.Errorf("write concat manifest: %w", err))
		}
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("close concat manifest: %w", err)
	}

	return name, nil
}

// Duration implements Prober using ffprobe's format duration field.
func (f *FFmpeg) Duration(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	stdout, stderr, err := f.runner.Run(ctx, f.ffprobePath, args)
	if err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("ffprobe cancelled: %w", ctx.Err())
		}
		return 0, fmt.Errorf("ffprobe %s: %w, stderr: %s", path, err, stderr)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(stdout), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrFFprobeOutput, strings.TrimSpace(stdout))
	}

	return duration, nil
}
