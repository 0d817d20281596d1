// Package media assembles generated video segments with the ffmpeg CLI.
// The tool is treated as a black box: this package only builds argument
// lists and concat manifests, it never inspects media payload content.
package media

import (
	"context"

	"github.com/rongsam/stitch-api/internal/segment"
)

// Stitcher concatenates an ordered batch of segments into a single file.
type Stitcher interface {
	// Stitch joins the segments, in the order given, into a new file named
	// <outputPrefix>_NNNNN<ext> in the segments' directory, where NNNNN is
	// the lowest unused 5-digit sequence number. The join runs in
	// stream-copy mode, so content is never re-encoded. Returns the path
	// to the output file.
	Stitch(ctx context.Context, segments []segment.Segment, outputPrefix string) (string, error)
}

// Burner renders subtitles permanently into a video.
type Burner interface {
	// Burn writes a copy of the video at videoPath with the SRT file at
	// subtitlePath burned in, styled by style. The output is named
	// <outputPrefix>_NNNNN<ext> in the video's directory, numbered the
	// same way as stitched outputs. Returns the path to the output file.
	Burn(ctx context.Context, videoPath, subtitlePath, outputPrefix string, style SubtitleStyle) (string, error)
}

// Prober reports metadata about a media file.
type Prober interface {
	// Duration returns the duration of the media file in seconds.
	Duration(ctx context.Context, path string) (float64, error)
}
