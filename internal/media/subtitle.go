package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rongsam/stitch-api/internal/segment"
)

// SubtitleStyle controls the rendered look of burned-in subtitles.
// Colors are named; they are mapped to ASS BGR hex values internally.
type SubtitleStyle struct {
	FontSize     int    `json:"font_size" validate:"min=8,max=72"`
	FontColor    string `json:"font_color" validate:"oneof=white yellow black red green blue cyan magenta"`
	OutlineColor string `json:"outline_color" validate:"oneof=black white dark_gray none"`
	OutlineWidth int    `json:"outline_width" validate:"min=0,max=10"`
	Position     string `json:"position" validate:"oneof=bottom top middle"`
	MarginV      int    `json:"margin_v" validate:"min=0,max=200"`
}

// DefaultSubtitleStyle returns the default styling: 24pt white text with a
// 2px black outline at the bottom of the frame.
func DefaultSubtitleStyle() SubtitleStyle {
	return SubtitleStyle{
		FontSize:     24,
		FontColor:    "white",
		OutlineColor: "black",
		OutlineWidth: 2,
		Position:     "bottom",
		MarginV:      20,
	}
}

// assColors maps color names to ASS primary color values (BGR hex).
var assColors = map[string]string{
	"white":     "&H00FFFFFF",
	"yellow":    "&H0000FFFF",
	"black":     "&H00000000",
	"red":       "&H000000FF",
	"green":     "&H0000FF00",
	"blue":      "&H00FF0000",
	"cyan":      "&H00FFFF00",
	"magenta":   "&H00FF00FF",
	"dark_gray": "&H00404040",
	"none":      "&H00000000",
}

// assAlignments maps positions to ASS alignment codes (numpad layout,
// center column).
var assAlignments = map[string]int{
	"bottom": 2,
	"middle": 6,
	"top":    8,
}

// forceStyle renders the style as an ASS force_style parameter list.
func (s SubtitleStyle) forceStyle() string {
	primary, ok := assColors[s.FontColor]
	if !ok {
		primary = assColors["white"]
	}
	outline, ok := assColors[s.OutlineColor]
	if !ok {
		outline = assColors["black"]
	}
	alignment, ok := assAlignments[s.Position]
	if !ok {
		alignment = assAlignments["bottom"]
	}

	params := []string{
		fmt.Sprintf("FontSize=%d", s.FontSize),
		fmt.Sprintf("PrimaryColour=%s", primary),
		fmt.Sprintf("OutlineColour=%s", outline),
		fmt.Sprintf("Outline=%d", s.OutlineWidth),
		fmt.Sprintf("Alignment=%d", alignment),
		fmt.Sprintf("MarginV=%d", s.MarginV),
		"Bold=0",
		"BorderStyle=1",
	}
	return strings.Join(params, ",")
}

// Burn implements Burner. The video stream is re-encoded (burning is a
// pixel transform), the audio stream is copied unchanged.
func (f *FFmpeg) Burn(ctx context.Context, videoPath, subtitlePath, outputPrefix string, style SubtitleStyle) (string, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return "", fmt.Errorf("stat video: %w", err)
	}
	if _, err := os.Stat(subtitlePath); err != nil {
		return "", fmt.Errorf("stat subtitle file: %w", err)
	}

	dir := filepath.Dir(videoPath)
	names, err := segment.ExistingNames(dir)
	if err != nil {
		return "", fmt.Errorf("list output directory: %w", err)
	}
	output := filepath.Join(dir, segment.NextSequenceName(names, outputPrefix, filepath.Ext(videoPath)))

	absSub, err := filepath.Abs(subtitlePath)
	if err != nil {
		return "", fmt.Errorf("get absolute path for %s: %w", subtitlePath, err)
	}
	// The subtitles filter parses its argument; slashes and colons need
	// escaping so the path survives the filter grammar.
	escapedSub := strings.ReplaceAll(filepath.ToSlash(absSub), ":", `\:`)

	filter := fmt.Sprintf("subtitles='%s':force_style='%s'", escapedSub, style.forceStyle())

	args := []string{
		"-i", videoPath,
		"-vf", filter,
		"-c:v", "libx264", // Video codec
		"-crf", "18", // Visually lossless
		"-preset", "medium", // Encoding speed/quality balance
		"-c:a", "copy", // Copy audio without re-encoding
		"-y",
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
