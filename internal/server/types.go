// Package server provides the HTTP server for the stitch API.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

import "github.com/rongsam/stitch-api/internal/media"

// CreateJobRequest is the HTTP request body for creating a post-processing job.
type CreateJobRequest struct {
	// Kind selects the operation: "stitch" or "subtitles".
	Kind string `json:"kind" validate:"required,oneof=stitch subtitles"`
	// ExemplarPath is one segment of the batch to stitch; the rest of the
	// batch is discovered from its name (stitch jobs).
	ExemplarPath string `json:"exemplar_path" validate:"required_if=Kind stitch"`
	// VideoPath is the input video (subtitle jobs).
	VideoPath string `json:"video_path" validate:"required_if=Kind subtitles"`
	// SubtitlePath is the SRT file to burn in (subtitle jobs).
	SubtitlePath string `json:"subtitle_path" validate:"required_if=Kind subtitles"`
	// Style controls subtitle rendering; defaults apply when omitted.
	Style *media.SubtitleStyle `json:"style,omitempty"`
	// OutputPrefix names the numbered output file. Defaults to the batch
	// prefix (stitch) or the video's base name (subtitles).
	OutputPrefix string `json:"output_prefix"`
	// PushToS3 indicates whether to upload the output to S3.
	PushToS3 bool `json:"push_to_s3"`
}

// CreateJobResponse is the HTTP response after creating a job.
type CreateJobResponse struct {
	// ID is the unique identifier for the created job.
	ID string `json:"id"`
	// Status is the initial job status.
	Status string `json:"status"`
}

// JobResponse is the HTTP response for getting job details.
type JobResponse struct {
	// ID is the unique identifier for the job.
	ID string `json:"id"`
	// Kind is the operation the job performs.
	Kind string `json:"kind"`
	// Status is the current job status.
	Status string `json:"status"`
	// Error contains any error message if the job failed.
	Error string `json:"error,omitempty"`
	// SegmentCount is the number of segments joined (stitch jobs, completed).
	SegmentCount int `json:"segment_count,omitempty"`
	// DurationSec is the probed duration of the output in seconds.
	DurationSec float64 `json:"duration_sec,omitempty"`
	// OutputPath is the local path of the output file (if completed).
	OutputPath string `json:"output_path,omitempty"`
	// VideoURL is the S3 URL of the output (if push_to_s3=true and completed).
	VideoURL string `json:"video_url,omitempty"`
}

// AlignAudioRequest is the HTTP request body for aligning audio to a
// video frame count.
type AlignAudioRequest struct {
	// AudioBase64 is the base64-encoded WAV audio.
	AudioBase64 string `json:"audio_base64" validate:"required,base64"`
	// TargetFrameCount is the video frame count to align to.
	TargetFrameCount int `json:"target_frame_count" validate:"required,min=1"`
	// FPS is the video frame rate.
	FPS float64 `json:"fps" validate:"required,gt=0"`
}

// AlignAudioResponse is the HTTP response with the aligned audio.
type AlignAudioResponse struct {
	// AudioBase64 is the base64-encoded aligned WAV audio.
	AudioBase64 string `json:"audio_base64"`
	// SampleRate is the audio sample rate, unchanged from the input.
	SampleRate int `json:"sample_rate"`
	// FrameCount is the aligned per-channel sample count.
	FrameCount int `json:"frame_count"`
	// Action is what was done to reach the target: none, pad, or trim.
	Action string `json:"action"`
	// DeltaSamples is how many samples were added or removed.
	DeltaSamples int `json:"delta_samples"`
}

// SaveImageRequest is the HTTP request body for saving an image under a
// numbered output name.
type SaveImageRequest struct {
	// ImageBase64 is the base64-encoded PNG image.
	ImageBase64 string `json:"image_base64" validate:"required,base64"`
	// FilenamePrefix names the output; path separators select a subfolder.
	FilenamePrefix string `json:"filename_prefix"`
	// FilenameSuffix is appended after the sequence number.
	FilenameSuffix string `json:"filename_suffix"`
	// SaveOutput controls whether the image is written at all.
	// Defaults to true when omitted.
	SaveOutput *bool `json:"save_output,omitempty"`
}

// SaveImageResponse is the HTTP response after saving an image.
type SaveImageResponse struct {
	// Saved indicates whether the image was written to disk.
	Saved bool `json:"saved"`
	// Path is the written file's path when Saved is true.
	Path string `json:"path,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}
