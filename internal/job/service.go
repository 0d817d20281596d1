package job

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rongsam/stitch-api/internal/media"
	"github.com/rongsam/stitch-api/internal/segment"
	"github.com/rongsam/stitch-api/internal/storage"
)

// CreateJobInput contains the parameters for creating a post-processing job.
type CreateJobInput struct {
	// Kind selects the operation: stitch or subtitles.
	Kind Kind
	// ExemplarPath is one segment of the batch to stitch (stitch jobs).
	ExemplarPath string
	// VideoPath is the input video (subtitle jobs).
	VideoPath string
	// SubtitlePath is the SRT file to burn in (subtitle jobs).
	SubtitlePath string
	// Style controls the subtitle rendering (subtitle jobs).
	Style media.SubtitleStyle
	// OutputPrefix names the numbered output. When empty, the batch
	// prefix (stitch) or the video's base name (subtitles) is used.
	OutputPrefix string
	// PushToS3 indicates whether to upload the result to S3.
	PushToS3 bool
}

// Service orchestrates post-processing jobs. It coordinates segment
// discovery, ffmpeg invocations, and storage to produce the output file,
// persisting job state through the Repository at each step.
type Service struct {
	repo     Repository
	stitcher media.Stitcher
	burner   media.Burner
	prober   media.Prober
	store    storage.Storage
	logger   *slog.Logger
}

// ServiceOption configures optional Service dependencies.
type ServiceOption func(*Service)

// WithProber sets the prober used to report output durations. Without
// one, durations are left at zero.
func WithProber(p media.Prober) ServiceOption {
	return func(s *Service) {
		s.prober = p
	}
}

// WithStorage sets the storage used for S3 delivery of outputs. Without
// one, PushToS3 requests fail.
func WithStorage(st storage.Storage) ServiceOption {
	return func(s *Service) {
		s.store = st
	}
}

// NewService creates a new Service.
func NewService(repo Repository, stitcher media.Stitcher, burner media.Burner, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:     repo,
		stitcher: stitcher,
		burner:   burner,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateJob creates a new job and persists it to the repository.
// The job is created in IN_QUEUE status, ready for processing.
func (s *Service) CreateJob(ctx context.Context, input CreateJobInput) (*Job, error) {
	if !input.Kind.IsValid() {
		return nil, fmt.Errorf("unknown job kind %q", input.Kind)
	}

	job := New(input.Kind)
	job.ExemplarPath = input.ExemplarPath
	job.VideoPath = input.VideoPath
	job.SubtitlePath = input.SubtitlePath
	job.Style = input.Style
	job.OutputPrefix = input.OutputPrefix
	job.PushToS3 = input.PushToS3

	s.logger.Info("creating new job",
		slog.String("job_id", job.ID),
		slog.String("kind", string(job.Kind)),
		slog.Bool("push_to_s3", input.PushToS3),
	)

	if err := s.repo.Save(ctx, job); err != nil {
		s.logger.Error("failed to save job",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	return job, nil
}

// GetJob retrieves a job by ID.
func (s *Service) GetJob(ctx context.Context, id string) (*Job, error) {
	return s.repo.FindByID(ctx, id)
}

// Process executes the job's workflow and moves it to a terminal state.
// Errors are recorded on the job; the returned error mirrors the failure
// for callers running synchronously.
func (s *Service) Process(ctx context.Context, job *Job) error {
	if err := job.Start(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, job); err != nil {
		return err
	}

	var err error
	switch job.Kind {
	case KindStitch:
		err = s.processStitch(ctx, job)
	case KindSubtitles:
		err = s.processSubtitles(ctx, job)
	default:
		err = fmt.Errorf("unknown job kind %q", job.Kind)
	}

	if err != nil {
		return s.fail(ctx, job, err)
	}

	if terr := job.Complete(); terr != nil {
		return terr
	}
	if serr := s.repo.Save(ctx, job); serr != nil {
		return serr
	}

	s.logger.Info("job completed",
		slog.String("job_id", job.ID),
		slog.String("output", job.OutputPath),
	)
	return nil
}

// processStitch discovers the segment batch around the exemplar and joins
// it into a single numbered output.
func (s *Service) processStitch(ctx context.Context, job *Job) error {
	segments, err := segment.Discover(job.ExemplarPath)
	if err != nil {
		return fmt.Errorf("discover segments: %w", err)
	}

	prefix := job.OutputPrefix
	if prefix == "" {
		prefix = segments[0].Prefix
	}

	s.logger.Info("stitching segments",
		slog.String("job_id", job.ID),
		slog.Int("segment_count", len(segments)),
		slog.String("output_prefix", prefix),
	)

	output, err := s.stitcher.Stitch(ctx, segments, prefix)
	if err != nil {
		return fmt.Errorf("stitch segments: %w", err)
	}

	duration := s.probeDuration(ctx, job.ID, output)
	job.SetStitchResult(len(segments), duration)

	return s.deliver(ctx, job, output)
}

// processSubtitles burns the job's subtitle file into its video.
func (s *Service) processSubtitles(ctx context.Context, job *Job) error {
	prefix := job.OutputPrefix
	if prefix == "" {
		base := filepath.Base(job.VideoPath)
		prefix = strings.TrimSuffix(base, filepath.Ext(base))
	}

	s.logger.Info("burning subtitles",
		slog.String("job_id", job.ID),
		slog.String("video", job.VideoPath),
		slog.String("output_prefix", prefix),
	)

	output, err := s.burner.Burn(ctx, job.VideoPath, job.SubtitlePath, prefix, job.Style)
	if err != nil {
		return fmt.Errorf("burn subtitles: %w", err)
	}

	duration := s.probeDuration(ctx, job.ID, output)
	job.SetStitchResult(0, duration)

	return s.deliver(ctx, job, output)
}

// probeDuration reports the output duration when a prober is configured.
// Probe failures are logged but never fail the job; the file is already
// written at this point.
func (s *Service) probeDuration(ctx context.Context, jobID, path string) float64 {
	if s.prober == nil {
		return 0
	}
	duration, err := s.prober.Duration(ctx, path)
	if err != nil {
		s.logger.Warn("failed to probe output duration",
			slog.String("job_id", jobID),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return 0
	}
	return duration
}

// deliver records the output on the job and uploads it to S3 when requested.
func (s *Service) deliver(ctx context.Context, job *Job, output string) error {
	var videoURL string
	if job.PushToS3 {
		if s.store == nil {
			return fmt.Errorf("push to S3 requested but storage is not configured")
		}
		f, err := os.Open(output)
		if err != nil {
			return fmt.Errorf("open output for upload: %w", err)
		}
		defer func() { _ = f.Close() }()

		videoURL, err = s.store.UploadToS3(ctx, filepath.Base(output), f)
		if err != nil {
			return fmt.Errorf("upload output to S3: %w", err)
		}
	}

	job.SetOutput(output, videoURL)
	return nil
}

// fail moves the job to FAILED with the error message and persists it.
func (s *Service) fail(ctx context.Context, job *Job, cause error) error {
	s.logger.Error("job failed",
		slog.String("job_id", job.ID),
		slog.String("error", cause.Error()),
	)

	if terr := job.Fail(cause.Error()); terr != nil {
		return terr
	}
	if serr := s.repo.Save(ctx, job); serr != nil {
		return serr
	}
	return cause
}
