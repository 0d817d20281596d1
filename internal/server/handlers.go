package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/rongsam/stitch-api/internal/audio"
	"github.com/rongsam/stitch-api/internal/job"
	"github.com/rongsam/stitch-api/internal/media"
	"github.com/rongsam/stitch-api/internal/storage"
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	service            *job.Service
	store              storage.Storage
	validator          *validator.Validate
	logger             *slog.Logger
	enableAsyncProcess bool
}

// HandlerOption is a function that configures a Handlers instance.
type HandlerOption func(*Handlers)

// WithAsyncProcessing enables or disables background processing.
// When disabled, CreateJob only creates the job and returns immediately
// without starting background processing.
func WithAsyncProcessing(enabled bool) HandlerOption {
	return func(h *Handlers) {
		h.enableAsyncProcess = enabled
	}
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *job.Service, store storage.Storage, logger *slog.Logger, opts ...HandlerOption) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handlers{
		service:            service,
		store:              store,
		validator:          validator.New(),
		logger:             logger,
		enableAsyncProcess: true, // Default to enabled
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// CreateJob handles POST /jobs requests.
func (h *Handlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	style := media.DefaultSubtitleStyle()
	if req.Style != nil {
		style = *req.Style
	}

	input := job.CreateJobInput{
		Kind:         job.Kind(req.Kind),
		ExemplarPath: req.ExemplarPath,
		VideoPath:    req.VideoPath,
		SubtitlePath: req.SubtitlePath,
		Style:        style,
		OutputPrefix: req.OutputPrefix,
		PushToS3:     req.PushToS3,
	}

	// Create job first (synchronously)
	createdJob, err := h.service.CreateJob(r.Context(), input)
	if err != nil {
		h.logger.Error("failed to create job",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to create job", "JOB_CREATION_FAILED")
		return
	}

	// Start processing in background with a detached context
	// Use context.WithoutCancel to prevent cancellation when the request ends
	if h.enableAsyncProcess {
		go func(ctx context.Context, j *job.Job) {
			if processErr := h.service.Process(ctx, j); processErr != nil {
				h.logger.Error("background processing failed",
					slog.String("job_id", j.ID),
					slog.String("error", processErr.Error()),
				)
			}
		}(context.WithoutCancel(r.Context()), createdJob)
	}

	h.logger.Info("job created",
		slog.String("job_id", createdJob.ID),
		slog.String("kind", req.Kind),
	)

	writeJSON(w, http.StatusAccepted, CreateJobResponse{
		ID:     createdJob.ID,
		Status: string(createdJob.Status),
	})
}

// GetJob handles GET /jobs/{id} requests.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "job ID is required", "MISSING_JOB_ID")
		return
	}

	foundJob, err := h.service.GetJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "job not found", "JOB_NOT_FOUND")
			return
		}
		h.logger.Error("failed to get job",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get job", "JOB_FETCH_FAILED")
		return
	}

	resp := JobResponse{
		ID:     foundJob.ID,
		Kind:   string(foundJob.Kind),
		Status: string(foundJob.Status),
		Error:  foundJob.Error,
	}

	if foundJob.Status == job.StatusCompleted {
		resp.SegmentCount = foundJob.SegmentCount
		resp.DurationSec = foundJob.DurationSec
		resp.OutputPath = foundJob.OutputPath
		resp.VideoURL = foundJob.VideoURL
	}

	writeJSON(w, http.StatusOK, resp)
}

// AlignAudio handles POST /audio/align requests. The alignment runs
// synchronously; it is an in-memory transform with no external tools.
func (h *Handlers) AlignAudio(w http.ResponseWriter, r *http.Request) {
	var req AlignAudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	wavData, err := base64.StdEncoding.DecodeString(req.AudioBase64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio_base64 is not valid base64", "INVALID_BASE64")
		return
	}

	buf, err := audio.DecodeWAV(wavData)
	if err != nil {
		h.logger.Warn("failed to decode WAV input",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "audio is not a decodable WAV file", "INVALID_WAV")
		return
	}

	aligned, plan, err := audio.Align(buf, req.TargetFrameCount, req.FPS)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_INPUT")
		return
	}

	out, err := audio.EncodeWAV(aligned)
	if err != nil {
		h.logger.Error("failed to encode aligned WAV",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to encode aligned audio", "ENCODE_FAILED")
		return
	}

	h.logger.Info("audio aligned",
		slog.String("action", string(plan.Action)),
		slog.Int("delta_samples", plan.DeltaSamples),
		slog.Int("target_samples", plan.TargetSamples),
	)

	writeJSON(w, http.StatusOK, AlignAudioResponse{
		AudioBase64:  base64.StdEncoding.EncodeToString(out),
		SampleRate:   aligned.SampleRate,
		FrameCount:   aligned.FrameCount(),
		Action:       string(plan.Action),
		DeltaSamples: plan.DeltaSamples,
	})
}

// SaveImage handles POST /images requests.
func (h *Handlers) SaveImage(w http.ResponseWriter, r *http.Request) {
	var req SaveImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	// save_output=false is a pass-through: accept the image, write nothing.
	if req.SaveOutput != nil && !*req.SaveOutput {
		writeJSON(w, http.StatusOK, SaveImageResponse{Saved: false})
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image_base64 is not valid base64", "INVALID_BASE64")
		return
	}

	prefix := req.FilenamePrefix
	if prefix == "" {
		prefix = "image"
	}

	path, err := h.store.SaveNumbered(r.Context(), prefix, req.FilenameSuffix, data)
	if err != nil {
		h.logger.Error("failed to save image",
			slog.String("prefix", prefix),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to save image", "SAVE_FAILED")
		return
	}

	h.logger.Info("image saved",
		slog.String("path", path),
	)

	writeJSON(w, http.StatusCreated, SaveImageResponse{Saved: true, Path: path})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
