package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"mental_models_hub/internal/domain/models"
	"mental_models_hub/internal/lib/logger/sl"
	"mental_models_hub/internal/metrics"
	"mental_models_hub/internal/repository"
	filestorage "mental_models_hub/internal/storage/filestorage"

	"github.com/google/uuid"
)

// Synthesizer turns article text into narration audio. Implementations
// wrap an external TTS provider; tests supply a fake.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

const audioSubPath = "audio"

type AudioService struct {
	log         *slog.Logger
	repo        repository.ModelRepository
	files       filestorage.FileStorage
	synthesizer Synthesizer
}

func NewAudioService(log *slog.Logger, repo repository.ModelRepository, files filestorage.FileStorage, synthesizer Synthesizer) *AudioService {
	return &AudioService{
		log:         log,
		repo:        repo,
		files:       files,
		synthesizer: synthesizer,
	}
}

// RequestNarration synthesizes narration for the model's body and promotes
// the artifact to the model's primary audio. The model sits in
// audio_status=generating for the duration; failure rolls it back to idle.
func (s *AudioService) RequestNarration(ctx context.Context, modelID uuid.UUID) (string, error) {
	const op = "audio_service.RequestNarration"
	log := s.log.With(
		slog.String("op", op),
		slog.String("model_id", modelID.String()),
	)

	model, err := s.repo.FindModelByID(ctx, modelID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if model.Body == "" {
		return "", fmt.Errorf("%s: model has no body to narrate", op)
	}

	if err := s.repo.UpdateModelFields(ctx, modelID, map[string]interface{}{
		"audio_status": string(models.AudioGenerating),
	}); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("narration started")

	audioURL, err := s.synthesizeAndStore(ctx, model)
	if err != nil {
		return "", s.fail(ctx, log, op, modelID, err)
	}

	if err := s.repo.SetPrimaryAudio(ctx, modelID, audioURL); err != nil {
		return "", s.fail(ctx, log, op, modelID, err)
	}

	if err := s.repo.UpdateModelFields(ctx, modelID, map[string]interface{}{
		"audio_status": string(models.AudioReady),
		"audio_url":    audioURL,
	}); err != nil {
		return "", s.fail(ctx, log, op, modelID, err)
	}

	metrics.NarrationJobsTotal.WithLabelValues("ok").Inc()
	log.Info("narration ready", slog.String("audio_url", audioURL))
	return audioURL, nil
}

// fail rolls the model back to audio_status=idle so a stuck "generating"
// state never outlives the request that caused it.
func (s *AudioService) fail(ctx context.Context, log *slog.Logger, op string, modelID uuid.UUID, err error) error {
	metrics.NarrationJobsTotal.WithLabelValues("error").Inc()
	log.Error("narration failed, rolling back to idle", sl.Err(err))

	if rbErr := s.repo.UpdateModelFields(ctx, modelID, map[string]interface{}{
		"audio_status": string(models.AudioIdle),
	}); rbErr != nil {
		log.Error("rollback failed", sl.Err(rbErr))
	}

	return fmt.Errorf("%s: %w", op, err)
}

func (s *AudioService) synthesizeAndStore(ctx context.Context, model *models.Model) (string, error) {
	audio, err := s.synthesizer.Synthesize(ctx, model.Body)
	if err != nil {
		return "", fmt.Errorf("synthesize: %w", err)
	}

	filename := fmt.Sprintf("%s-%s.mp3", model.Slug, model.ID.String())
	relPath, _, err := s.files.SaveReader(ctx, bytes.NewReader(audio), audioSubPath, filename)
	if err != nil {
		return "", fmt.Errorf("store artifact: %w", err)
	}

	return strings.TrimSuffix(s.files.BaseURL(), "/") + "/" + filepath.ToSlash(relPath), nil
}
