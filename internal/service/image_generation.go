// Package service validates generation requests and runs them against the
// inference API through the single-slot executor.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dkr290/go-hf-imagegen/internal/download"
	"github.com/dkr290/go-hf-imagegen/internal/inference"
	"github.com/dkr290/go-hf-imagegen/internal/metrics"
	"github.com/dkr290/go-hf-imagegen/internal/store"
	"github.com/dkr290/go-hf-imagegen/internal/worker"
	"github.com/dkr290/go-hf-imagegen/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	MinSteps     = 10
	MaxSteps     = 50
	DefaultSteps = 30

	MinGuidance     = 1.0
	MaxGuidance     = 15.0
	DefaultGuidance = 7.5

	DefaultNegativePrompt = "blurry, low quality, distorted, watermark, ugly, duplicate, deformed"
)

var (
	ErrMissingToken  = errors.New("missing API token")
	ErrMissingPrompt = errors.New("missing prompt")
	ErrRender        = errors.New("could not render image")
)

// Generator is the inference call the service depends on.
type Generator interface {
	Generate(ctx context.Context, token, modelID string, payload inference.Payload) ([]byte, error)
}

// GenerationRequest is built fresh for every submission.
type GenerationRequest struct {
	Token          string
	Prompt         string
	NegativePrompt string
	Steps          int
	Guidance       float64
	Model          string
}

// GenerationResult carries the raw API bytes and the PNG rendition of them.
type GenerationResult struct {
	Raw      []byte
	Image    *download.Image
	Model    inference.Model
	Prompt   string
	Steps    int
	Guidance float64
	Elapsed  time.Duration
	StoredAs string
}

type ImageGenerationService struct {
	generator Generator
	slot      *worker.Slot
	metrics   *metrics.Metrics
	uploader  store.Uploader
}

// NewImageGenerationService wires the service. metrics and uploader may be nil.
func NewImageGenerationService(generator Generator, slot *worker.Slot, m *metrics.Metrics, uploader store.Uploader) *ImageGenerationService {
	if slot == nil {
		slot = worker.NewSlot(1, worker.PolicyReject)
	}
	return &ImageGenerationService{
		generator: generator,
		slot:      slot,
		metrics:   m,
		uploader:  uploader,
	}
}

// Normalize trims text fields, applies defaults to zero values, clamps the
// numeric ranges and resolves the model. It fails before any network call
// when the token or prompt is empty.
func Normalize(req GenerationRequest) (GenerationRequest, inference.Model, error) {
	req.Token = strings.TrimSpace(req.Token)
	req.Prompt = strings.TrimSpace(req.Prompt)
	req.NegativePrompt = strings.TrimSpace(req.NegativePrompt)

	if req.Token == "" {
		return req, inference.Model{}, ErrMissingToken
	}
	if req.Prompt == "" {
		return req, inference.Model{}, ErrMissingPrompt
	}

	if req.Steps == 0 {
		req.Steps = DefaultSteps
	}
	req.Steps = utils.ClampInt(req.Steps, MinSteps, MaxSteps)

	if req.Guidance == 0 {
		req.Guidance = DefaultGuidance
	}
	req.Guidance = utils.ClampFloat(req.Guidance, MinGuidance, MaxGuidance)

	model, ok := inference.LookupModel(req.Model)
	if !ok {
		model = inference.DefaultModel()
	}
	req.Model = model.ID

	return req, model, nil
}

// Generate runs one generation. Inference failures come back as
// *inference.Error, a full slot as worker.ErrBusy.
func (s *ImageGenerationService) Generate(ctx context.Context, in GenerationRequest) (*GenerationResult, error) {
	req, model, err := Normalize(in)
	if err != nil {
		return nil, err
	}

	payload := inference.Payload{
		Inputs: req.Prompt,
		Parameters: inference.Parameters{
			NegativePrompt:    req.NegativePrompt,
			NumInferenceSteps: req.Steps,
			GuidanceScale:     req.Guidance,
		},
	}

	var result *GenerationResult
	err = s.slot.Run(ctx, func(ctx context.Context) error {
		start := time.Now()
		data, err := s.generator.Generate(ctx, req.Token, model.ID, payload)
		elapsed := time.Since(start)
		if err != nil {
			s.record(model.ID, inference.KindOf(err).String(), elapsed)
			return err
		}
		s.record(model.ID, metrics.OutcomeSuccess, elapsed)

		img, err := download.EncodePNG(data)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRender, err)
		}

		result = &GenerationResult{
			Raw:      data,
			Image:    img,
			Model:    model,
			Prompt:   req.Prompt,
			Steps:    req.Steps,
			Guidance: req.Guidance,
			Elapsed:  elapsed,
		}
		return nil
	})
	if errors.Is(err, worker.ErrBusy) {
		s.record(model.ID, "busy", 0)
	}
	if err != nil {
		return nil, err
	}

	log.Info().Str("model", model.ID).Int("width", result.Image.Width).Int("height", result.Image.Height).
		Dur("elapsed", result.Elapsed).Msg("image generated")

	if s.uploader != nil {
		result.StoredAs = s.store(ctx, result)
	}
	return result, nil
}

func (s *ImageGenerationService) store(ctx context.Context, result *GenerationResult) string {
	name := fmt.Sprintf("%s-%s.png", time.Now().UTC().Format("20060102-150405"), uuid.NewString())
	err := s.uploader.Upload(ctx, store.UploadParams{
		Name:        name,
		Data:        result.Image.PNG,
		ContentType: download.MIMEType,
		Metadata: map[string]string{
			"model":    result.Model.ID,
			"steps":    strconv.Itoa(result.Steps),
			"guidance": strconv.FormatFloat(result.Guidance, 'f', 1, 64),
		},
	})
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("failed to store generated image")
		return ""
	}
	return name
}

func (s *ImageGenerationService) record(model, outcome string, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordGeneration(model, outcome, elapsed)
	}
}
