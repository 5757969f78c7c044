// Package handlers serves the generation form and its JSON/PNG API.
package handlers

import (
	"context"
	"encoding/base64"
	"html/template"
	"strings"

	"github.com/dkr290/go-hf-imagegen/internal/download"
	"github.com/dkr290/go-hf-imagegen/internal/inference"
	"github.com/dkr290/go-hf-imagegen/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Generator runs one generation request.
type Generator interface {
	Generate(ctx context.Context, req service.GenerationRequest) (*service.GenerationResult, error)
}

type Handler struct {
	generator Generator
}

func New(generator Generator) *Handler {
	return &Handler{generator: generator}
}

func defaultForm() FormValues {
	return FormValues{
		NegativePrompt: service.DefaultNegativePrompt,
		Steps:          service.DefaultSteps,
		Guidance:       service.DefaultGuidance,
		Model:          inference.DefaultModel().ID,
	}
}

func (h *Handler) page(form FormValues, tokenEntered bool) fiber.Map {
	return fiber.Map{
		"Title":        "AI Image Generator",
		"Models":       inference.Models,
		"Form":         form,
		"TokenEntered": tokenEntered,
		"Limits": Limits{
			MinSteps:    service.MinSteps,
			MaxSteps:    service.MaxSteps,
			MinGuidance: service.MinGuidance,
			MaxGuidance: service.MaxGuidance,
		},
	}
}

func (h *Handler) HomeHandler(c *fiber.Ctx) error {
	return c.Render("index", h.page(defaultForm(), false), "base")
}

// GenerateHandler handles the form submission and re-renders the page with
// either the image or a message.
func (h *Handler) GenerateHandler(c *fiber.Ctx) error {
	req := new(GenerateRequest)
	if err := c.BodyParser(req); err != nil {
		data := h.page(defaultForm(), false)
		data["Message"] = Message{LevelError, "Invalid request format: " + err.Error()}
		return c.Status(fiber.StatusBadRequest).Render("index", data, "base")
	}

	genReq := req.toGenerationRequest()
	form := FormValues{
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		Steps:          req.Steps,
		Guidance:       req.Guidance,
		Model:          req.Model,
	}
	if normalized, model, err := service.Normalize(genReq); err == nil {
		form.Steps, form.Guidance, form.Model = normalized.Steps, normalized.Guidance, model.ID
	} else {
		form = mergeDefaults(form)
	}
	data := h.page(form, strings.TrimSpace(req.HFToken) != "")

	result, err := h.generator.Generate(c.UserContext(), genReq)
	if err != nil {
		msg := MessageFor(err)
		log.Warn().Err(err).Str("model", form.Model).Msg("generation failed")
		data["Message"] = msg
		return c.Status(StatusFor(err)).Render("index", data, "base")
	}

	data["Message"] = Message{LevelSuccess, "Image generated successfully!"}
	data["Result"] = ResultView{
		DataURI:  template.URL("data:" + download.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(result.Image.PNG)),
		Prompt:   result.Prompt,
		Model:    result.Model.ID,
		Width:    result.Image.Width,
		Height:   result.Image.Height,
		Filename: download.Filename,
	}
	return c.Render("index", data, "base")
}

// GenerateAPIHandler returns the PNG as an attachment, or a JSON error.
func (h *Handler) GenerateAPIHandler(c *fiber.Ctx) error {
	req := new(GenerateRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format: " + err.Error(),
			"kind":  "bad_request",
		})
	}
	if req.HFToken == "" {
		req.HFToken = bearerToken(c.Get(fiber.HeaderAuthorization))
	}

	result, err := h.generator.Generate(c.UserContext(), req.toGenerationRequest())
	if err != nil {
		log.Warn().Err(err).Str("model", req.Model).Msg("api generation failed")
		return c.Status(StatusFor(err)).JSON(fiber.Map{
			"error": MessageFor(err).Text,
			"kind":  kindFor(err),
		})
	}

	c.Set(fiber.HeaderContentType, download.MIMEType)
	c.Set(fiber.HeaderContentDisposition, download.ContentDisposition())
	c.Set("X-Model", result.Model.ID)
	if result.StoredAs != "" {
		c.Set("X-Stored-As", result.StoredAs)
	}
	return c.Send(result.Image.PNG)
}

func (h *Handler) ModelsAPIHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"default": inference.DefaultModel().ID,
		"models":  inference.Models,
	})
}

func (h *Handler) HealthHandler(c *fiber.Ctx) error {
	return c.SendString("ok")
}

func mergeDefaults(form FormValues) FormValues {
	def := defaultForm()
	if form.Steps == 0 {
		form.Steps = def.Steps
	}
	if form.Guidance == 0 {
		form.Guidance = def.Guidance
	}
	if _, ok := inference.LookupModel(form.Model); !ok {
		form.Model = def.Model
	}
	return form
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
