package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dkr290/go-hf-imagegen/internal/inference"
	"github.com/dkr290/go-hf-imagegen/internal/service"
	"github.com/dkr290/go-hf-imagegen/internal/worker"
	"github.com/gofiber/fiber/v2"
)

const (
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Message is a status line shown under the form.
type Message struct {
	Level string
	Text  string
}

// MessageFor turns a generation error into the text shown to the user.
func MessageFor(err error) Message {
	var ierr *inference.Error
	switch {
	case errors.Is(err, service.ErrMissingToken):
		return Message{LevelWarning, "Please enter your Hugging Face API token in the sidebar."}
	case errors.Is(err, service.ErrMissingPrompt):
		return Message{LevelWarning, "Please enter a prompt."}
	case errors.Is(err, worker.ErrBusy):
		return Message{LevelWarning, "A generation is already in progress. Please wait for it to finish and try again."}
	case errors.Is(err, service.ErrRender):
		return Message{LevelError, "Could not render image: " + strings.TrimPrefix(err.Error(), service.ErrRender.Error()+": ")}
	case errors.As(err, &ierr):
		return inferenceMessage(ierr)
	default:
		return Message{LevelError, fmt.Sprintf("Error: %v", err)}
	}
}

func inferenceMessage(err *inference.Error) Message {
	switch err.Kind {
	case inference.KindUnauthorized:
		return Message{LevelError, "Invalid token: please double-check your Hugging Face API token."}
	case inference.KindForbidden:
		return Message{LevelError, "Access denied for this model. Try a different model from the dropdown, " +
			"or accept the license at huggingface.co/models"}
	case inference.KindModelLoading:
		return Message{LevelWarning, "Model is loading on HF servers. Wait 20-30 sec and try again."}
	case inference.KindTimeout:
		return Message{LevelError, "Request timed out: model may be busy. Please try again."}
	case inference.KindConnectionFailed:
		return Message{LevelError, "Connection error. Please check your internet."}
	case inference.KindUnexpectedContentType:
		return Message{LevelError, fmt.Sprintf("Unexpected response (not an image): %s", err.Body)}
	default:
		return Message{LevelError, fmt.Sprintf("API Error %d: %s", err.StatusCode, err.Body)}
	}
}

// StatusFor picks the HTTP status answered for a generation error.
func StatusFor(err error) int {
	var ierr *inference.Error
	switch {
	case errors.Is(err, service.ErrMissingToken), errors.Is(err, service.ErrMissingPrompt):
		return fiber.StatusBadRequest
	case errors.Is(err, worker.ErrBusy):
		return fiber.StatusTooManyRequests
	case errors.As(err, &ierr):
		switch ierr.Kind {
		case inference.KindUnauthorized:
			return fiber.StatusUnauthorized
		case inference.KindForbidden:
			return fiber.StatusForbidden
		case inference.KindModelLoading:
			return fiber.StatusServiceUnavailable
		case inference.KindTimeout:
			return fiber.StatusGatewayTimeout
		default:
			return fiber.StatusBadGateway
		}
	default:
		return fiber.StatusInternalServerError
	}
}

// kindFor labels an error for API clients.
func kindFor(err error) string {
	switch {
	case errors.Is(err, service.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, service.ErrMissingPrompt):
		return "missing_prompt"
	case errors.Is(err, worker.ErrBusy):
		return "busy"
	case errors.Is(err, service.ErrRender):
		return "render_failed"
	default:
		return inference.KindOf(err).String()
	}
}
