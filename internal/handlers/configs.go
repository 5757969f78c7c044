package handlers

import (
	"html/template"

	"github.com/dkr290/go-hf-imagegen/internal/service"
)

// GenerateRequest is bound from the HTML form or an API body.
type GenerateRequest struct {
	HFToken        string  `form:"hf_token" json:"hf_token"`
	Prompt         string  `form:"prompt" json:"prompt"`
	NegativePrompt string  `form:"negative_prompt" json:"negative_prompt"`
	Steps          int     `form:"steps" json:"steps"`
	Guidance       float64 `form:"guidance" json:"guidance"`
	Model          string  `form:"model" json:"model"`
}

func (r GenerateRequest) toGenerationRequest() service.GenerationRequest {
	return service.GenerationRequest{
		Token:          r.HFToken,
		Prompt:         r.Prompt,
		NegativePrompt: r.NegativePrompt,
		Steps:          r.Steps,
		Guidance:       r.Guidance,
		Model:          r.Model,
	}
}

// FormValues repopulates the form. The token is never echoed back.
type FormValues struct {
	Prompt         string
	NegativePrompt string
	Steps          int
	Guidance       float64
	Model          string
}

type Limits struct {
	MinSteps    int
	MaxSteps    int
	MinGuidance float64
	MaxGuidance float64
}

// ResultView is the rendered image block.
type ResultView struct {
	DataURI  template.URL
	Prompt   string
	Model    string
	Width    int
	Height   int
	Filename string
}
