// Package inference talks to the hosted text-to-image inference API.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dkr290/go-hf-imagegen/utils"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "https://router.huggingface.co/hf-inference/models"
	DefaultTimeout = 120 * time.Second

	// bodyPrefixLen bounds how much of an error body is kept for display.
	bodyPrefixLen = 300
)

// Parameters are the generation knobs sent next to the prompt.
type Parameters struct {
	NegativePrompt    string  `json:"negative_prompt"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	GuidanceScale     float64 `json:"guidance_scale"`
}

// Payload is the JSON body of an inference call.
type Payload struct {
	Inputs     string     `json:"inputs"`
	Parameters Parameters `json:"parameters"`
}

// Client represents the inference API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client with a fixed per-call timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the endpoint prefix the model id is appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Generate performs one POST for modelID and returns the raw image bytes.
// Every failure is an *Error.
func (c *Client) Generate(ctx context.Context, token, modelID string, payload Payload) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := c.baseURL + "/" + modelID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	log.Debug().Str("model", modelID).Int("steps", payload.Parameters.NumInferenceSteps).
		Float64("guidance", payload.Parameters.GuidanceScale).Msg("sending inference request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Kind:       kindForStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Body:       utils.Truncate(string(data), bodyPrefixLen),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "image") {
		return nil, &Error{
			Kind:        KindUnexpectedContentType,
			StatusCode:  resp.StatusCode,
			ContentType: contentType,
			Body:        utils.Truncate(string(data), bodyPrefixLen),
		}
	}

	log.Debug().Str("model", modelID).Str("content_type", contentType).Int("bytes", len(data)).
		Msg("received image")
	return data, nil
}

func transportError(err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Kind: KindTimeout, Err: err}
	}
	return &Error{Kind: KindConnectionFailed, Err: err}
}
