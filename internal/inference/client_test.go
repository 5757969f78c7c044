package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testPayload() Payload {
	return Payload{
		Inputs: "a cat in a hat",
		Parameters: Parameters{
			NegativePrompt:    "blurry",
			NumInferenceSteps: 30,
			GuidanceScale:     7.5,
		},
	}
}

func TestGenerateSendsRequest(t *testing.T) {
	pngData := testPNG(t, 4, 3)

	var gotPath, gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "image/png")
		w.Write(pngData)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	data, err := client.Generate(context.Background(), "hf_secret", "org/model", testPayload())

	require.NoError(t, err)
	assert.Equal(t, pngData, data)
	assert.Equal(t, "/org/model", gotPath)
	assert.Equal(t, "Bearer hf_secret", gotAuth)
	assert.Equal(t, "a cat in a hat", gotBody["inputs"])

	params, ok := gotBody["parameters"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "blurry", params["negative_prompt"])
	assert.Equal(t, float64(30), params["num_inference_steps"])
	assert.Equal(t, 7.5, params["guidance_scale"])
}

func TestGenerateStatusMapping(t *testing.T) {
	longBody := strings.Repeat("x", 500)

	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantKind    Kind
		wantBody    string
	}{
		{"unauthorized", http.StatusUnauthorized, "application/json", `{"error":"bad token"}`, KindUnauthorized, `{"error":"bad token"}`},
		{"forbidden", http.StatusForbidden, "application/json", "gated", KindForbidden, "gated"},
		{"loading", http.StatusServiceUnavailable, "application/json", `{"estimated_time":20}`, KindModelLoading, `{"estimated_time":20}`},
		{"other status", http.StatusInternalServerError, "text/plain", longBody, KindServerError, longBody[:300]},
		{"not found", http.StatusNotFound, "text/plain", "Not Found", KindServerError, "Not Found"},
		{"text on success", http.StatusOK, "text/plain", "hello", KindUnexpectedContentType, "hello"},
		{"json on success", http.StatusOK, "application/json", `{"error":"x"}`, KindUnexpectedContentType, `{"error":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, time.Second)
			data, err := client.Generate(context.Background(), "tok", "m", testPayload())

			assert.Nil(t, data)
			require.Error(t, err)

			var ierr *Error
			require.ErrorAs(t, err, &ierr)
			assert.Equal(t, tt.wantKind, ierr.Kind)
			assert.Equal(t, tt.status, ierr.StatusCode)
			assert.Equal(t, tt.wantBody, ierr.Body)
			assert.Equal(t, tt.wantKind, KindOf(err))
		})
	}
}

func TestGenerateAcceptsAnyImageType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	data, err := NewClient(server.URL, time.Second).Generate(context.Background(), "tok", "m", testPayload())
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestGenerateTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL, 50*time.Millisecond)
	data, err := client.Generate(context.Background(), "tok", "m", testPayload())

	assert.Nil(t, data)
	assert.Equal(t, KindTimeout, KindOf(err))
}

func TestGenerateConnectionError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	data, err := NewClient(url, time.Second).Generate(context.Background(), "tok", "m", testPayload())

	assert.Nil(t, data)
	assert.Equal(t, KindConnectionFailed, KindOf(err))
	assert.Error(t, errors.Unwrap(err))
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("", 0)
	assert.Equal(t, DefaultBaseURL, client.BaseURL())

	client = NewClient("http://example.test/models/", time.Second)
	assert.Equal(t, "http://example.test/models", client.BaseURL())
}

func TestLookupModel(t *testing.T) {
	m, ok := LookupModel("prompthero/openjourney-v4")
	assert.True(t, ok)
	assert.Equal(t, "Openjourney v4 (Artistic / MidJourney style)", m.Label)

	m, ok = LookupModel("Stable Diffusion 2.1 (Fast & Reliable)")
	assert.True(t, ok)
	assert.Equal(t, "stabilityai/stable-diffusion-2-1", m.ID)

	_, ok = LookupModel("nope/nope")
	assert.False(t, ok)

	assert.Equal(t, "dreamlike-art/dreamlike-photoreal-2.0", DefaultModel().ID)
}
