package cli

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	cliContext "github.com/dkr290/go-hf-imagegen/internal/cli/context"
	"github.com/dkr290/go-hf-imagegen/internal/inference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCMD(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 12, 10))))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/"+inference.DefaultModel().ID, r.URL.Path)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	defer server.Close()

	var out bytes.Buffer
	output := filepath.Join(t.TempDir(), "nested", "fox.png")
	cmd := &GenerateCMD{
		InferenceFlags: InferenceFlags{BaseURL: server.URL, Timeout: 5 * time.Second},
		Prompt:         "a red fox",
		Token:          "hf_x",
		Output:         output,
		out:            &out,
	}
	require.NoError(t, cmd.Run(&cliContext.Context{}))

	assert.Contains(t, out.String(), "Generation Complete!")
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Width)
	assert.Equal(t, 10, cfg.Height)
}

func TestGenerateCMDError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	var out bytes.Buffer
	output := filepath.Join(t.TempDir(), "out.png")
	cmd := &GenerateCMD{
		InferenceFlags: InferenceFlags{BaseURL: server.URL, Timeout: 5 * time.Second},
		Prompt:         "cat",
		Token:          "hf_x",
		Output:         output,
		out:            &out,
	}
	assert.Error(t, cmd.Run(&cliContext.Context{}))
	assert.Contains(t, out.String(), "Model is loading")
	assert.NoFileExists(t, output)
}

func TestGenerateCMDMissingToken(t *testing.T) {
	var out bytes.Buffer
	cmd := &GenerateCMD{Prompt: "cat", out: &out}
	assert.Error(t, cmd.Run(&cliContext.Context{}))
	assert.Contains(t, out.String(), "Please enter your Hugging Face API token")
}

func TestModelsCMD(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, (&ModelsCMD{out: &out}).Run(&cliContext.Context{}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, len(inference.Models))
	assert.Contains(t, out.String(), inference.DefaultModel().ID+") (default)")
}

func TestListenAddress(t *testing.T) {
	assert.Equal(t, ":8080", listenAddress(":8080", ""))
	assert.Equal(t, ":9000", listenAddress(":8080", "9000"))
	assert.Equal(t, "127.0.0.1:9000", listenAddress("127.0.0.1:8080", "9000"))
	assert.Equal(t, ":9000", listenAddress("localhost", "9000"))
}
