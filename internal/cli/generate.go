package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	cliContext "github.com/dkr290/go-hf-imagegen/internal/cli/context"
	"github.com/dkr290/go-hf-imagegen/internal/download"
	"github.com/dkr290/go-hf-imagegen/internal/handlers"
	"github.com/dkr290/go-hf-imagegen/internal/inference"
	"github.com/dkr290/go-hf-imagegen/internal/service"
	"github.com/dkr290/go-hf-imagegen/internal/store"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
)

type GenerateCMD struct {
	InferenceFlags `embed:""`

	Prompt         string  `arg:"" optional:"" help:"Description of the image to generate"`
	Token          string  `env:"HF_TOKEN,HUGGINGFACE_TOKEN" help:"Hugging Face API token" group:"inference"`
	NegativePrompt string  `name:"negative-prompt" default:"${negative_prompt}" help:"What to avoid in the image"`
	Steps          int     `default:"30" help:"Inference steps, clamped to 10-50"`
	Guidance       float64 `default:"7.5" help:"Guidance scale, clamped to 1-15"`
	Model          string  `short:"m" default:"${default_model}" help:"Model id or label, run 'imagegen models' for the list"`
	Output         string  `short:"o" type:"path" default:"generated_image.png" help:"Where to write the PNG"`

	out io.Writer
}

func (g *GenerateCMD) Run(ctx *cliContext.Context) error {
	out := g.out
	if out == nil {
		out = os.Stdout
	}

	svc := service.NewImageGenerationService(inference.NewClient(g.BaseURL, g.Timeout), nil, nil, nil)

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Generating image..."),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	result, err := svc.Generate(context.Background(), service.GenerationRequest{
		Token:          g.Token,
		Prompt:         g.Prompt,
		NegativePrompt: g.NegativePrompt,
		Steps:          g.Steps,
		Guidance:       g.Guidance,
		Model:          g.Model,
	})
	close(done)
	_ = bar.Finish()

	if err != nil {
		fmt.Fprintln(out, handlers.MessageFor(err).Text)
		return err
	}

	uploader := &store.FileUploader{Dir: filepath.Dir(g.Output)}
	if err := uploader.Upload(context.Background(), store.UploadParams{
		Name:        filepath.Base(g.Output),
		Data:        result.Image.PNG,
		ContentType: download.MIMEType,
	}); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}

	log.Debug().Str("output", g.Output).Dur("elapsed", result.Elapsed).Msg("image saved")
	fmt.Fprintln(out, "Generation Complete!")
	fmt.Fprintf(out, "%q with %s, %dx%d, saved to %s\n",
		result.Prompt, result.Model.ID, result.Image.Width, result.Image.Height, g.Output)
	return nil
}
