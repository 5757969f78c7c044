package cli

import (
	"time"

	cliContext "github.com/dkr290/go-hf-imagegen/internal/cli/context"
)

var CLI struct {
	cliContext.Context `embed:""`

	Serve    ServeCMD    `cmd:"" help:"Run the web generator, this is the default command. Run 'imagegen serve --help' for more information" default:"withargs"`
	Generate GenerateCMD `cmd:"" help:"Generate one image from the command line and save it as PNG"`
	Models   ModelsCMD   `cmd:"" help:"List the models offered in the picker"`
}

// InferenceFlags are shared by every command that calls the inference API.
type InferenceFlags struct {
	BaseURL string        `env:"IMAGEGEN_BASE_URL,HF_BASE_URL" default:"https://router.huggingface.co/hf-inference/models" help:"Base URL of the inference API, the model id is appended to it" group:"inference"`
	Timeout time.Duration `env:"IMAGEGEN_TIMEOUT" default:"120s" help:"Timeout of a single inference call" group:"inference"`
}
