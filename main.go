package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/dkr290/go-hf-imagegen/internal/cli"
	"github.com/dkr290/go-hf-imagegen/internal/envs"
	"github.com/dkr290/go-hf-imagegen/internal/inference"
	"github.com/dkr290/go-hf-imagegen/internal/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Console logging at info until the flags are parsed
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	envs.Load(envs.DefaultFiles())

	ctx := kong.Parse(&cli.CLI,
		kong.Name("imagegen"),
		kong.Description("Text-to-image generator backed by the Hugging Face Inference API."),
		kong.UsageOnError(),
		kong.Vars{
			"default_model":   inference.DefaultModel().ID,
			"negative_prompt": service.DefaultNegativePrompt,
		},
	)

	if err := cli.CLI.Context.SetupLogging(os.Stderr); err != nil {
		log.Fatal().Err(err).Msg("invalid logging options")
	}

	if err := ctx.Run(&cli.CLI.Context); err != nil {
		log.Fatal().Err(err).Msg("Error running the application")
	}
}
