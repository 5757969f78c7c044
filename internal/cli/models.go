package cli

import (
	"fmt"
	"io"
	"os"

	cliContext "github.com/dkr290/go-hf-imagegen/internal/cli/context"
	"github.com/dkr290/go-hf-imagegen/internal/inference"
)

type ModelsCMD struct {
	out io.Writer
}

func (ml *ModelsCMD) Run(ctx *cliContext.Context) error {
	out := ml.out
	if out == nil {
		out = os.Stdout
	}
	def := inference.DefaultModel()
	for _, model := range inference.Models {
		if model.ID == def.ID {
			fmt.Fprintf(out, " * %s (%s) (default)\n", model.Label, model.ID)
		} else {
			fmt.Fprintf(out, " - %s (%s)\n", model.Label, model.ID)
		}
	}
	return nil
}
