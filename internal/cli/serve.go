package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	cliContext "github.com/dkr290/go-hf-imagegen/internal/cli/context"
	"github.com/dkr290/go-hf-imagegen/internal/handlers"
	"github.com/dkr290/go-hf-imagegen/internal/inject"
	"github.com/dkr290/go-hf-imagegen/internal/metrics"
	"github.com/dkr290/go-hf-imagegen/internal/worker"
	"github.com/rs/zerolog/log"
	"github.com/samber/do"
)

type ServeCMD struct {
	InferenceFlags `embed:""`

	Address        string `env:"IMAGEGEN_ADDRESS,ADDRESS" default:":8080" help:"Bind address for the web server" group:"api"`
	Port           string `env:"PORT" help:"Port to listen on, overrides the port of --address" group:"api"`
	DisableMetrics bool   `env:"IMAGEGEN_DISABLE_METRICS" default:"false" help:"Disable the /metrics endpoint" group:"api"`

	SlotPolicy    string `env:"IMAGEGEN_SLOT_POLICY" default:"reject" enum:"reject,queue" help:"What to do with a submission while a generation is running [${enum}]" group:"inference"`
	MaxConcurrent int    `env:"IMAGEGEN_MAX_CONCURRENT" default:"1" help:"Number of generations allowed to run at once" group:"inference"`

	SaveDir  string `env:"IMAGEGEN_SAVE_DIR" type:"path" help:"Also keep every generated PNG in this directory" group:"storage"`
	S3Bucket string `env:"IMAGEGEN_S3_BUCKET" help:"Also upload every generated PNG to this S3 bucket, takes precedence over --save-dir" group:"storage"`
	S3Prefix string `env:"IMAGEGEN_S3_PREFIX" default:"generated" help:"Key prefix for uploaded images" group:"storage"`
}

func (s *ServeCMD) Run(ctx *cliContext.Context) error {
	policy, err := worker.ParsePolicy(s.SlotPolicy)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	injector := inject.Setup(sigCtx, inject.Options{
		BaseURL:       s.BaseURL,
		Timeout:       s.Timeout,
		SlotPolicy:    policy,
		MaxConcurrent: s.MaxConcurrent,
		SaveDir:       s.SaveDir,
		S3Bucket:      s.S3Bucket,
		S3Prefix:      s.S3Prefix,
	})
	defer func() {
		if err := injector.Shutdown(); err != nil {
			log.Error().Err(err).Msg("failed to shut down services")
		}
	}()

	var m *metrics.Metrics
	if !s.DisableMetrics {
		m = do.MustInvoke[*metrics.Metrics](injector)
	}
	app := handlers.NewApp(do.MustInvoke[*handlers.Handler](injector), m)

	addr := listenAddress(s.Address, s.Port)
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", addr).Str("policy", string(policy)).Msg("Server starting")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
		log.Info().Msg("shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}

// listenAddress keeps the host of address and swaps in port when set.
func listenAddress(address, port string) string {
	if port == "" {
		return address
	}
	if i := strings.LastIndex(address, ":"); i >= 0 {
		return address[:i+1] + port
	}
	return ":" + port
}
