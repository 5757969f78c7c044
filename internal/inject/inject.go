// Package inject wires the generator, its storage and the web handlers.
package inject

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dkr290/go-hf-imagegen/internal/handlers"
	"github.com/dkr290/go-hf-imagegen/internal/inference"
	"github.com/dkr290/go-hf-imagegen/internal/metrics"
	"github.com/dkr290/go-hf-imagegen/internal/service"
	"github.com/dkr290/go-hf-imagegen/internal/store"
	"github.com/dkr290/go-hf-imagegen/internal/worker"
	"github.com/rs/zerolog/log"
	"github.com/samber/do"
)

type Options struct {
	BaseURL       string
	Timeout       time.Duration
	SlotPolicy    worker.Policy
	MaxConcurrent int
	SaveDir       string
	S3Bucket      string
	S3Prefix      string
}

func Setup(ctx context.Context, opts Options) *do.Injector {
	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			log.Debug().Msg(fmt.Sprintf(format, args...))
		},
	})

	do.Provide[aws.Config](injector, func(i *do.Injector) (aws.Config, error) {
		return config.LoadDefaultConfig(ctx)
	})
	do.Provide[*s3.Client](injector, func(i *do.Injector) (*s3.Client, error) {
		return s3.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})

	do.Provide[*inference.Client](injector, func(i *do.Injector) (*inference.Client, error) {
		return inference.NewClient(opts.BaseURL, opts.Timeout), nil
	})
	do.Provide[*worker.Slot](injector, func(i *do.Injector) (*worker.Slot, error) {
		return worker.NewSlot(opts.MaxConcurrent, opts.SlotPolicy), nil
	})
	do.Provide[*metrics.Metrics](injector, func(i *do.Injector) (*metrics.Metrics, error) {
		return metrics.New(), nil
	})
	do.Provide[store.Uploader](injector, func(i *do.Injector) (store.Uploader, error) {
		switch {
		case opts.S3Bucket != "":
			return &store.S3Uploader{
				Client: do.MustInvoke[*s3.Client](i),
				Bucket: opts.S3Bucket,
				Prefix: opts.S3Prefix,
			}, nil
		case opts.SaveDir != "":
			return &store.FileUploader{Dir: opts.SaveDir}, nil
		default:
			return nil, nil
		}
	})

	do.Provide[*service.ImageGenerationService](injector, func(i *do.Injector) (*service.ImageGenerationService, error) {
		return service.NewImageGenerationService(
			do.MustInvoke[*inference.Client](i),
			do.MustInvoke[*worker.Slot](i),
			do.MustInvoke[*metrics.Metrics](i),
			do.MustInvoke[store.Uploader](i),
		), nil
	})
	do.Provide[*handlers.Handler](injector, func(i *do.Injector) (*handlers.Handler, error) {
		return handlers.New(do.MustInvoke[*service.ImageGenerationService](i)), nil
	})

	return injector
}
