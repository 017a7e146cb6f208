package main

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-xray-sdk-go/xray"
	"golang.org/x/exp/slog"

	"github.com/awslabs/ecr-replication/internal/config"
	"github.com/awslabs/ecr-replication/internal/imagelist"
	"github.com/awslabs/ecr-replication/internal/images"
)

// Response is what the replication state machine maps over, one task per image.
type Response struct {
	Payload []images.Image `json:"Payload"`
}

type Generator interface {
	Generate(ctx context.Context, logger *slog.Logger, params config.SourceParams) ([]images.Image, error)
}

type LambdaFunc func(ctx context.Context, e json.RawMessage) (Response, error)

func HandleRequest(cfg *config.Config, generator Generator) LambdaFunc {
	return func(ctx context.Context, _ json.RawMessage) (Response, error) {
		params, err := config.LoadSourceParams()
		if err != nil {
			cfg.Logger.Error("Invalid configuration", "error", err)
			return Response{}, err
		}

		logger := cfg.Logger.With("source", params)
		logger.Info("Listing source images")

		var result []images.Image
		err = xray.Capture(ctx, "list_images.handle", func(tracedCtx context.Context) error {
			xray.AddAnnotation(tracedCtx, "source_type", params.SourceType)
			xray.AddAnnotation(tracedCtx, "src_list", params.SrcList)

			listed, generateErr := generator.Generate(tracedCtx, logger, params)
			if generateErr != nil {
				return generateErr
			}

			result = listed
			return nil
		})
		if err != nil {
			logger.Error("Error listing images", "error", err)
			return Response{}, err
		}

		if result == nil {
			result = []images.Image{}
		}

		storeListing(ctx, logger, cfg, params, result)

		logger.Info("Images listed", "count", len(result))
		return Response{Payload: result}, nil
	}
}

// storeListing records the listing when a cache table is configured. Failing to
// record it does not fail the invocation.
func storeListing(ctx context.Context, logger *slog.Logger, cfg *config.Config, params config.SourceParams, result []images.Image) {
	if cfg.ListingCache == nil {
		return
	}

	if err := cfg.ListingCache.Store(ctx, params.ListingKey(), result); err != nil {
		logger.Error("Failed to store image listing", "key", params.ListingKey(), "error", err)
	}
}

func newDispatcher(cfg *config.Config) *imagelist.Dispatcher {
	return &imagelist.Dispatcher{
		NewECRLister:      imagelist.ECRListerFactory(cfg.AWSConfig, cfg.SecretsHandler, cfg.ParameterStore),
		NewSelectedLister: imagelist.SelectedListerFactory(cfg.ParameterStore),
	}
}
