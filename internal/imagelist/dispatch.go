package imagelist

import (
	"context"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"
	"golang.org/x/exp/slog"

	"github.com/awslabs/ecr-replication/internal/config"
	"github.com/awslabs/ecr-replication/internal/images"
)

// Dispatcher routes an invocation to the lister matching its source.
type Dispatcher struct {
	NewECRLister      Factory
	NewSelectedLister Factory
}

func (d *Dispatcher) factory(strategy Strategy) Factory {
	switch strategy {
	case StrategyECR:
		return d.NewECRLister
	case StrategySelected:
		return d.NewSelectedLister
	default:
		return nil
	}
}

// Generate builds the lister for params and returns its list. When the source
// matches no lister the result is empty and not an error. The result is never nil.
func (d *Dispatcher) Generate(ctx context.Context, logger *slog.Logger, params config.SourceParams) (result []images.Image, err error) {
	strategy := SelectStrategy(params)

	factory := d.factory(strategy)
	if factory == nil {
		logger.Info("Source is neither Amazon ECR nor a selected list, nothing to list",
			"source_type", params.SourceType, "src_list", params.SrcList)
		return []images.Image{}, nil
	}

	err = xray.Capture(ctx, "imagelist.generate", func(tracedCtx context.Context) error {
		xray.AddAnnotation(tracedCtx, "strategy", strategy.String())

		lister, factoryErr := factory(tracedCtx, logger, params)
		if factoryErr != nil {
			return fmt.Errorf("could not create %s lister: %w", strategy, factoryErr)
		}

		listed, listErr := lister.GenerateRepoTagMapList(tracedCtx)
		if listErr != nil {
			return fmt.Errorf("%s lister failed: %w", strategy, listErr)
		}

		result = listed
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result == nil {
		result = []images.Image{}
	}
	return result, nil
}
