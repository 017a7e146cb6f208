package imagelist

import (
	"context"

	"github.com/aws/aws-xray-sdk-go/xray"
	"golang.org/x/exp/slog"

	"github.com/awslabs/ecr-replication/internal/config"
	"github.com/awslabs/ecr-replication/internal/images"
)

// SelectedLister lists the images named in the selected-list parameter of a
// source that has no registry API to query.
type SelectedLister struct {
	params     config.SourceParams
	parameters ParameterReader
	logger     *slog.Logger
}

func NewSelectedLister(params config.SourceParams, parameters ParameterReader, logger *slog.Logger) *SelectedLister {
	return &SelectedLister{params: params, parameters: parameters, logger: logger}
}

func SelectedListerFactory(parameters ParameterReader) Factory {
	return func(_ context.Context, logger *slog.Logger, params config.SourceParams) (Lister, error) {
		return NewSelectedLister(params, parameters, logger), nil
	}
}

func (l *SelectedLister) GenerateRepoTagMapList(ctx context.Context) (result []images.Image, err error) {
	err = xray.Capture(ctx, "imagelist.selected", func(tracedCtx context.Context) error {
		xray.AddAnnotation(tracedCtx, "parameter", l.params.SrcImageList)

		selected, readErr := readSelectedList(tracedCtx, l.parameters, l.params.SrcImageList)
		if readErr != nil {
			return readErr
		}

		result = make([]images.Image, 0, len(selected))
		for _, image := range selected {
			if image.IsAllTags() {
				l.logger.Warn("Tags can only be expanded for Amazon ECR sources, skipping", "repository", image.RepositoryName)
				continue
			}
			result = append(result, image)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("Selected images listed", "count", len(result))
	return result, nil
}
