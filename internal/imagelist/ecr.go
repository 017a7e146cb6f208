package imagelist

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsecr "github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-xray-sdk-go/xray"
	"golang.org/x/exp/slog"

	"github.com/awslabs/ecr-replication/internal/config"
	"github.com/awslabs/ecr-replication/internal/images"
	"github.com/awslabs/ecr-replication/internal/registry"
)

// ECRLister lists images of an Amazon ECR registry, either every tag of every
// repository or the selected ones.
type ECRLister struct {
	params     config.SourceParams
	registry   RegistryClient
	parameters ParameterReader
	logger     *slog.Logger
}

func NewECRLister(params config.SourceParams, registry RegistryClient, parameters ParameterReader, logger *slog.Logger) *ECRLister {
	return &ECRLister{params: params, registry: registry, parameters: parameters, logger: logger}
}

// ECRListerFactory connects to the source registry in SrcRegion. For a registry
// in another account the access key is read from the SrcCredentialName secret.
func ECRListerFactory(awsConfig aws.Config, credentials CredentialSource, parameters ParameterReader) Factory {
	return func(ctx context.Context, logger *slog.Logger, params config.SourceParams) (Lister, error) {
		var optFns []func(*awsecr.Options)

		if params.SrcRegion != "" {
			optFns = append(optFns, func(o *awsecr.Options) {
				o.Region = params.SrcRegion
			})
		}

		if params.IsCrossAccount() {
			provider, err := credentials.GetCredentials(ctx, params.SrcCredentialName)
			if err != nil {
				return nil, fmt.Errorf("could not get source credentials: %w", err)
			}
			optFns = append(optFns, func(o *awsecr.Options) {
				o.Credentials = aws.NewCredentialsCache(provider)
			})
		}

		client := registry.NewClient(awsecr.NewFromConfig(awsConfig, optFns...), params.SrcAccountID)
		return NewECRLister(params, client, parameters, logger), nil
	}
}

func (l *ECRLister) GenerateRepoTagMapList(ctx context.Context) (result []images.Image, err error) {
	err = xray.Capture(ctx, "imagelist.ecr", func(tracedCtx context.Context) error {
		xray.AddAnnotation(tracedCtx, "src_region", l.params.SrcRegion)
		xray.AddAnnotation(tracedCtx, "src_list", l.params.SrcList)

		var listErr error
		if l.params.IsSelected() {
			result, listErr = l.listSelected(tracedCtx)
		} else {
			result, listErr = l.listAll(tracedCtx)
		}
		return listErr
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("ECR images listed", "count", len(result))
	return result, nil
}

func (l *ECRLister) listAll(ctx context.Context) ([]images.Image, error) {
	repositories, err := l.registry.ListRepositories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}

	l.logger.Info("Found repositories", "count", len(repositories))

	result := []images.Image{}
	for _, repository := range repositories {
		expanded, expandErr := l.expand(ctx, repository)
		if expandErr != nil {
			return nil, expandErr
		}
		result = append(result, expanded...)
	}
	return result, nil
}

func (l *ECRLister) listSelected(ctx context.Context) ([]images.Image, error) {
	selected, err := readSelectedList(ctx, l.parameters, l.params.SrcImageList)
	if err != nil {
		return nil, err
	}

	result := make([]images.Image, 0, len(selected))
	for _, image := range selected {
		if !image.IsAllTags() {
			result = append(result, image)
			continue
		}

		expanded, expandErr := l.expand(ctx, image.RepositoryName)
		if expandErr != nil {
			return nil, expandErr
		}
		result = append(result, expanded...)
	}
	return result, nil
}

// expand lists every tag of a repository. A repository deleted while we list is
// skipped, not fatal.
func (l *ECRLister) expand(ctx context.Context, repository string) ([]images.Image, error) {
	tags, err := l.registry.ListImageTags(ctx, repository)
	if errors.Is(err, registry.ErrRepositoryNotFound) {
		l.logger.Warn("Repository not found, skipping", "repository", repository)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list tags of %s: %w", repository, err)
	}

	expanded := make([]images.Image, 0, len(tags))
	for _, tag := range tags {
		expanded = append(expanded, images.Image{RepositoryName: repository, ImageTag: tag})
	}
	return expanded, nil
}
