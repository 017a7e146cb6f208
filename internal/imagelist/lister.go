package imagelist

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"golang.org/x/exp/slog"

	"github.com/awslabs/ecr-replication/internal/config"
	"github.com/awslabs/ecr-replication/internal/images"
)

// Lister produces the repo-tag mappings of one source.
type Lister interface {
	GenerateRepoTagMapList(ctx context.Context) ([]images.Image, error)
}

// Factory builds the lister for one invocation.
type Factory func(ctx context.Context, logger *slog.Logger, params config.SourceParams) (Lister, error)

type ParameterReader interface {
	GetValue(ctx context.Context, name string, withDecryption bool) (string, error)
}

type CredentialSource interface {
	GetCredentials(ctx context.Context, secretName string) (aws.CredentialsProvider, error)
}

type RegistryClient interface {
	ListRepositories(ctx context.Context) ([]string, error)
	ListImageTags(ctx context.Context, repositoryName string) ([]string, error)
}

func readSelectedList(ctx context.Context, parameters ParameterReader, name string) ([]images.Image, error) {
	raw, err := parameters.GetValue(ctx, name, false)
	if err != nil {
		return nil, fmt.Errorf("failed to read selected image list: %w", err)
	}
	return images.ParseSelectedList(raw), nil
}
