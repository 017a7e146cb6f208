package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsecr "github.com/aws/aws-sdk-go-v2/service/ecr"
	ecrtypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"
)

var ErrRepositoryNotFound = errors.New("repository not found")

type ECRAPI interface {
	DescribeRepositories(ctx context.Context, params *awsecr.DescribeRepositoriesInput, optFns ...func(*awsecr.Options)) (*awsecr.DescribeRepositoriesOutput, error)
	DescribeImages(ctx context.Context, params *awsecr.DescribeImagesInput, optFns ...func(*awsecr.Options)) (*awsecr.DescribeImagesOutput, error)
}

// Client enumerates repositories and tags of a single ECR registry.
type Client struct {
	api        ECRAPI
	registryID *string
}

// NewClient wraps an ECR API. An empty registryID targets the registry of the
// account the credentials belong to.
func NewClient(api ECRAPI, registryID string) *Client {
	client := &Client{api: api}
	if registryID != "" {
		client.registryID = aws.String(registryID)
	}
	return client
}

func (c *Client) ListRepositories(ctx context.Context) ([]string, error) {
	var repositories []string

	paginator := awsecr.NewDescribeRepositoriesPaginator(c.api, &awsecr.DescribeRepositoriesInput{
		RegistryId: c.registryID,
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeRepositories: %w", err)
		}
		for _, r := range page.Repositories {
			if name := aws.ToString(r.RepositoryName); name != "" {
				repositories = append(repositories, name)
			}
		}
	}

	return repositories, nil
}

// ListImageTags returns every tag of the tagged images in a repository, in the
// order ECR reports them. Untagged images are not included.
func (c *Client) ListImageTags(ctx context.Context, repositoryName string) ([]string, error) {
	var tags []string

	paginator := awsecr.NewDescribeImagesPaginator(c.api, &awsecr.DescribeImagesInput{
		RegistryId:     c.registryID,
		RepositoryName: aws.String(repositoryName),
		Filter:         &ecrtypes.DescribeImagesFilter{TagStatus: ecrtypes.TagStatusTagged},
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			var notFound *ecrtypes.RepositoryNotFoundException
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("%s: %w", repositoryName, ErrRepositoryNotFound)
			}
			return nil, fmt.Errorf("DescribeImages %s: %w", repositoryName, err)
		}
		for _, img := range page.ImageDetails {
			tags = append(tags, img.ImageTags...)
		}
	}

	return tags, nil
}
