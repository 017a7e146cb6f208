package registry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsecr "github.com/aws/aws-sdk-go-v2/service/ecr"
	ecrtypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awslabs/ecr-replication/internal/awstest"
)

type mockECRAPI struct {
	describeRepositoriesFunc func(ctx context.Context, params *awsecr.DescribeRepositoriesInput, optFns ...func(*awsecr.Options)) (*awsecr.DescribeRepositoriesOutput, error)
	describeImagesFunc       func(ctx context.Context, params *awsecr.DescribeImagesInput, optFns ...func(*awsecr.Options)) (*awsecr.DescribeImagesOutput, error)
}

func (m *mockECRAPI) DescribeRepositories(ctx context.Context, params *awsecr.DescribeRepositoriesInput, optFns ...func(*awsecr.Options)) (*awsecr.DescribeRepositoriesOutput, error) {
	return m.describeRepositoriesFunc(ctx, params, optFns...)
}

func (m *mockECRAPI) DescribeImages(ctx context.Context, params *awsecr.DescribeImagesInput, optFns ...func(*awsecr.Options)) (*awsecr.DescribeImagesOutput, error) {
	return m.describeImagesFunc(ctx, params, optFns...)
}

func TestListRepositories(t *testing.T) {
	tests := []struct {
		name           string
		registryID     string
		mockRepos      [][]ecrtypes.Repository // pages of repos
		mockNextTokens []*string               // next token per page (nil = last)
		wantNames      []string
		wantRegistryID *string
	}{
		{
			name: "single page",
			mockRepos: [][]ecrtypes.Repository{
				{{RepositoryName: awssdk.String("my-app")}, {RepositoryName: awssdk.String("my-worker")}},
			},
			mockNextTokens: []*string{nil},
			wantNames:      []string{"my-app", "my-worker"},
		},
		{
			name:       "two pages in another registry",
			registryID: "111122223333",
			mockRepos: [][]ecrtypes.Repository{
				{{RepositoryName: awssdk.String("repo-1")}},
				{{RepositoryName: awssdk.String("repo-2")}},
			},
			mockNextTokens: []*string{awssdk.String("page2"), nil},
			wantNames:      []string{"repo-1", "repo-2"},
			wantRegistryID: awssdk.String("111122223333"),
		},
		{
			name:           "empty registry",
			mockRepos:      [][]ecrtypes.Repository{{}},
			mockNextTokens: []*string{nil},
			wantNames:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			callIdx := 0
			mock := &mockECRAPI{
				describeRepositoriesFunc: func(ctx context.Context, params *awsecr.DescribeRepositoriesInput, optFns ...func(*awsecr.Options)) (*awsecr.DescribeRepositoriesOutput, error) {
					assert.Equal(t, tt.wantRegistryID, params.RegistryId)
					idx := callIdx
					callIdx++
					return &awsecr.DescribeRepositoriesOutput{
						Repositories: tt.mockRepos[idx],
						NextToken:    tt.mockNextTokens[idx],
					}, nil
				},
			}

			repos, err := NewClient(mock, tt.registryID).ListRepositories(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantNames, repos)
			assert.Equal(t, len(tt.mockRepos), callIdx)
		})
	}
}

func TestListImageTags(t *testing.T) {
	pages := [][]ecrtypes.ImageDetail{
		{
			{ImageTags: []string{"v1", "stable"}},
			{ImageTags: []string{"v2"}},
		},
		{
			{ImageTags: []string{"v3"}},
		},
	}
	tokens := []*string{awssdk.String("next"), nil}

	callIdx := 0
	mock := &mockECRAPI{
		describeImagesFunc: func(ctx context.Context, params *awsecr.DescribeImagesInput, optFns ...func(*awsecr.Options)) (*awsecr.DescribeImagesOutput, error) {
			assert.Equal(t, "my-app", awssdk.ToString(params.RepositoryName))
			require.NotNil(t, params.Filter)
			assert.Equal(t, ecrtypes.TagStatusTagged, params.Filter.TagStatus)
			idx := callIdx
			callIdx++
			return &awsecr.DescribeImagesOutput{ImageDetails: pages[idx], NextToken: tokens[idx]}, nil
		},
	}

	tags, err := NewClient(mock, "").ListImageTags(context.Background(), "my-app")
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "stable", "v2", "v3"}, tags)
}

func TestListImageTagsWithStubbedClient(t *testing.T) {
	responses := map[string]string{
		"AmazonEC2ContainerRegistry_V20150921.DescribeRepositories": `{"repositories":[{"repositoryName":"demo","registryId":"123"}]}`,
		"AmazonEC2ContainerRegistry_V20150921.DescribeImages":       `{"imageDetails":[{"imageDigest":"sha256:abc","imageTags":["v1","latest"]}]}`,
	}
	cfg, transport := awstest.NewConfig(awstest.Responses(responses))
	client := NewClient(awsecr.NewFromConfig(cfg), "123")

	repos, err := client.ListRepositories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"demo"}, repos)

	tags, err := client.ListImageTags(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "latest"}, tags)

	calls := transport.CallsTo("AmazonEC2ContainerRegistry_V20150921.DescribeImages")
	require.Len(t, calls, 1)
	var sent map[string]any
	require.NoError(t, json.Unmarshal(calls[0].Body, &sent))
	assert.Equal(t, "123", sent["registryId"])
	assert.Equal(t, "demo", sent["repositoryName"])
	assert.Equal(t, map[string]any{"tagStatus": "TAGGED"}, sent["filter"])
}

func TestListImageTagsRepositoryNotFound(t *testing.T) {
	cfg, _ := awstest.NewConfig(func(target string, _ []byte) (int, string) {
		return http.StatusBadRequest, `{"__type":"RepositoryNotFoundException","message":"The repository with name 'gone' does not exist"}`
	})
	client := NewClient(awsecr.NewFromConfig(cfg), "")

	_, err := client.ListImageTags(context.Background(), "gone")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRepositoryNotFound), "expected ErrRepositoryNotFound, got %v", err)
}
