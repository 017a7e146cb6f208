package listingcache

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awslabs/ecr-replication/internal/awstest"
	"github.com/awslabs/ecr-replication/internal/images"
)

// fakeTable keeps the last PutItem and serves it back on GetItem.
type fakeTable struct {
	item json.RawMessage
}

func (f *fakeTable) handle(target string, body []byte) (int, string) {
	switch target {
	case "DynamoDB_20120810.PutItem":
		var req struct {
			Item      json.RawMessage
			TableName string
		}
		if err := json.Unmarshal(body, &req); err != nil || req.TableName != "image-listings" {
			return http.StatusBadRequest, `{"__type":"ValidationException","message":"bad request"}`
		}
		f.item = req.Item
		return http.StatusOK, `{}`
	case "DynamoDB_20120810.GetItem":
		if f.item == nil {
			return http.StatusOK, `{}`
		}
		return http.StatusOK, `{"Item":` + string(f.item) + `}`
	}
	return http.StatusBadRequest, `{"__type":"UnknownOperationException","message":"unknown"}`
}

func TestStoreAndGetItem(t *testing.T) {
	table := &fakeTable{}
	cfg, _ := awstest.NewConfig(table.handle)
	handler := NewHandler(cfg, "image-listings")

	item, err := handler.GetItem(context.Background(), "Amazon_ECR/eu-west-1//ALL")
	require.NoError(t, err)
	assert.Nil(t, item, "expected no listing before the first store")

	list := []images.Image{
		{RepositoryName: "ubuntu", ImageTag: "22.04"},
		{RepositoryName: "team/api", ImageTag: "v3"},
	}
	before := time.Now().Add(-time.Second)
	require.NoError(t, handler.Store(context.Background(), "Amazon_ECR/eu-west-1//ALL", list))

	var stored map[string]map[string]string
	require.NoError(t, json.Unmarshal(table.item, &stored))
	assert.Equal(t, "Amazon_ECR/eu-west-1//ALL", stored["source"]["S"])
	assert.Equal(t, "2", stored["image_count"]["N"])

	item, err = handler.GetItem(context.Background(), "Amazon_ECR/eu-west-1//ALL")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "Amazon_ECR/eu-west-1//ALL", item.Source)
	assert.Equal(t, list, item.Images)
	assert.True(t, item.LastUpdated.After(before), "expected a fresh timestamp, got %s", item.LastUpdated)
}

func TestDecompressRejectsGarbage(t *testing.T) {
	_, err := decompress("not base64!")
	assert.Error(t, err)

	_, err = decompress("aGVsbG8=") // "hello", not gzip
	assert.Error(t, err)
}
