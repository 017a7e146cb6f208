package listingcache

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func decompress(data string) ([]byte, error) {
	decodedData, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}

	r, err := gzip.NewReader(bytes.NewReader(decodedData))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

// GetItem returns the stored listing for key, or nil when there is none.
func (p *Handler) GetItem(ctx context.Context, key string) (*ListingItem, error) {
	result, err := p.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: p.TableName,
		Key: map[string]types.AttributeValue{
			"source": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("got error calling GetItem: %w", err)
	}

	if len(result.Item) == 0 {
		return nil, nil //nolint:nilnil // No listing stored yet.
	}

	var compressedItem CompressedListingItem
	if err = attributevalue.UnmarshalMap(result.Item, &compressedItem); err != nil {
		return nil, fmt.Errorf("got error unmarshalling dynamodb item: %w", err)
	}

	decompressedData, err := decompress(compressedItem.Images)
	if err != nil {
		return nil, fmt.Errorf("got error decompressing image list: %w", err)
	}

	item := ListingItem{
		Source:      compressedItem.Source,
		LastUpdated: compressedItem.LastUpdated,
	}
	if err = json.Unmarshal(decompressedData, &item.Images); err != nil {
		return nil, fmt.Errorf("got error unmarshalling image list: %w", err)
	}

	return &item, nil
}
