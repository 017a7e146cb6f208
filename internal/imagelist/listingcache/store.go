package listingcache

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/awslabs/ecr-replication/internal/images"
)

func compress(data []byte) (string, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (p *Handler) Store(ctx context.Context, key string, list []images.Image) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("got error marshalling image list: %w", err)
	}

	compressed, err := compress(data)
	if err != nil {
		return fmt.Errorf("got error compressing image list: %w", err)
	}

	item := CompressedListingItem{
		Source:      key,
		Images:      compressed,
		ImageCount:  len(list),
		LastUpdated: time.Now().UTC(),
	}

	marshalledItem, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("got error marshalling dynamodb item: %w", err)
	}

	putItemInput := &dynamodb.PutItemInput{
		Item:      marshalledItem,
		TableName: p.TableName,
	}

	_, err = p.Client.PutItem(ctx, putItemInput)
	if err != nil {
		return fmt.Errorf("got error calling PutItem: %w", err)
	}

	return nil
}
