package listingcache

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/awslabs/ecr-replication/internal/images"
)

// Handler keeps the last image listing produced for each source in a DynamoDB
// table keyed by `source`.
type Handler struct {
	TableName *string
	Client    *dynamodb.Client
}

func NewHandler(awsConfig aws.Config, tableName string) *Handler {
	ddbClient := dynamodb.NewFromConfig(awsConfig)

	return &Handler{
		TableName: aws.String(tableName),
		Client:    ddbClient,
	}
}

// CompressedListingItem is the stored form: the image list is gzipped JSON,
// base64 encoded, so large registries stay under the item size limit.
type CompressedListingItem struct {
	Source      string    `dynamodbav:"source"`
	Images      string    `dynamodbav:"images"`
	ImageCount  int       `dynamodbav:"image_count"`
	LastUpdated time.Time `dynamodbav:"last_updated"`
}

type ListingItem struct {
	Source      string
	Images      []images.Image
	LastUpdated time.Time
}
