package config

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"golang.org/x/exp/slog"

	"github.com/awslabs/ecr-replication/internal/imagelist/listingcache"
	"github.com/awslabs/ecr-replication/internal/parameters"
	"github.com/awslabs/ecr-replication/internal/secrets"
)

type Config struct {
	AWSConfig aws.Config
	Logger    *slog.Logger

	SecretsHandler *secrets.Handler
	ParameterStore *parameters.Handler

	// ListingCache is nil unless IMAGE_LIST_TABLE_NAME is set.
	ListingCache *listingcache.Handler

	StepFunctionsClient *sfn.Client
	StateMachineARN     string
}
