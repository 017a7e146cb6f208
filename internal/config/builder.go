package config

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"github.com/aws/aws-xray-sdk-go/xray"
	"golang.org/x/exp/slog"

	"github.com/awslabs/ecr-replication/internal/imagelist/listingcache"
	"github.com/awslabs/ecr-replication/internal/parameters"
	"github.com/awslabs/ecr-replication/internal/secrets"
)

type Builder struct {
	IncludeListingCache bool
	IncludeStateMachine bool

	AWSConfig        aws.Config
	Logger           *slog.Logger
	LogOutput        io.Writer
	ListingTableName string
	StateMachineARN  string
}

func NewBuilder(options ...func(*Builder)) *Builder {
	configBuilder := &Builder{LogOutput: os.Stdout}
	for _, option := range options {
		option(configBuilder)
	}
	return configBuilder
}

func WithListingCache() func(*Builder) {
	return func(builder *Builder) {
		builder.IncludeListingCache = true
	}
}

func WithStateMachine() func(*Builder) {
	return func(builder *Builder) {
		builder.IncludeStateMachine = true
	}
}

func WithLogOutput(w io.Writer) func(*Builder) {
	return func(builder *Builder) {
		builder.LogOutput = w
	}
}

func (b *Builder) SetupAWS(ctx context.Context) error {
	var err error
	b.AWSConfig, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return err
	}
	awsv2.AWSV2Instrumentor(&b.AWSConfig.APIOptions)
	return nil
}

func (b *Builder) SetupLogging() {
	b.Logger = slog.New(slog.NewJSONHandler(b.LogOutput, nil))
}

// SetupListingCache returns nil when the cache is not wanted or no table is configured;
// the listing cache is optional.
func (b *Builder) SetupListingCache() *listingcache.Handler {
	if !b.IncludeListingCache {
		return nil
	}

	b.ListingTableName = os.Getenv("IMAGE_LIST_TABLE_NAME")
	if b.ListingTableName == "" {
		return nil
	}
	return listingcache.NewHandler(b.AWSConfig, b.ListingTableName)
}

func (b *Builder) SetupStateMachine() (*sfn.Client, error) {
	if !b.IncludeStateMachine {
		return nil, nil //nolint:nilnil // Not requested.
	}

	b.StateMachineARN = os.Getenv("STATE_MACHINE_ARN")
	if b.StateMachineARN == "" {
		return nil, newError("STATE_MACHINE_ARN environment variable not set", nil)
	}
	return sfn.NewFromConfig(b.AWSConfig), nil
}

func (b *Builder) BuildConfig(ctx context.Context, xraySegmentName string) (*Config, error) {
	var err error
	if err = xray.Configure(xray.Config{ServiceVersion: "1.0.0"}); err != nil {
		return nil, fmt.Errorf("could not configure X-Ray: %w", err)
	}

	// Configuration is built outside of any Lambda request, so the segment is ours to open.
	ctx, segment := xray.BeginSegment(ctx, xraySegmentName)
	defer func() { segment.Close(err) }()

	b.SetupLogging()

	if err = b.SetupAWS(ctx); err != nil {
		return nil, fmt.Errorf("could not load AWS configuration: %w", err)
	}

	var stepFunctionsClient *sfn.Client
	if stepFunctionsClient, err = b.SetupStateMachine(); err != nil {
		return nil, err
	}

	listingCache := b.SetupListingCache()
	if listingCache != nil {
		b.Logger.Info("Listing cache enabled", "table", b.ListingTableName)
	}

	return &Config{
		AWSConfig:           b.AWSConfig,
		Logger:              b.Logger,
		SecretsHandler:      secrets.NewHandler(b.AWSConfig),
		ParameterStore:      parameters.NewHandler(b.AWSConfig),
		ListingCache:        listingCache,
		StepFunctionsClient: stepFunctionsClient,
		StateMachineARN:     b.StateMachineARN,
	}, nil
}
