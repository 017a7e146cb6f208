package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/awslabs/ecr-replication/internal/config"
)

func main() {
	configBuilder := config.NewBuilder(config.WithStateMachine())
	cfg, err := configBuilder.BuildConfig(context.Background(), "start_replication.buildconfig")
	if err != nil {
		panic(fmt.Errorf("could not build config: %w", err))
	}

	lambda.Start(HandleRequest(cfg, cfg.StepFunctionsClient))
}
