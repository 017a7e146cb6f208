package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	sfntypes "github.com/aws/aws-sdk-go-v2/service/sfn/types"
	"github.com/aws/aws-xray-sdk-go/xray"

	"github.com/awslabs/ecr-replication/internal/config"
)

type StepFunctionsAPI interface {
	ListExecutions(ctx context.Context, params *sfn.ListExecutionsInput, optFns ...func(*sfn.Options)) (*sfn.ListExecutionsOutput, error)
	StartExecution(ctx context.Context, params *sfn.StartExecutionInput, optFns ...func(*sfn.Options)) (*sfn.StartExecutionOutput, error)
}

type LambdaFunc func(ctx context.Context, e json.RawMessage) (string, error)

// HandleRequest starts the replication state machine unless an execution is
// already running. It runs on stack create and update, where the scheduled
// rule may not fire. The result is the started execution ARN, or empty.
func HandleRequest(cfg *config.Config, client StepFunctionsAPI) LambdaFunc {
	return func(ctx context.Context, _ json.RawMessage) (executionARN string, err error) {
		logger := cfg.Logger.With("state_machine", cfg.StateMachineARN)

		err = xray.Capture(ctx, "start_replication.handle", func(tracedCtx context.Context) error {
			xray.AddAnnotation(tracedCtx, "state_machine", cfg.StateMachineARN)

			running, listErr := client.ListExecutions(tracedCtx, &sfn.ListExecutionsInput{
				StateMachineArn: aws.String(cfg.StateMachineARN),
				StatusFilter:    sfntypes.ExecutionStatusRunning,
			})
			if listErr != nil {
				return fmt.Errorf("failed to list running executions: %w", listErr)
			}

			if len(running.Executions) > 0 {
				logger.Info("Replication already running, not starting another",
					"execution", aws.ToString(running.Executions[0].ExecutionArn))
				return nil
			}

			started, startErr := client.StartExecution(tracedCtx, &sfn.StartExecutionInput{
				StateMachineArn: aws.String(cfg.StateMachineARN),
			})
			if startErr != nil {
				return fmt.Errorf("failed to start execution: %w", startErr)
			}

			executionARN = aws.ToString(started.ExecutionArn)
			logger.Info("Replication started", "execution", executionARN)
			return nil
		})
		if err != nil {
			logger.Error("Error starting replication", "error", err)
			return "", err
		}

		return executionARN, nil
	}
}
