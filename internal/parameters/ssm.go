package parameters

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/smithy-go"
)

var ErrParameterNotFound = errors.New("parameter not found")

// Handler reads values from the SSM Parameter Store of the function's own account.
type Handler struct {
	client *ssm.Client
}

func NewHandler(awsConfig aws.Config) *Handler {
	client := ssm.NewFromConfig(awsConfig)
	return &Handler{client: client}
}

func (h *Handler) GetValue(ctx context.Context, name string, withDecryption bool) (string, error) {
	if name == "" {
		return "", fmt.Errorf("parameter name is required")
	}

	value, err := h.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(withDecryption),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ParameterNotFound" {
			return "", fmt.Errorf("%s: %w", name, ErrParameterNotFound)
		}
		return "", fmt.Errorf("could not get parameter %s: %w", name, err)
	}

	if value.Parameter == nil {
		return "", fmt.Errorf("empty response for parameter %s", name)
	}
	return aws.ToString(value.Parameter.Value), nil
}
