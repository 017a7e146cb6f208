package secrets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type Handler struct {
	client *secretsmanager.Client
}

// AccessKey is the shape of a source credential secret.
type AccessKey struct {
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
}

func NewHandler(awsConfig aws.Config) *Handler {
	client := secretsmanager.NewFromConfig(awsConfig)
	return &Handler{client: client}
}

func (s *Handler) GetValue(ctx context.Context, secretName string) (string, error) {
	value, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		return "", err
	}
	if value.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", secretName)
	}
	return *value.SecretString, nil
}

// GetCredentials turns the access key stored in secretName into a static
// credentials provider, for calls into a registry in another account.
func (s *Handler) GetCredentials(ctx context.Context, secretName string) (aws.CredentialsProvider, error) {
	if secretName == "" {
		return nil, fmt.Errorf("credential secret name is required")
	}

	value, err := s.GetValue(ctx, secretName)
	if err != nil {
		return nil, fmt.Errorf("could not get secret: %w", err)
	}

	var key AccessKey
	if err = json.Unmarshal([]byte(value), &key); err != nil {
		return nil, fmt.Errorf("could not parse secret %s: %w", secretName, err)
	}

	if key.AccessKeyID == "" || key.SecretAccessKey == "" {
		return nil, fmt.Errorf("secret %s must contain access_key_id and secret_access_key", secretName)
	}
	return credentials.NewStaticCredentialsProvider(key.AccessKeyID, key.SecretAccessKey, ""), nil
}
