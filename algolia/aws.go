package algolia

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsManagerClient defines the interface for AWS Secrets Manager operations.
type SecretsManagerClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSSecrets returns a FetchSecrets function that retrieves Algolia credentials
// from AWS Secrets Manager. The secret is expected to be stored at the path
// "{environment}/algolia" and contain JSON with app_id and api_key fields.
func AWSSecrets(ctx context.Context, client SecretsManagerClient, env string) FetchSecrets {
	return func() (Secrets, error) {
		secretPath := fmt.Sprintf("%s/algolia", env)
		return fetchFromSecretsManager(ctx, client, secretPath)
	}
}

// AWSSecretsFromARN returns a FetchSecrets function that retrieves Algolia
// credentials from AWS Secrets Manager using the provided secret ARN.
// The secret is expected to contain JSON with app_id and api_key fields.
func AWSSecretsFromARN(ctx context.Context, client SecretsManagerClient, secretArn string) FetchSecrets {
	return func() (Secrets, error) {
		return fetchFromSecretsManager(ctx, client, secretArn)
	}
}

func fetchFromSecretsManager(ctx context.Context, client SecretsManagerClient, secretID string) (Secrets, error) {
	input := &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	}

	result, err := client.GetSecretValue(ctx, input)
	if err != nil {
		return Secrets{}, fmt.Errorf("failed to get secret from AWS Secrets Manager at %s: %w", secretID, err)
	}

	if result.SecretString == nil {
		return Secrets{}, fmt.Errorf("secret at %s has no string value", secretID)
	}

	var secrets Secrets
	if err := json.Unmarshal([]byte(aws.ToString(result.SecretString)), &secrets); err != nil {
		return Secrets{}, fmt.Errorf("failed to unmarshal secret JSON from %s: %w", secretID, err)
	}

	return secrets, nil
}
