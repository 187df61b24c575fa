package awsclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
)

// SecretsGetter is the subset of the Secrets Manager client used here.
type SecretsGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// databaseSecret is the layout of an RDS-managed database secret.
type databaseSecret struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

// DatabaseSource reads the named secret and builds a postgres connection URL from it.
func DatabaseSource(ctx context.Context, client SecretsGetter, secretName string) (string, error) {
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("error retrieving secret %s (%s): %w", secretName, apiErr.ErrorCode(), err)
		}
		return "", fmt.Errorf("error retrieving secret %s: %w", secretName, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", secretName)
	}

	var secret databaseSecret
	if err := json.Unmarshal([]byte(*out.SecretString), &secret); err != nil {
		return "", fmt.Errorf("error decoding secret %s: %w", secretName, err)
	}

	if secret.Port == 0 {
		secret.Port = 5432
	}
	if secret.SSLMode == "" {
		secret.SSLMode = "require"
	}

	source := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(secret.Username, secret.Password),
		Host:     fmt.Sprintf("%s:%d", secret.Host, secret.Port),
		Path:     "/" + secret.DBName,
		RawQuery: url.Values{"sslmode": {secret.SSLMode}}.Encode(),
	}
	return source.String(), nil
}
