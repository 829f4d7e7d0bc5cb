// Package algolia implements the content store contract over Algolia
// indices, one index per content category. The client loads lazily with
// configurable secret management.
package algolia

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/search"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Secrets holds the Algolia application credentials.
type Secrets struct {
	// AppID is the Algolia application ID.
	AppID string `json:"app_id"`
	// APIKey is the Algolia API key.
	APIKey string `json:"api_key"`
}

// FetchSecrets is a function type that retrieves Algolia credentials.
// It allows for different secret retrieval strategies (static, environment
// variables, AWS Secrets Manager).
type FetchSecrets func() (Secrets, error)

// StaticSecrets returns a FetchSecrets function that provides static
// credentials. This is useful for testing or when credentials are known at
// compile time.
func StaticSecrets(appID, apiKey string) FetchSecrets {
	return func() (Secrets, error) {
		return Secrets{
			AppID:  appID,
			APIKey: apiKey,
		}, nil
	}
}

// EnvSecrets returns a FetchSecrets function reading credentials from the
// ALGOLIA_APP_ID and ALGOLIA_API_KEY environment variables.
func EnvSecrets() FetchSecrets {
	return func() (Secrets, error) {
		appID := os.Getenv("ALGOLIA_APP_ID")
		if appID == "" {
			return Secrets{}, fmt.Errorf("ALGOLIA_APP_ID environment variable is not set")
		}

		apiKey := os.Getenv("ALGOLIA_API_KEY")
		if apiKey == "" {
			return Secrets{}, fmt.Errorf("ALGOLIA_API_KEY environment variable is not set")
		}

		return Secrets{
			AppID:  appID,
			APIKey: apiKey,
		}, nil
	}
}

// Client wraps the Algolia SDK client with lazy credential loading and
// tracing.
type Client struct {
	getClient func() (*search.Client, error)
	tracer    trace.Tracer
}

// NewClient creates a Client. Credentials are fetched on first use and
// cached for the process lifetime.
func NewClient(fetchSecrets FetchSecrets) *Client {
	getClient := sync.OnceValues(func() (*search.Client, error) {
		secrets, err := fetchSecrets()
		if err != nil {
			return nil, fmt.Errorf("failed to fetch secrets: %w", err)
		}

		if secrets.AppID == "" {
			return nil, fmt.Errorf("AppID is empty")
		}

		if secrets.APIKey == "" {
			return nil, fmt.Errorf("APIKey is empty")
		}

		client := search.NewClient(secrets.AppID, secrets.APIKey)
		return client, nil
	})

	tracer := otel.Tracer("edsearch-algolia")

	return &Client{
		getClient: getClient,
		tracer:    tracer,
	}
}

// Search runs a query against one index.
func (c *Client) Search(ctx context.Context, indexName, query string, params ...interface{}) (search.QueryRes, error) {
	ctx, span := c.tracer.Start(ctx, "algolia.search",
		trace.WithAttributes(
			attribute.String("algolia.index_name", indexName),
		),
	)
	defer span.End()

	client, err := c.getClient()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get Algolia client")
		return search.QueryRes{}, err
	}

	index := client.InitIndex(indexName)

	res, err := index.Search(query, params...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, fmt.Sprintf("search failed on index %s", indexName))
		return search.QueryRes{}, fmt.Errorf("failed to search Algolia index %s: %w", indexName, err)
	}

	span.SetStatus(codes.Ok, "search completed")
	return res, nil
}

// DeleteObject removes one object from an index.
func (c *Client) DeleteObject(ctx context.Context, indexName string, objectID string) error {
	ctx, span := c.tracer.Start(ctx, "algolia.delete_object",
		trace.WithAttributes(
			attribute.String("algolia.index_name", indexName),
			attribute.String("algolia.object_id", objectID),
		),
	)
	defer span.End()

	client, err := c.getClient()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get Algolia client")
		return err
	}

	index := client.InitIndex(indexName)

	_, err = index.DeleteObject(objectID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, fmt.Sprintf("failed to delete object from index %s", indexName))
		return fmt.Errorf("failed to delete object from Algolia index %s: %w", indexName, err)
	}

	span.SetStatus(codes.Ok, "object deleted successfully")
	return nil
}

// BatchSaveObjects upserts a batch of objects into an index.
func (c *Client) BatchSaveObjects(ctx context.Context, indexName string, objects []map[string]interface{}) error {
	if len(objects) == 0 {
		return nil
	}

	ctx, span := c.tracer.Start(ctx, "algolia.batch_save_objects",
		trace.WithAttributes(
			attribute.String("algolia.index_name", indexName),
			attribute.Int("algolia.object_count", len(objects)),
		),
	)
	defer span.End()

	client, err := c.getClient()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get Algolia client")
		return err
	}

	index := client.InitIndex(indexName)

	_, err = index.SaveObjects(objects)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, fmt.Sprintf("failed to batch save %d objects to index %s", len(objects), indexName))
		return fmt.Errorf("failed to batch save objects to Algolia index %s: %w", indexName, err)
	}

	span.SetStatus(codes.Ok, fmt.Sprintf("batch saved %d objects successfully", len(objects)))
	return nil
}
