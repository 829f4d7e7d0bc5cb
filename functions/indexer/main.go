package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/urfave/cli/v2"

	"github.com/learnloop/edsearch"
	"github.com/learnloop/edsearch/algolia"
	"github.com/learnloop/edsearch/internal/ddb"
)

type Handler struct {
	store         *algolia.Store
	algoliaClient *algolia.Client
}

func NewHandler(indexPrefix string, fetchSecrets algolia.FetchSecrets) *Handler {
	algoliaClient := algolia.NewClient(fetchSecrets)

	return &Handler{
		store:         algolia.NewStore(algoliaClient, indexPrefix),
		algoliaClient: algoliaClient,
	}
}

func (h *Handler) HandleDynamoDBEvent(ctx context.Context, e ddb.DynamoDBEvent) error {
	slog.InfoContext(ctx, "Processing DynamoDB stream records", "record_count", len(e.Records))

	batches, deletions := collectOperations(ctx, e.Records)

	// One batch write per touched category instead of one round trip per
	// record.
	for _, category := range edsearch.Categories() {
		objects := batches[category]
		if len(objects) == 0 {
			continue
		}

		indexName := h.store.IndexName(category)
		slog.InfoContext(ctx, "Batch saving objects to Algolia", "index", indexName, "object_count", len(objects))
		if err := h.algoliaClient.BatchSaveObjects(ctx, indexName, objects); err != nil {
			slog.ErrorContext(ctx, "Error batch saving objects", "index", indexName, "error", err)
			return err
		}
	}

	for _, del := range deletions {
		indexName := h.store.IndexName(del.category)
		slog.InfoContext(ctx, "Deleting object from Algolia", "object_id", del.objectID, "index", indexName)
		if err := h.algoliaClient.DeleteObject(ctx, indexName, del.objectID); err != nil {
			slog.ErrorContext(ctx, "Error deleting object", "object_id", del.objectID, "index", indexName, "error", err)
			return err
		}
	}

	return nil
}

type deletion struct {
	category edsearch.Category
	objectID string
}

// collectOperations groups a stream event's upserts by category and gathers
// its deletions. Malformed or unknown-category records are skipped with a
// warning.
func collectOperations(ctx context.Context, records []ddb.DynamoDBEventRecord) (map[edsearch.Category][]map[string]interface{}, []deletion) {
	batches := make(map[edsearch.Category][]map[string]interface{})
	var deletions []deletion

	for _, record := range records {
		switch ddb.DynamoDBOperationType(record.EventName) {
		case ddb.DynamoDBOperationTypeInsert, ddb.DynamoDBOperationTypeModify:
			if record.Change.NewImage == nil {
				slog.WarnContext(ctx, "No new image for insert/modify operation, skipping record")
				continue
			}

			parsedRecord, err := ddb.UnmarshalRecord(record.Change.NewImage)
			if err != nil {
				slog.WarnContext(ctx, "Failed to unmarshal record, skipping", "error", err)
				continue
			}

			if parsedRecord.ID == "" {
				slog.WarnContext(ctx, "Missing ID (pk) in record, skipping record")
				continue
			}
			category, ok := edsearch.ParseCategory(parsedRecord.Category)
			if !ok {
				slog.WarnContext(ctx, "Unknown content category (sk), skipping record", "id", parsedRecord.ID, "category", parsedRecord.Category)
				continue
			}
			if parsedRecord.Object == nil {
				slog.WarnContext(ctx, "Missing Object in record, skipping record", "id", parsedRecord.ID, "category", category)
				continue
			}

			object := make(map[string]interface{}, len(parsedRecord.Object)+1)
			for k, v := range parsedRecord.Object {
				object[k] = v
			}
			object["objectID"] = parsedRecord.ID

			batches[category] = append(batches[category], object)

		case ddb.DynamoDBOperationTypeRemove:
			// Delete operations only need the keys
			parsedRecord, err := ddb.UnmarshalRecord(record.Change.Keys)
			if err != nil {
				slog.WarnContext(ctx, "Failed to unmarshal keys for delete operation, skipping", "error", err)
				continue
			}

			if parsedRecord.ID == "" {
				slog.WarnContext(ctx, "Missing ID in delete record, skipping record")
				continue
			}
			category, ok := edsearch.ParseCategory(parsedRecord.Category)
			if !ok {
				slog.WarnContext(ctx, "Unknown content category in delete record, skipping record", "id", parsedRecord.ID, "category", parsedRecord.Category)
				continue
			}

			deletions = append(deletions, deletion{category: category, objectID: parsedRecord.ID})

		default:
			slog.InfoContext(ctx, "Ignoring event type", "event_type", record.EventName)
		}
	}

	return batches, deletions
}

func main() {
	app := &cli.App{
		Name:  "content-indexer",
		Usage: "Sync content table stream events to Algolia indices",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "index-prefix",
				Usage:    "Prefix for Algolia index names, one index per content category",
				EnvVars:  []string{"INDEX_PREFIX"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "env",
				Usage:   "Environment name for AWS Secrets Manager (takes precedence over API key/ID flags)",
				EnvVars: []string{"ENV", "ENVIRONMENT"},
			},
			&cli.StringFlag{
				Name:    "algolia-app-id",
				Usage:   "Algolia application ID",
				EnvVars: []string{"ALGOLIA_APP_ID"},
			},
			&cli.StringFlag{
				Name:    "algolia-api-key",
				Usage:   "Algolia API key",
				EnvVars: []string{"ALGOLIA_API_KEY"},
			},
		},
		Action: runAction,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func runAction(c *cli.Context) error {
	ctx := c.Context
	indexPrefix := c.String("index-prefix")
	env := c.String("env")
	algoliaAppID := c.String("algolia-app-id")
	algoliaAPIKey := c.String("algolia-api-key")

	slog.InfoContext(ctx, "Starting content indexer", "index_prefix", indexPrefix, "environment", env)

	var fetchSecrets algolia.FetchSecrets

	if env != "" {
		slog.InfoContext(ctx, "Using AWS Secrets Manager for credentials", "environment", env)

		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load AWS config", "error", err)
			return err
		}

		client := secretsmanager.NewFromConfig(cfg)
		fetchSecrets = algolia.AWSSecrets(ctx, client, env)
	} else if algoliaAppID != "" && algoliaAPIKey != "" {
		slog.InfoContext(ctx, "Using static credentials from flags")
		fetchSecrets = algolia.StaticSecrets(algoliaAppID, algoliaAPIKey)
	} else {
		slog.InfoContext(ctx, "Using environment variables for credentials")
		fetchSecrets = algolia.EnvSecrets()
	}

	handler := NewHandler(indexPrefix, fetchSecrets)

	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		slog.InfoContext(ctx, "Running in Lambda environment")
		lambda.Start(handler.HandleDynamoDBEvent)
	} else {
		slog.InfoContext(ctx, "Function cannot run outside of AWS Lambda environment")
	}

	return nil
}
