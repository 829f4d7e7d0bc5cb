package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/segmentio/ksuid"
	"github.com/urfave/cli/v2"

	"github.com/learnloop/edsearch"
	"github.com/learnloop/edsearch/algolia"
	"github.com/learnloop/edsearch/engine"
	"github.com/learnloop/edsearch/inmemory"
	"github.com/learnloop/edsearch/segment"
)

const defaultTimeout = 5 * time.Second

func main() {
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" || os.Getenv("AWS_REGION") != "" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	app := &cli.App{
		Name:  "search",
		Usage: "Search educational content from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "Query string to search for; positional arg is a fallback",
			},
			&cli.StringSliceFlag{
				Name:    "category",
				Aliases: []string{"c"},
				Usage:   "Content category to search (lessons, knowledgeCards, studentWorks, resources); repeatable, default all",
			},
			&cli.StringSliceFlag{
				Name:    "difficulty",
				Aliases: []string{"d"},
				Usage:   "Difficulty level to filter lessons by; repeatable",
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Result page, starting at 1",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "page-size",
				Usage: "Number of results per page",
				Value: engine.DefaultPageSize,
			},
			&cli.StringFlag{
				Name:  "data",
				Usage: "Path to a JSON content file to search in memory instead of Algolia",
			},
			&cli.StringFlag{
				Name:    "index-prefix",
				Usage:   "Prefix for Algolia index names",
				EnvVars: []string{"INDEX_PREFIX"},
			},
			&cli.StringFlag{
				Name:    "algolia-secret-arn",
				Usage:   "ARN of AWS Secrets Manager secret containing Algolia credentials",
				EnvVars: []string{"ALGOLIA_SECRET_ARN"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Timeout for the search request",
				Value: defaultTimeout,
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

	query := strings.TrimSpace(c.String("query"))
	if query == "" && c.NArg() > 0 {
		query = strings.TrimSpace(c.Args().First())
	}

	categories, err := parseCategories(c.StringSlice("category"))
	if err != nil {
		return err
	}

	timeout := c.Duration("timeout")
	if timeout <= 0 {
		slog.WarnContext(ctx, "timeout must be positive; using default", "timeout", timeout, "default", defaultTimeout)
		timeout = defaultTimeout
	}

	store, err := buildStore(ctx, c)
	if err != nil {
		return err
	}

	seg, err := segment.New()
	if err != nil {
		return fmt.Errorf("failed to initialize segmenter: %w", err)
	}

	eng, err := engine.New(store, seg)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	slog.InfoContext(ctx, "executing search",
		"query", query,
		"categories", categories,
		"difficulty", c.StringSlice("difficulty"),
		"page", c.Int("page"),
		"page_size", c.Int("page-size"),
	)

	response, err := eng.Search(ctx, engine.Query{
		Text:       query,
		Categories: categories,
		Difficulty: c.StringSlice("difficulty"),
		Page:       c.Int("page"),
		PageSize:   c.Int("page-size"),
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	data, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize results: %w", err)
	}

	fmt.Println(string(data))
	return nil
}

func parseCategories(raw []string) ([]edsearch.Category, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	categories := make([]edsearch.Category, 0, len(raw))
	for _, name := range raw {
		category, ok := edsearch.ParseCategory(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("unknown category: %q", name)
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func buildStore(ctx context.Context, c *cli.Context) (edsearch.ContentStore, error) {
	if dataPath := strings.TrimSpace(c.String("data")); dataPath != "" {
		return loadContentFile(dataPath)
	}

	prefix := strings.TrimSpace(c.String("index-prefix"))
	if prefix == "" {
		return nil, fmt.Errorf("either --data or --index-prefix is required")
	}

	var fetchSecrets algolia.FetchSecrets
	if secretArn := strings.TrimSpace(c.String("algolia-secret-arn")); secretArn != "" {
		slog.InfoContext(ctx, "using AWS Secrets Manager for Algolia credentials", "secret_arn", secretArn)
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		secretsClient := secretsmanager.NewFromConfig(cfg)
		fetchSecrets = algolia.AWSSecretsFromARN(ctx, secretsClient, secretArn)
	} else {
		fetchSecrets = algolia.EnvSecrets()
	}

	client := algolia.NewClient(fetchSecrets)
	return algolia.NewStore(client, prefix), nil
}

// loadContentFile reads a JSON file mapping category names to documents and
// seeds an in-memory store with it. Documents without an id get a generated
// one.
func loadContentFile(path string) (*inmemory.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}

	var content map[string][]map[string]interface{}
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("failed to parse content file %s: %w", path, err)
	}

	store := inmemory.New()
	for name, docs := range content {
		category, ok := edsearch.ParseCategory(name)
		if !ok {
			return nil, fmt.Errorf("unknown category in content file: %q", name)
		}

		for _, fields := range docs {
			id, _ := fields["id"].(string)
			if id == "" {
				id = ksuid.New().String()
			}
			delete(fields, "id")

			store.AddDocument(category, inmemory.Document{
				ID:     id,
				Fields: fields,
			})
		}
	}

	return store, nil
}
