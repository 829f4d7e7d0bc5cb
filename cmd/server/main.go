package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/urfave/cli/v2"

	"github.com/learnloop/edsearch"
	"github.com/learnloop/edsearch/algolia"
	"github.com/learnloop/edsearch/api"
	"github.com/learnloop/edsearch/engine"
	"github.com/learnloop/edsearch/inmemory"
	"github.com/learnloop/edsearch/segment"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.App{
		Name:  "server",
		Usage: "Serve the educational content search API over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "Address to listen on",
				EnvVars: []string{"LISTEN_ADDR"},
				Value:   ":8080",
			},
			&cli.StringFlag{
				Name:    "data",
				Usage:   "Path to a JSON content file to serve from memory instead of Algolia",
				EnvVars: []string{"CONTENT_FILE"},
			},
			&cli.StringFlag{
				Name:    "index-prefix",
				Usage:   "Prefix for Algolia index names",
				EnvVars: []string{"INDEX_PREFIX"},
			},
			&cli.StringFlag{
				Name:    "env",
				Usage:   "Environment name for AWS Secrets Manager",
				EnvVars: []string{"ENV", "ENVIRONMENT"},
			},
			&cli.DurationFlag{
				Name:    "cache-ttl",
				Usage:   "How long search responses stay cached",
				EnvVars: []string{"CACHE_TTL"},
				Value:   engine.DefaultCacheTTL,
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
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	store, err := buildStore(ctx, c)
	if err != nil {
		return err
	}

	seg, err := segment.New()
	if err != nil {
		return fmt.Errorf("failed to initialize segmenter: %w", err)
	}

	eng, err := engine.New(store, seg,
		engine.WithLogger(logger),
		engine.WithCache(engine.NewCache(c.Duration("cache-ttl"))),
	)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}

	mux := http.NewServeMux()
	api.NewServer(eng, logger).RegisterRoutes(mux)

	server := &http.Server{
		Addr:    c.String("addr"),
		Handler: api.CorsMiddleware(mux),
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
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
	if env := strings.TrimSpace(c.String("env")); env != "" {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		secretsClient := secretsmanager.NewFromConfig(cfg)
		fetchSecrets = algolia.AWSSecrets(ctx, secretsClient, env)
	} else {
		fetchSecrets = algolia.EnvSecrets()
	}

	client := algolia.NewClient(fetchSecrets)
	return algolia.NewStore(client, prefix), nil
}

func loadContentFile(path string) (*inmemory.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}

	store := inmemory.New()

	var content map[string][]map[string]interface{}
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("failed to parse content file %s: %w", path, err)
	}

	for name, docs := range content {
		category, ok := edsearch.ParseCategory(name)
		if !ok {
			return nil, fmt.Errorf("unknown category in content file: %q", name)
		}

		for i, fields := range docs {
			id, _ := fields["id"].(string)
			if id == "" {
				return nil, fmt.Errorf("document %d in category %s is missing an id", i, category)
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
