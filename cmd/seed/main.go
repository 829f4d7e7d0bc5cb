package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/segmentio/ksuid"
	"github.com/urfave/cli/v2"

	"github.com/learnloop/edsearch"
)

type contentRecord struct {
	PK     string                 `dynamodbav:"pk"`
	SK     string                 `dynamodbav:"sk"`
	Object map[string]interface{} `dynamodbav:"object"`
}

var (
	topics = []string{
		"交互设计", "动效设计", "色彩理论", "排版", "用户研究",
		"信息架构", "原型制作", "设计系统", "插画", "品牌设计",
	}

	difficulties = []string{"beginner", "intermediate", "advanced"}

	resourceKinds = []string{"video", "article", "link", "tool"}

	authors = []string{"Li Wei", "Zhang Min", "Wang Fang", "Chen Jie", "Liu Yang"}
)

func randomDocument(category edsearch.Category) map[string]interface{} {
	topic := topics[rand.IntN(len(topics))]

	switch category {
	case edsearch.CategoryLessons:
		return map[string]interface{}{
			"title":      fmt.Sprintf("%s课程 %d", topic, rand.IntN(100)),
			"code":       fmt.Sprintf("lesson-%03d", rand.IntN(1000)),
			"summary":    fmt.Sprintf("系统学习%s的基础与实践", topic),
			"difficulty": difficulties[rand.IntN(len(difficulties))],
			"loop": map[string]interface{}{
				"title": fmt.Sprintf("%s学习环", topic),
			},
			"published": rand.IntN(10) > 0,
		}
	case edsearch.CategoryKnowledgeCards:
		return map[string]interface{}{
			"title":     fmt.Sprintf("%s要点", topic),
			"content":   fmt.Sprintf("关于%s的核心概念和常见误区", topic),
			"tags":      []string{topic, "基础"},
			"published": true,
		}
	case edsearch.CategoryStudentWorks:
		return map[string]interface{}{
			"title":       fmt.Sprintf("%s习作 %d", topic, rand.IntN(100)),
			"description": fmt.Sprintf("以%s为主题的课程作业", topic),
			"author":      authors[rand.IntN(len(authors))],
			"published":   true,
		}
	default:
		return map[string]interface{}{
			"name":        fmt.Sprintf("%s资源包", topic),
			"description": fmt.Sprintf("%s相关的参考资料合集", topic),
			"kind":        resourceKinds[rand.IntN(len(resourceKinds))],
			"published":   true,
		}
	}
}

func insertDocument(ctx context.Context, client *dynamodb.Client, tableName string, category edsearch.Category) error {
	id := ksuid.New().String()

	record := contentRecord{
		PK:     id,
		SK:     string(category),
		Object: randomDocument(category),
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal content record: %w", err)
	}

	_, err = client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put item in DynamoDB: %w", err)
	}

	slog.InfoContext(ctx, "Successfully inserted document",
		"id", id,
		"category", category,
	)

	return nil
}

func runAction(c *cli.Context) error {
	ctx := c.Context
	env := c.String("env")
	tableName := c.String("table-name")
	count := c.Int("count")

	slog.InfoContext(ctx, "Starting content seeder",
		"environment", env,
		"table", tableName,
		"count", count,
	)

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg)

	categories := edsearch.Categories()
	for i := 0; i < count; i++ {
		category := categories[i%len(categories)]
		if err := insertDocument(ctx, client, tableName, category); err != nil {
			return fmt.Errorf("failed to insert document %d: %w", i+1, err)
		}
	}

	slog.InfoContext(ctx, "Successfully seeded all documents", "count", count)
	return nil
}

func main() {
	// Configure JSON logging for AWS environments
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" || os.Getenv("AWS_REGION") != "" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Generate sample educational content and insert into DynamoDB",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "env",
				Aliases:  []string{"e"},
				Usage:    "Environment name",
				EnvVars:  []string{"ENVIRONMENT"},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "table-name",
				Aliases:  []string{"t"},
				Usage:    "DynamoDB table name",
				EnvVars:  []string{"TABLE_NAME"},
				Required: true,
			},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"c"},
				Usage:   "Number of documents to generate",
				Value:   1,
			},
		},
		Action: runAction,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}
