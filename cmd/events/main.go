package main

import (
	"context"
	"fmt"
	"os"

	lambdaEvents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"philcali.me/notifications/internal/dynamodb/audits"
	"philcali.me/notifications/internal/dynamodb/token"
	"philcali.me/notifications/internal/events"
	"philcali.me/notifications/internal/sns/services"
)

func HandleRequest(ctx context.Context, event lambdaEvents.DynamoDBEvent) error {
	tableName := os.Getenv("TABLE_NAME")
	topicArn := os.Getenv("TOPIC_ARN")
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return err
	}

	client := dynamodb.NewFromConfig(cfg)
	marshaler := token.NewGCM()
	auditData := audits.NewAuditService(tableName, *client, marshaler)
	notificationService := &services.NotificationSNSService{
		Sns:      sns.NewFromConfig(cfg),
		TopicArn: topicArn,
	}

	handlers := []events.EventFilter{
		events.DefaultAuditHandler(auditData),
		events.DefaultCleanupHandler(notificationService),
	}

	for _, record := range event.Records {
		for _, handler := range handlers {
			if handler.Filter(record) {
				if err := handler.Apply(record); err != nil {
					fmt.Printf("ERROR: failed to handle %s: %v", err.Error(), record)
					break
				}
			}
		}
	}

	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
