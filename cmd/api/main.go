package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	auditData "philcali.me/notifications/internal/dynamodb/audits"
	subscriberData "philcali.me/notifications/internal/dynamodb/subscriptions"
	"philcali.me/notifications/internal/dynamodb/token"
	"philcali.me/notifications/internal/endpoints"
	"philcali.me/notifications/internal/routes"
	"philcali.me/notifications/internal/routes/audits"
	"philcali.me/notifications/internal/routes/notices"
	"philcali.me/notifications/internal/routes/subscriptions"
	"philcali.me/notifications/internal/sns/services"
)

type App struct {
	Router routes.Router
}

func NewApp() App {
	tableName := os.Getenv("TABLE_NAME")
	topicArn := os.Getenv("TOPIC_ARN")
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		panic("Failed to load AWS config.")
	}
	client := dynamodb.NewFromConfig(cfg)
	marshaler := token.NewGCM()
	notificationService := &services.NotificationSNSService{
		Sns:      sns.NewFromConfig(cfg),
		TopicArn: topicArn,
	}
	router := routes.NewRouter(
		subscriptions.NewRoute(
			subscriberData.NewSubscriptionService(tableName, *client, marshaler),
			notificationService,
			endpoints.NewDefaultVerificationService(),
		),
		audits.NewRoute(auditData.NewAuditService(tableName, *client, marshaler)),
		notices.NewRoute(notificationService),
	)
	return App{
		Router: *router,
	}
}

func (app *App) HandleRequest(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return app.Router.Invoke(request, ctx), nil
}

func main() {
	app := NewApp()
	lambda.Start(app.HandleRequest)
}
