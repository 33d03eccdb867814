package notices

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/notifications/internal/exceptions"
	"philcali.me/notifications/internal/notifications"
	"philcali.me/notifications/internal/routes"
	"philcali.me/notifications/internal/routes/util"
)

type Notice struct {
	MessageId string `json:"messageId"`
}

type NoticeInput struct {
	Subject *string `json:"subject"`
	Message *string `json:"message"`
}

type NoticeService struct {
	notifications notifications.NotificationService
}

func NewRoute(notifications notifications.NotificationService) routes.Service {
	return &NoticeService{
		notifications: notifications,
	}
}

func (ns *NoticeService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"POST:/notices": util.AuthorizedRoute(ns.PublishNotice),
	}
}

func (ns *NoticeService) PublishNotice(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input := NoticeInput{}
	if err := json.Unmarshal([]byte(event.Body), &input); err != nil {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput(err.Error())
	}
	if input.Message == nil {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput("Notice requires a message")
	}
	published, err := ns.notifications.Publish(notifications.PublishInput{
		Subject: input.Subject,
		Message: input.Message,
	})
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InternalServer(err.Error())
	}
	return util.SerializeResponseOK(func(p *notifications.PublishOutput) Notice {
		return Notice{MessageId: p.MessageId}
	}, published, nil)
}
