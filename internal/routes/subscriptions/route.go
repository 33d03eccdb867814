package subscriptions

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/notifications/internal/data"
	"philcali.me/notifications/internal/endpoints"
	"philcali.me/notifications/internal/exceptions"
	"philcali.me/notifications/internal/notifications"
	"philcali.me/notifications/internal/routes"
	"philcali.me/notifications/internal/routes/util"
)

type SubscriptionService struct {
	data          data.SubscriptionDataService
	notifications notifications.NotificationService
	endpoints     endpoints.VerificationService
}

func NewRoute(data data.SubscriptionDataService, notifications notifications.NotificationService, endpoints endpoints.VerificationService) routes.Service {
	return &SubscriptionService{
		data:          data,
		notifications: notifications,
		endpoints:     endpoints,
	}
}

func (s *SubscriptionService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/subscriptions":                          util.AuthorizedRoute(s.ListSubscriptions),
		"GET:/subscriptions/:subscriberId":            util.AuthorizedRoute(s.GetSubscription),
		"GET:/subscriptions/:subscriberId/attributes": util.AuthorizedRoute(s.GetSubscriptionAttributes),
		"PUT:/subscriptions/:subscriberId/attributes": util.AuthorizedRoute(s.SetSubscriptionAttribute),
		"POST:/subscriptions":                         util.AuthorizedRoute(s.CreateSubscription),
		"PUT:/subscriptions/:subscriberId":            util.AuthorizedRoute(s.UpdateSubscription),
		"DELETE:/subscriptions/:subscriberId":         util.AuthorizedRoute(s.DeleteSubscription),
	}
}

func (s *SubscriptionService) ListSubscriptions(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	return util.SerializeList[data.SubscriptionDTO, data.SubscriptionInputDTO](s.data, NewSubscription, event, ctx)
}

func (s *SubscriptionService) GetSubscription(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	item, err := s.data.Get(util.Username(ctx), util.RequestParam(ctx, "subscriberId"))
	return util.SerializeResponseOK(NewSubscription, item, err)
}

func (s *SubscriptionService) GetSubscriptionAttributes(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	item, err := s.data.Get(util.Username(ctx), util.RequestParam(ctx, "subscriberId"))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	attributes, err := s.notifications.GetAttributes(item.SubscriberArn)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InternalServer(err.Error())
	}
	return util.SerializeResponseOK(func(m map[string]string) map[string]string { return m }, attributes, nil)
}

func (s *SubscriptionService) SetSubscriptionAttribute(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input := AttributeInput{}
	if err := json.Unmarshal([]byte(event.Body), &input); err != nil {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput(err.Error())
	}
	if input.Name == nil || input.Value == nil {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput("Attribute requires both a name and a value")
	}
	item, err := s.data.Get(util.Username(ctx), util.RequestParam(ctx, "subscriberId"))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	if err := s.notifications.SetAttribute(item.SubscriberArn, *input.Name, *input.Value); err != nil {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InternalServer(err.Error())
	}
	return util.SerializeResponseNoContent(nil)
}

func (s *SubscriptionService) CreateSubscription(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input := SubscriptionInput{}
	if err := json.Unmarshal([]byte(event.Body), &input); err != nil {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput(err.Error())
	}
	if input.Endpoint == nil || input.Protocol == nil {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput("Subscription requires both an endpoint and a protocol")
	}

	if strings.HasPrefix(*input.Protocol, "http") {
		if err := s.endpoints.Verify(*input.Endpoint); err != nil {
			return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput(err.Error())
		}
	}

	subscription, err := s.notifications.Subscribe(notifications.SubscribeInput{
		Endpoint: input.Endpoint,
		Protocol: input.Protocol,
	})
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InternalServer(err.Error())
	}

	created, err := s.data.Create(util.Username(ctx), data.SubscriptionInputDTO{
		Endpoint:      input.Endpoint,
		Protocol:      input.Protocol,
		SubscriberArn: &subscription.SubscriberId,
	})
	return util.SerializeResponseOK(NewSubscription, created, err)
}

func (s *SubscriptionService) UpdateSubscription(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input := SubscriptionInput{}
	if err := json.Unmarshal([]byte(event.Body), &input); err != nil {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput(err.Error())
	}
	if input.Endpoint == nil || input.Protocol == nil {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput("Subscription requires both an endpoint and a protocol")
	}

	existing, err := s.data.Get(util.Username(ctx), util.RequestParam(ctx, "subscriberId"))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}

	if strings.HasPrefix(*input.Protocol, "http") {
		if err := s.endpoints.Verify(*input.Endpoint); err != nil {
			return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput(err.Error())
		}
	}

	subscription, err := s.notifications.Subscribe(notifications.SubscribeInput{
		Endpoint: input.Endpoint,
		Protocol: input.Protocol,
	})
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InternalServer(err.Error())
	}
	if err := s.notifications.Unsubscribe(existing.SubscriberArn); err != nil {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InternalServer(err.Error())
	}

	updated, err := s.data.Update(util.Username(ctx), existing.SK, data.SubscriptionInputDTO{
		Endpoint:      input.Endpoint,
		Protocol:      input.Protocol,
		SubscriberArn: &subscription.SubscriberId,
	})
	return util.SerializeResponseOK(NewSubscription, updated, err)
}

func (s *SubscriptionService) DeleteSubscription(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	subscriber, err := s.data.Get(util.Username(ctx), util.RequestParam(ctx, "subscriberId"))
	if err != nil {
		if _, ok := err.(*exceptions.NotFoundError); ok {
			return util.SerializeResponseNoContent(nil)
		}
		return events.APIGatewayV2HTTPResponse{}, exceptions.InternalServer(err.Error())
	}

	if err := s.notifications.Unsubscribe(subscriber.SubscriberArn); err != nil {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InternalServer(err.Error())
	}

	return util.SerializeResponseNoContent(s.data.Delete(util.Username(ctx), subscriber.SK))
}
