package services

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"philcali.me/notifications/internal/notifications"
)

type SubscriptionAPI interface {
	Subscribe(ctx context.Context, params *sns.SubscribeInput, optFns ...func(*sns.Options)) (*sns.SubscribeOutput, error)
	Unsubscribe(ctx context.Context, params *sns.UnsubscribeInput, optFns ...func(*sns.Options)) (*sns.UnsubscribeOutput, error)
	GetSubscriptionAttributes(ctx context.Context, params *sns.GetSubscriptionAttributesInput, optFns ...func(*sns.Options)) (*sns.GetSubscriptionAttributesOutput, error)
	SetSubscriptionAttributes(ctx context.Context, params *sns.SetSubscriptionAttributesInput, optFns ...func(*sns.Options)) (*sns.SetSubscriptionAttributesOutput, error)
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type NotificationSNSService struct {
	Sns      SubscriptionAPI
	TopicArn string
}

func (n *NotificationSNSService) Subscribe(input notifications.SubscribeInput) (*notifications.SubscribeOutput, error) {
	output, err := n.Sns.Subscribe(context.TODO(), &sns.SubscribeInput{
		Endpoint:              input.Endpoint,
		Protocol:              input.Protocol,
		TopicArn:              aws.String(n.TopicArn),
		ReturnSubscriptionArn: true,
	})

	if err != nil {
		return nil, err
	}

	return &notifications.SubscribeOutput{
		SubscriberId: *output.SubscriptionArn,
	}, nil
}

func (n *NotificationSNSService) Unsubscribe(subscriberId string) error {
	_, err := n.Sns.Unsubscribe(context.TODO(), &sns.UnsubscribeInput{
		SubscriptionArn: aws.String(subscriberId),
	})

	return err
}

func (n *NotificationSNSService) GetAttributes(subscriberId string) (map[string]string, error) {
	output, err := n.Sns.GetSubscriptionAttributes(context.TODO(), &sns.GetSubscriptionAttributesInput{
		SubscriptionArn: aws.String(subscriberId),
	})

	if err != nil {
		return nil, err
	}

	return output.Attributes, nil
}

func (n *NotificationSNSService) SetAttribute(subscriberId string, name string, value string) error {
	_, err := n.Sns.SetSubscriptionAttributes(context.TODO(), &sns.SetSubscriptionAttributesInput{
		SubscriptionArn: aws.String(subscriberId),
		AttributeName:   aws.String(name),
		AttributeValue:  aws.String(value),
	})

	return err
}

func (n *NotificationSNSService) Publish(input notifications.PublishInput) (*notifications.PublishOutput, error) {
	output, err := n.Sns.Publish(context.TODO(), &sns.PublishInput{
		TopicArn: aws.String(n.TopicArn),
		Subject:  input.Subject,
		Message:  input.Message,
	})

	if err != nil {
		return nil, err
	}

	return &notifications.PublishOutput{
		MessageId: *output.MessageId,
	}, nil
}
