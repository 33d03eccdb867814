package notifications

type SubscribeInput struct {
	Endpoint *string
	Protocol *string
}

type SubscribeOutput struct {
	SubscriberId string
}

type PublishInput struct {
	Subject *string
	Message *string
}

type PublishOutput struct {
	MessageId string
}

type NotificationService interface {
	Subscribe(input SubscribeInput) (*SubscribeOutput, error)
	Unsubscribe(subscriberId string) error
	GetAttributes(subscriberId string) (map[string]string, error)
	SetAttribute(subscriberId string, name string, value string) error
	Publish(input PublishInput) (*PublishOutput, error)
}
