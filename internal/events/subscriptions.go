package events

import (
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/notifications/internal/notifications"
)

// Registry records can disappear without going through the API (table
// TTL, console deletes). The notification service still holds a live
// subscription in that case, so removals unsubscribe the stored ARN.
type CleanupSubscriptionHandler struct {
	Notifications notifications.NotificationService
}

func (ch *CleanupSubscriptionHandler) Filter(record events.DynamoDBEventRecord) bool {
	pk := record.Change.Keys["PK"]
	parts := strings.Split(pk.String(), ":")
	return record.EventName == "REMOVE" && len(parts) == 2 && parts[1] == "Subscription"
}

func (ch *CleanupSubscriptionHandler) Apply(record events.DynamoDBEventRecord) error {
	arn, ok := record.Change.OldImage["subscriberArn"]
	if !ok || arn.String() == "" {
		return nil
	}
	return ch.Notifications.Unsubscribe(arn.String())
}

func DefaultCleanupHandler(service notifications.NotificationService) *CleanupSubscriptionHandler {
	return &CleanupSubscriptionHandler{
		Notifications: service,
	}
}
