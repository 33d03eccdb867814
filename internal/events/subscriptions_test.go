package events

import (
	"testing"

	"github.com/google/uuid"
	"philcali.me/notifications/internal/notifications"
)

type RecordingNotifications struct {
	Unsubscribed []string
}

func (rn *RecordingNotifications) Subscribe(input notifications.SubscribeInput) (*notifications.SubscribeOutput, error) {
	return &notifications.SubscribeOutput{SubscriberId: uuid.NewString()}, nil
}

func (rn *RecordingNotifications) Unsubscribe(subscriberId string) error {
	rn.Unsubscribed = append(rn.Unsubscribed, subscriberId)
	return nil
}

func (rn *RecordingNotifications) GetAttributes(subscriberId string) (map[string]string, error) {
	return map[string]string{}, nil
}

func (rn *RecordingNotifications) SetAttribute(subscriberId string, name string, value string) error {
	return nil
}

func (rn *RecordingNotifications) Publish(input notifications.PublishInput) (*notifications.PublishOutput, error) {
	return &notifications.PublishOutput{MessageId: uuid.NewString()}, nil
}

func TestCleanupSubscriptions(t *testing.T) {
	t.Run("RemovalUnsubscribes", func(t *testing.T) {
		recorder := &RecordingNotifications{}
		handler := DefaultCleanupHandler(recorder)
		record := _subscriptionRecord("REMOVE", uuid.NewString(), "deadbeef")
		if !handler.Filter(record) {
			t.Fatal("Expected the REMOVE record to match")
		}
		if err := handler.Apply(record); err != nil {
			t.Fatalf("Failed to apply the REMOVE record: %s", err)
		}
		expected := "arn:aws:sns:us-east-1:012345678912:Notices:deadbeef"
		if len(recorder.Unsubscribed) != 1 || recorder.Unsubscribed[0] != expected {
			t.Errorf("Unexpected unsubscriptions: %v", recorder.Unsubscribed)
		}
	})

	t.Run("OnlyRemovalsMatch", func(t *testing.T) {
		handler := DefaultCleanupHandler(&RecordingNotifications{})
		for _, eventName := range []string{"INSERT", "MODIFY"} {
			if handler.Filter(_subscriptionRecord(eventName, uuid.NewString(), "deadbeef")) {
				t.Errorf("Expected the %s record to be skipped", eventName)
			}
		}
	})

	t.Run("MissingArnIsANoop", func(t *testing.T) {
		recorder := &RecordingNotifications{}
		handler := DefaultCleanupHandler(recorder)
		record := _subscriptionRecord("REMOVE", uuid.NewString(), "deadbeef")
		delete(record.Change.OldImage, "subscriberArn")
		if err := handler.Apply(record); err != nil {
			t.Fatalf("Expected a no-op, got %s", err)
		}
		if len(recorder.Unsubscribed) != 0 {
			t.Errorf("Unexpected unsubscriptions: %v", recorder.Unsubscribed)
		}
	})
}
