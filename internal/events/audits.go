package events

import (
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"philcali.me/notifications/internal/data"
)

// Audit entries are kept around for five years.
const EXPIRY_LOG = time.Hour * 24 * 365 * 5

var ACTIONS = map[string]string{
	"INSERT": "created",
	"MODIFY": "updated",
	"REMOVE": "deleted",
}

func _getRecordImage(record events.DynamoDBEventRecord) map[string]events.DynamoDBAttributeValue {
	if record.Change.NewImage != nil {
		return record.Change.NewImage
	}
	return record.Change.OldImage
}

type CreateAuditEntryHandler struct {
	Audit     data.AuditRepository
	Resources map[string]bool
}

func (ch *CreateAuditEntryHandler) Filter(record events.DynamoDBEventRecord) bool {
	pk := _getRecordImage(record)["PK"]
	parts := strings.Split(pk.String(), ":")
	return len(parts) == 2 && ch.Resources[parts[1]]
}

func (ch *CreateAuditEntryHandler) Apply(record events.DynamoDBEventRecord) error {
	image := _getRecordImage(record)
	parts := strings.Split(image["PK"].String(), ":")
	action, ok := ACTIONS[record.EventName]
	if !ok {
		return nil
	}
	_, err := ch.Audit.Create(parts[0], data.AuditInputDTO{
		AccountId:    &parts[0],
		ResourceId:   aws.String(image["SK"].String()),
		ResourceType: &parts[1],
		Action:       &action,
		ExpiresIn:    aws.Int(int(time.Now().Add(EXPIRY_LOG).UnixMilli())),
	})
	return err
}

func DefaultAuditHandler(db data.AuditRepository) *CreateAuditEntryHandler {
	return &CreateAuditEntryHandler{
		Audit: db,
		Resources: map[string]bool{
			"Subscription": true,
		},
	}
}
