package subscriptions

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"philcali.me/notifications/internal/data"
	"philcali.me/notifications/internal/dynamodb/services"
	"philcali.me/notifications/internal/dynamodb/token"
)

func NewSubscriptionService(tableName string, client dynamodb.Client, marshaler token.TokenMarshaler) data.SubscriptionDataService {
	return &services.RepositoryDynamoDBService[data.SubscriptionDTO, data.SubscriptionInputDTO]{
		DynamoDB:       client,
		TableName:      tableName,
		TokenMarshaler: marshaler,
		Name:           "Subscription",
		GetSK: func(sd data.SubscriptionDTO) string {
			return sd.SK
		},
		Shim: func(pk, sk string) data.SubscriptionDTO {
			return data.SubscriptionDTO{PK: pk, SK: sk}
		},
		OnCreate: func(sid data.SubscriptionInputDTO, createTime time.Time, pk, sk string) data.SubscriptionDTO {
			return data.SubscriptionDTO{
				PK:            pk,
				SK:            sk,
				Endpoint:      *sid.Endpoint,
				Protocol:      *sid.Protocol,
				SubscriberArn: *sid.SubscriberArn,
				CreateTime:    createTime,
				UpdateTime:    createTime,
			}
		},
		OnUpdate: func(sid data.SubscriptionInputDTO, update expression.UpdateBuilder) {
			if sid.Endpoint != nil {
				update.Set(expression.Name("endpoint"), expression.Value(sid.Endpoint))
			}
			if sid.Protocol != nil {
				update.Set(expression.Name("protocol"), expression.Value(sid.Protocol))
			}
			if sid.SubscriberArn != nil {
				update.Set(expression.Name("subscriberArn"), expression.Value(sid.SubscriberArn))
			}
		},
	}
}
