package audits

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"philcali.me/notifications/internal/data"
	"philcali.me/notifications/internal/dynamodb/services"
	"philcali.me/notifications/internal/dynamodb/token"
)

func NewAuditService(tableName string, client dynamodb.Client, marshaler token.TokenMarshaler) data.AuditRepository {
	return &services.RepositoryDynamoDBService[data.AuditDTO, data.AuditInputDTO]{
		DynamoDB:       client,
		TableName:      tableName,
		TokenMarshaler: marshaler,
		Name:           "Audit",
		GetSK: func(ad data.AuditDTO) string {
			return ad.SK
		},
		Shim: func(pk, sk string) data.AuditDTO {
			return data.AuditDTO{PK: pk, SK: sk}
		},
		OnCreate: func(aid data.AuditInputDTO, createTime time.Time, pk, sk string) data.AuditDTO {
			return data.AuditDTO{
				PK:           pk,
				SK:           sk,
				FirstIndex:   fmt.Sprintf("%s:Audit", *aid.AccountId),
				ResourceId:   *aid.ResourceId,
				ResourceType: *aid.ResourceType,
				Action:       *aid.Action,
				ExpiresIn:    aid.ExpiresIn,
				CreateTime:   createTime,
				UpdateTime:   createTime,
			}
		},
	}
}
